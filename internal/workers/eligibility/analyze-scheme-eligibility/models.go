package analyzeschemeeligibility

import "kisan-scheme-workers/internal/scheme"

type Input struct {
	FarmerID      string                `json:"farmerId,omitempty"`
	FarmerProfile *scheme.FarmerProfile `json:"farmerProfile,omitempty"`
}

type Output struct {
	FarmerID        string                  `json:"farmerId,omitempty"`
	State           string                  `json:"state"`
	FarmerProfile   scheme.FarmerProfile    `json:"farmerProfile"`
	EligibleSchemes []scheme.EligibleScheme `json:"eligibleSchemes"`
	NearMisses      []scheme.NearMiss       `json:"nearMisses"`
	TopScheme       scheme.EligibleScheme   `json:"topScheme"`
	ProfileSource   string                  `json:"profileSource"`
	AnalyzedAt      string                  `json:"analyzedAt"` // ISO 8601
}

// Where the analysed profile came from.
const (
	SourceInline   = "inline"
	SourceCache    = "cache"
	SourceDatabase = "database"
)
