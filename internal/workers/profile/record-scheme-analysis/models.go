package recordschemeanalysis

import "kisan-scheme-workers/internal/scheme"

type Input struct {
	FarmerID        string                  `json:"farmerId"`
	FarmerProfile   scheme.FarmerProfile    `json:"farmerProfile"`
	EligibleSchemes []scheme.EligibleScheme `json:"eligibleSchemes"`
}

type Output struct {
	AnalysisID string `json:"analysisId"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"` // ISO 8601
}

// storedResult is the JSONB document kept in scheme_analyses.result.
type storedResult struct {
	FarmerProfile   scheme.FarmerProfile    `json:"farmerProfile"`
	EligibleSchemes []scheme.EligibleScheme `json:"eligibleSchemes"`
	FallbackOnly    bool                    `json:"fallbackOnly"`
}

const StatusRecorded = "recorded"
