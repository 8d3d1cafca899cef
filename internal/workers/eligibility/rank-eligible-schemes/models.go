package rankeligibleschemes

import "kisan-scheme-workers/internal/scheme"

type Input struct {
	FarmerProfile scheme.FarmerProfile     `json:"farmerProfile"`
	Schemes       []scheme.GeneratedScheme `json:"schemes"`
}

type Output struct {
	EligibleSchemes []scheme.EligibleScheme `json:"eligible_schemes"`
	NearMisses      []scheme.NearMiss       `json:"nearMisses"`
	TopScheme       scheme.EligibleScheme   `json:"topScheme"`
	FallbackOnly    bool                    `json:"fallbackOnly"`
}
