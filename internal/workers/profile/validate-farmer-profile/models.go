package validatefarmerprofile

import (
	"kisan-scheme-workers/internal/common/validation"
	"kisan-scheme-workers/internal/scheme"
)

type Input struct {
	FarmerProfile map[string]interface{} `json:"farmerProfile"`
}

type Output struct {
	IsValid          bool                         `json:"isValid"`
	ValidationErrors []validation.ValidationError `json:"validationErrors"`
	FarmerProfile    *scheme.FarmerProfile        `json:"farmerProfile,omitempty"`
}
