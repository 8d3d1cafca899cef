package scheme

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FarmerProfileSchema is the JSON schema for a submitted farmer profile.
const FarmerProfileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["landSize", "location", "cropType", "irrigationType", "annualIncome", "farmerCategory"],
  "properties": {
    "landSize": {"type": "number", "exclusiveMinimum": 0},
    "location": {
      "type": "object",
      "required": ["state", "district"],
      "properties": {
        "state": {"type": "string", "minLength": 1},
        "district": {"type": "string"}
      }
    },
    "cropType": {"type": "string"},
    "irrigationType": {"type": "string", "enum": ["Rainfed", "Well", "Canal", "Other"]},
    "annualIncome": {"type": "number", "minimum": 0},
    "farmerCategory": {"type": "string", "enum": ["Small and Marginal", "Medium", "Large"]}
  }
}`

// Validate checks the preconditions of AnalyzeEligibility.
// The returned error is a validation.Errors keyed by JSON field name.
func (p FarmerProfile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.LandSizeAcres, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&p.Location),
		validation.Field(&p.IrrigationType, validation.Required,
			validation.In(IrrigationRainfed, IrrigationWell, IrrigationCanal, IrrigationOther)),
		validation.Field(&p.AnnualIncome, validation.Min(0.0)),
		validation.Field(&p.FarmerCategory, validation.Required,
			validation.In(FarmerSmallMarginal, FarmerMedium, FarmerLarge)),
	)
}

func (l Location) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.State, validation.Required),
	)
}
