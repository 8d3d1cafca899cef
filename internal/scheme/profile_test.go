package scheme

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFarmerProfile_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *FarmerProfile)
		wantField string
	}{
		{name: "valid profile", mutate: func(p *FarmerProfile) {}},
		{name: "zero income is allowed", mutate: func(p *FarmerProfile) { p.AnnualIncome = 0 }},
		{name: "empty crop is allowed", mutate: func(p *FarmerProfile) { p.CropType = "" }},
		{name: "zero land size", mutate: func(p *FarmerProfile) { p.LandSizeAcres = 0 }, wantField: "landSize"},
		{name: "negative land size", mutate: func(p *FarmerProfile) { p.LandSizeAcres = -2 }, wantField: "landSize"},
		{name: "negative income", mutate: func(p *FarmerProfile) { p.AnnualIncome = -1 }, wantField: "annualIncome"},
		{name: "unknown irrigation", mutate: func(p *FarmerProfile) { p.IrrigationType = "Drip" }, wantField: "irrigationType"},
		{name: "unknown category", mutate: func(p *FarmerProfile) { p.FarmerCategory = "Tiny" }, wantField: "farmerCategory"},
		{name: "missing category", mutate: func(p *FarmerProfile) { p.FarmerCategory = "" }, wantField: "farmerCategory"},
		{name: "missing state", mutate: func(p *FarmerProfile) { p.Location.State = "" }, wantField: "location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := smallFarmer("Maharashtra", "Soybean")
			tt.mutate(&profile)

			err := profile.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errs, ok := err.(validation.Errors)
			require.True(t, ok, "expected validation.Errors, got %T", err)
			assert.Contains(t, errs, tt.wantField)
		})
	}
}
