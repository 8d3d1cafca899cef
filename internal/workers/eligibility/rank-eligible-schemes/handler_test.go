package rankeligibleschemes

import (
	"context"
	"testing"
	"time"

	"kisan-scheme-workers/internal/common/errors"
	"kisan-scheme-workers/internal/common/logger"
	"kisan-scheme-workers/internal/scheme"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		MaxCatalogSize: 20,
		Timeout:        3 * time.Second,
	}
}

func createTestProfile(category scheme.FarmerCategory, income float64) scheme.FarmerProfile {
	return scheme.FarmerProfile{
		LandSizeAcres:  1.5,
		Location:       scheme.Location{State: "Maharashtra", District: "Latur"},
		CropType:       "Soybean",
		IrrigationType: scheme.IrrigationRainfed,
		AnnualIncome:   income,
		FarmerCategory: category,
	}
}

func cropScheme(name, category string, amount int64, crops string) scheme.GeneratedScheme {
	return scheme.GeneratedScheme{
		Name:                name,
		Category:            category,
		BaseSubsidyAmount:   amount,
		EligibilityCriteria: "This scheme is applicable for farmers growing crops like " + crops + ", and other related crops.",
	}
}

func createTestCatalog() []scheme.GeneratedScheme {
	return []scheme.GeneratedScheme{
		cropScheme("Maharashtra Seed Distribution Scheme", scheme.CategorySeedDistribution, 19500, "Soybean, Cotton, Tur"),
		cropScheme("Maharashtra Solar Pump Scheme", scheme.CategorySolarPump, 156000, "Rice, Wheat, Maize"),
		cropScheme("Maharashtra Storage Infrastructure Aid", scheme.CategoryStorage, 195000, "Grapes, Soybean, Onion"),
		cropScheme("Maharashtra Crop Support Subsidy", scheme.CategoryCropSupport, 23400, "Jowar, Soybean, Bajra"),
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		profile        scheme.FarmerProfile
		catalog        []scheme.GeneratedScheme
		expectedNames  []string
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:    "small farmer gets boosted amounts, highest first",
			profile: createTestProfile(scheme.FarmerSmallMarginal, 80000),
			catalog: createTestCatalog(),
			expectedNames: []string{
				"Maharashtra Storage Infrastructure Aid",
				"Maharashtra Crop Support Subsidy",
				"Maharashtra Seed Distribution Scheme",
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "₹2,34,000", output.EligibleSchemes[0].AdjustedSubsidyAmount)
				assert.Equal(t, "₹28,080", output.EligibleSchemes[1].AdjustedSubsidyAmount)
				assert.Equal(t, "₹23,400", output.EligibleSchemes[2].AdjustedSubsidyAmount)
				assert.Equal(t, output.EligibleSchemes[0], output.TopScheme)
				assert.False(t, output.FallbackOnly)
			},
		},
		{
			name:          "high income keeps only infrastructure categories",
			profile:       createTestProfile(scheme.FarmerMedium, 750000),
			catalog:       createTestCatalog(),
			expectedNames: []string{"Maharashtra Storage Infrastructure Aid"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "₹1,95,000", output.TopScheme.AdjustedSubsidyAmount)
			},
		},
		{
			name:          "empty catalog falls back to the universal scheme",
			profile:       createTestProfile(scheme.FarmerLarge, 90000),
			catalog:       []scheme.GeneratedScheme{},
			expectedNames: []string{scheme.Fallback().Name},
			validateOutput: func(t *testing.T, output *Output) {
				assert.True(t, output.FallbackOnly)
				assert.Equal(t, "₹5,000", output.TopScheme.AdjustedSubsidyAmount)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(createTestConfig(), logger.NewTestLogger(t))

			output, err := h.Execute(context.Background(), &Input{FarmerProfile: tt.profile, Schemes: tt.catalog})
			require.NoError(t, err)

			names := make([]string, len(output.EligibleSchemes))
			for i, s := range output.EligibleSchemes {
				names[i] = s.SchemeName
			}
			assert.Equal(t, tt.expectedNames, names)
			assert.NotNil(t, output.NearMisses)
			assert.Empty(t, output.NearMisses)

			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	oversized := make([]scheme.GeneratedScheme, 21)
	for i := range oversized {
		oversized[i] = cropScheme("Scheme", scheme.CategoryCropSupport, 1000, "Rice")
	}

	invalidProfile := createTestProfile(scheme.FarmerMedium, 10000)
	invalidProfile.LandSizeAcres = 0

	tests := []struct {
		name         string
		profile      scheme.FarmerProfile
		catalog      []scheme.GeneratedScheme
		expectedCode errors.ErrorCode
	}{
		{
			name:         "invalid profile",
			profile:      invalidProfile,
			catalog:      createTestCatalog(),
			expectedCode: errors.ErrCodeProfileValidationFailed,
		},
		{
			name:         "unnamed scheme",
			profile:      createTestProfile(scheme.FarmerMedium, 10000),
			catalog:      []scheme.GeneratedScheme{{Name: " ", BaseSubsidyAmount: 100}},
			expectedCode: errors.ErrCodeInvalidCatalog,
		},
		{
			name:         "negative base amount",
			profile:      createTestProfile(scheme.FarmerMedium, 10000),
			catalog:      []scheme.GeneratedScheme{{Name: "Broken", BaseSubsidyAmount: -1}},
			expectedCode: errors.ErrCodeInvalidCatalog,
		},
		{
			name:         "catalog over the size limit",
			profile:      createTestProfile(scheme.FarmerMedium, 10000),
			catalog:      oversized,
			expectedCode: errors.ErrCodeInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(createTestConfig(), logger.NewTestLogger(t))

			output, err := h.Execute(context.Background(), &Input{FarmerProfile: tt.profile, Schemes: tt.catalog})
			require.Error(t, err)
			assert.Nil(t, output)

			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
		})
	}
}
