package scheme

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateBase(t *testing.T, category string) int64 {
	t.Helper()
	for _, tmpl := range templates {
		if tmpl.Category == category {
			return tmpl.BaseSubsidyAmount
		}
	}
	t.Fatalf("unknown category %q", category)
	return 0
}

func TestGenerator_GenerateSchemesForRegion_Structure(t *testing.T) {
	tests := []struct {
		region     string
		multiplier float64
	}{
		{"Maharashtra", 1.30},
		{"Kerala", 1.15},
		{"Odisha", 1.00},
		{"Sikkim", 0.85},
		{"Atlantis", 1.00},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			for seed := int64(1); seed <= 50; seed++ {
				catalog := NewGenerator(rand.New(rand.NewSource(seed))).GenerateSchemesForRegion(tt.region)

				stateCount := len(catalog) - len(nationalSchemes) - 1
				require.GreaterOrEqual(t, stateCount, 10)
				require.LessOrEqual(t, stateCount, 14)

				seen := map[string]bool{}
				for _, s := range catalog[:stateCount] {
					assert.False(t, seen[s.Category], "category %s generated twice", s.Category)
					seen[s.Category] = true

					assert.Equal(t, tt.region+" "+s.Category, s.Name)
					assert.Equal(t, int64(math.Round(float64(templateBase(t, s.Category))*tt.multiplier)), s.BaseSubsidyAmount)
					assert.GreaterOrEqual(t, s.BaseSubsidyAmount, int64(0))
					assert.Contains(t, s.EligibilityCriteria, "crops like")
					assert.Contains(t, s.EligibilityCriteria, landSizeCriteria)
					assert.True(t, strings.HasSuffix(s.EligibilityCriteria, incomeTierCriteria))
					assert.Empty(t, s.ApplicationLink)
				}

				national := catalog[stateCount : stateCount+len(nationalSchemes)]
				for i, s := range national {
					assert.Equal(t, nationalSchemes[i].Name, s.Name)
					assert.Equal(t, CategoryNational, s.Category)
					assert.NotEmpty(t, s.ApplicationLink)
				}

				fallback := catalog[len(catalog)-1]
				assert.Equal(t, CategoryFallback, fallback.Category)
				assert.Equal(t, int64(5000), fallback.BaseSubsidyAmount)
				assert.Equal(t, "Universal Farmer Development Scheme", fallback.Name)
			}
		})
	}
}

func TestGenerator_NationalSchemeAmounts(t *testing.T) {
	catalog := NewGenerator(fixedSource{}).GenerateSchemesForRegion("Bihar")

	amounts := map[string]int64{}
	for _, s := range catalog {
		if s.Category == CategoryNational {
			amounts[s.Name] = s.BaseSubsidyAmount
		}
	}

	want := map[string]int64{
		"Pradhan Mantri Fasal Bima Yojana (PMFBY)":     20000,
		"Kisan Credit Card (KCC) Scheme":               20000,
		"Pradhan Mantri Kisan Samman Nidhi (PM-KISAN)": 6000,
	}
	if diff := cmp.Diff(want, amounts); diff != "" {
		t.Errorf("national amounts mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerator_CropTextNamesFirstThreeCrops(t *testing.T) {
	catalog := NewGenerator(fixedSource{}).GenerateSchemesForRegion("Assam")

	require.Len(t, catalog, 10+len(nationalSchemes)+1)
	assert.Equal(t,
		"This scheme is applicable for farmers growing crops like Rice, Wheat, Maize, and other related crops. "+landSizeCriteria+" "+incomeTierCriteria,
		catalog[0].EligibilityCriteria)
}

func TestGenerator_SameSeedSameCatalog(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewSource(99))).GenerateSchemesForRegion("Tamil Nadu")
	b := NewGenerator(rand.New(rand.NewSource(99))).GenerateSchemesForRegion("Tamil Nadu")
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("catalog differs for the same seed (-a +b):\n%s", diff)
	}
}

func TestGenerator_DoesNotMutateReferenceTables(t *testing.T) {
	before := Templates()
	cropsBefore := Crops()

	for seed := int64(1); seed <= 10; seed++ {
		NewGenerator(rand.New(rand.NewSource(seed))).GenerateSchemesForRegion("Gujarat")
	}

	assert.Equal(t, before, templates)
	assert.Equal(t, cropsBefore, crops)
}

func TestNewSeededSource_ConcurrentUse(t *testing.T) {
	gen := NewGenerator(NewSeededSource(11))
	done := make(chan int, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- len(gen.GenerateSchemesForRegion("Haryana"))
		}()
	}
	for i := 0; i < 8; i++ {
		n := <-done
		assert.GreaterOrEqual(t, n, 14)
		assert.LessOrEqual(t, n, 18)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 15, clamp(17, 15))
	assert.Equal(t, 10, clamp(10, 15))
	assert.Equal(t, 3, clamp(9, 3))
	assert.Equal(t, 0, clamp(-1, 3))
}

func TestRegionalMultiplier(t *testing.T) {
	assert.Equal(t, 1.30, RegionalMultiplier("Goa"))
	assert.Equal(t, 1.15, RegionalMultiplier("Punjab"))
	assert.Equal(t, 1.00, RegionalMultiplier("Uttarakhand"))
	assert.Equal(t, 0.85, RegionalMultiplier("Nagaland"))
	assert.Equal(t, 1.00, RegionalMultiplier("goa"))
	assert.False(t, IsSupportedState("Atlantis"))

	for _, s := range SupportedStates() {
		assert.True(t, IsSupportedState(s), s)
	}
	assert.Len(t, SupportedStates(), 28)
	assert.Len(t, Templates(), 15)
	assert.Len(t, Crops(), 26)
}
