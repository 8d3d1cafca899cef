// Package scheme is the offline scheme eligibility engine. It synthesizes a
// state scheme catalog, filters and ranks it against a farmer profile and
// checks document readiness. It performs no I/O.
package scheme

// Engine combines catalog generation with filtering and ranking.
type Engine struct {
	generator *Generator
}

func NewEngine(rnd RandomSource) *Engine {
	return &Engine{generator: NewGenerator(rnd)}
}

// GenerateSchemesForRegion exposes the engine's catalog generator.
func (e *Engine) GenerateSchemesForRegion(region string) []GeneratedScheme {
	return e.generator.GenerateSchemesForRegion(region)
}

// AnalyzeEligibility generates a catalog for the profile's state and ranks it.
// It never fails; an empty match set yields the universal scheme.
func (e *Engine) AnalyzeEligibility(profile FarmerProfile) AnalysisResult {
	return FilterAndRank(profile, e.generator.GenerateSchemesForRegion(profile.Location.State))
}

var defaultEngine = NewEngine(DefaultSource())

// GenerateSchemesForRegion uses the process-wide random source.
func GenerateSchemesForRegion(region string) []GeneratedScheme {
	return defaultEngine.GenerateSchemesForRegion(region)
}

// AnalyzeEligibility uses the process-wide random source.
func AnalyzeEligibility(profile FarmerProfile) AnalysisResult {
	return defaultEngine.AnalyzeEligibility(profile)
}
