package scheme

type IrrigationType string

const (
	IrrigationRainfed IrrigationType = "Rainfed"
	IrrigationWell    IrrigationType = "Well"
	IrrigationCanal   IrrigationType = "Canal"
	IrrigationOther   IrrigationType = "Other"
)

// FarmerCategory is the land holding class that drives subsidy adjustment.
type FarmerCategory string

const (
	FarmerSmallMarginal FarmerCategory = "Small and Marginal"
	FarmerMedium        FarmerCategory = "Medium"
	FarmerLarge         FarmerCategory = "Large"
)

type Location struct {
	State    string `json:"state"`
	District string `json:"district"`
}

type FarmerProfile struct {
	LandSizeAcres  float64        `json:"landSize"`
	Location       Location       `json:"location"`
	CropType       string         `json:"cropType"`
	IrrigationType IrrigationType `json:"irrigationType"`
	AnnualIncome   float64        `json:"annualIncome"`
	FarmerCategory FarmerCategory `json:"farmerCategory"`
}

// GeneratedScheme is one candidate in a freshly generated catalog.
type GeneratedScheme struct {
	Name                string `json:"name"`
	Benefits            string `json:"benefits"`
	EligibilityCriteria string `json:"eligibilityCriteria"`
	Category            string `json:"scheme_category"`
	BaseSubsidyAmount   int64  `json:"base_subsidy_amount"`
	ApplicationLink     string `json:"applicationGuideLink,omitempty"`
}

type EligibleScheme struct {
	SchemeName            string `json:"scheme_name"`
	AdjustedSubsidyAmount string `json:"adjusted_subsidy_amount"`
	Category              string `json:"scheme_category"`
	Benefits              string `json:"benefits"`
	EligibilityCriteria   string `json:"eligibilityCriteria"`
	ApplicationLink       string `json:"applicationGuideLink,omitempty"`
	Explanation           string `json:"explanation"`
}

// NearMiss is never produced offline but keeps the result shape of the online analysis.
type NearMiss struct {
	Name                       string   `json:"name"`
	ReasonNotEligible          string   `json:"reason_not_eligible"`
	ImprovementSuggestions     []string `json:"improvement_suggestions"`
	AlternateSchemeSuggestions []string `json:"alternate_scheme_suggestions"`
}

type AnalysisResult struct {
	EligibleSchemes []EligibleScheme `json:"eligible_schemes"`
	NearMisses      []NearMiss       `json:"nearMisses"`
}

// Top returns the highest ranked scheme. Results built by FilterAndRank always have one.
func (r AnalysisResult) Top() (EligibleScheme, bool) {
	if len(r.EligibleSchemes) == 0 {
		return EligibleScheme{}, false
	}
	return r.EligibleSchemes[0], true
}

// IsFallbackOnly reports whether nothing but the universal scheme matched.
func (r AnalysisResult) IsFallbackOnly() bool {
	return len(r.EligibleSchemes) == 1 && r.EligibleSchemes[0].Category == CategoryFallback
}

type DocumentReadiness struct {
	MissingDocuments     []string `json:"missing_documents"`
	OptionalAlternatives []string `json:"optional_alternatives"`
	ReadinessStatus      string   `json:"readiness_status"`
}
