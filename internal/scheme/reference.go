package scheme

import "strings"

// Scheme categories produced by the catalog generator.
const (
	CategoryCropSupport        = "Crop Support Subsidy"
	CategoryIrrigation         = "Irrigation Equipment Subsidy"
	CategoryOrganicFarming     = "Organic Farming Incentive"
	CategorySeedDistribution   = "Seed Distribution Scheme"
	CategoryMachinery          = "Machinery Purchase Subsidy"
	CategorySolarPump          = "Solar Pump Scheme"
	CategoryCropInsurance      = "Crop Insurance Scheme"
	CategoryExportPromotion    = "Export Promotion Support"
	CategoryStorage            = "Storage Infrastructure Aid"
	CategoryWomenFarmer        = "Women Farmer Support Scheme"
	CategorySmallHoldingBonus  = "Small Land Holding Bonus Scheme"
	CategoryRainfedSupport     = "Rainfed Farming Support"
	CategoryFertilizer         = "Fertilizer Assistance Program"
	CategoryYouthEntrepreneur  = "Youth Agri-Entrepreneur Scheme"
	CategoryHighYieldIncentive = "High Yield Crop Incentive"

	CategoryNational = "National"
	CategoryFallback = "Fallback"
)

// Template is a state scheme blueprint.
type Template struct {
	Category          string `json:"category"`
	BaseSubsidyAmount int64  `json:"baseSubsidyAmount"`
	Benefits          string `json:"benefits"`
}

// ReferenceScheme is a fixed, country-wide scheme.
type ReferenceScheme struct {
	Name                string `json:"name"`
	Benefits            string `json:"benefits"`
	EligibilityCriteria string `json:"eligibilityCriteria"`
	ApplicationLink     string `json:"applicationGuideLink,omitempty"`
}

const (
	defaultMultiplier        = 1.0
	incomeSupportMarker      = "PM-KISAN"
	incomeSupportBaseAmount  = 6000
	nationalSchemeBaseAmount = 20000
	fallbackBaseAmount       = 5000
)

var templates = []Template{
	{CategoryCropSupport, 15000, "Provides direct financial support to farmers for crop cultivation, reducing the overall cost and financial burden."},
	{CategoryIrrigation, 50000, "Offers subsidies on the purchase of modern irrigation equipment like drip systems, sprinklers, and pumps to improve water efficiency."},
	{CategoryOrganicFarming, 25000, "Promotes organic farming by providing financial incentives for using organic inputs and certification, leading to higher-value produce."},
	{CategorySeedDistribution, 10000, "Ensures availability of high-quality, certified seeds at subsidized rates to improve crop yield and resilience."},
	{CategoryMachinery, 100000, "Helps farmers purchase essential agricultural machinery like tractors and harvesters at a reduced cost, promoting mechanization."},
	{CategorySolarPump, 120000, "Provides significant subsidies for installing solar-powered water pumps, reducing dependency on electricity and diesel."},
	{CategoryCropInsurance, 20000, "Offers insurance coverage against crop failure due to natural calamities, pests, and diseases, ensuring financial stability."},
	{CategoryExportPromotion, 75000, "Provides support for farmers and FPOs to meet international quality standards and access global markets."},
	{CategoryStorage, 150000, "Financial aid for constructing warehouses and cold storage units to reduce post-harvest losses and improve price realization."},
	{CategoryWomenFarmer, 30000, "Special financial assistance and training programs exclusively for women farmers to empower them in agriculture."},
	{CategorySmallHoldingBonus, 12000, "Provides an additional bonus to small and marginal farmers to improve their income and livelihood security."},
	{CategoryRainfedSupport, 18000, "Support for farmers in rainfed areas through water conservation techniques and drought-resistant crop varieties."},
	{CategoryFertilizer, 8000, "Provides fertilizers and micro-nutrients at subsidized rates to ensure balanced soil nutrition."},
	{CategoryYouthEntrepreneur, 200000, "Encourages youth to take up agriculture as a business by providing financial support and mentorship for innovative agri-projects."},
	{CategoryHighYieldIncentive, 22000, "Incentivizes the cultivation of high-yield crop varieties to boost overall farm productivity and income."},
}

var states = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh", "Goa", "Gujarat",
	"Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka", "Kerala", "Madhya Pradesh",
	"Maharashtra", "Manipur", "Meghalaya", "Mizoram", "Nagaland", "Odisha", "Punjab",
	"Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura", "Uttar Pradesh",
	"Uttarakhand", "West Bengal",
}

var crops = []string{
	"Rice", "Wheat", "Maize", "Bajra", "Jowar", "Barley", "Sugarcane", "Cotton", "Soybean",
	"Groundnut", "Mustard", "Sunflower", "Pulses", "Tur", "Chana", "Tea", "Coffee", "Rubber",
	"Coconut", "Banana", "Mango", "Onion", "Potato", "Tomato", "Chili", "Millets",
}

// Cost of living tiers.
var multipliers = map[string]float64{
	"Maharashtra": 1.30, "Karnataka": 1.30, "Tamil Nadu": 1.30, "Telangana": 1.30, "Goa": 1.30,

	"Gujarat": 1.15, "Kerala": 1.15, "Punjab": 1.15, "Haryana": 1.15, "West Bengal": 1.15,
	"Andhra Pradesh": 1.15,

	"Rajasthan": 1.00, "Madhya Pradesh": 1.00, "Uttar Pradesh": 1.00, "Odisha": 1.00,
	"Assam": 1.00, "Chhattisgarh": 1.00, "Uttarakhand": 1.00, "Himachal Pradesh": 1.00,

	"Bihar": 0.85, "Jharkhand": 0.85, "Tripura": 0.85, "Manipur": 0.85, "Meghalaya": 0.85,
	"Mizoram": 0.85, "Nagaland": 0.85, "Arunachal Pradesh": 0.85, "Sikkim": 0.85,
}

var nationalSchemes = []ReferenceScheme{
	{
		Name:                "Pradhan Mantri Fasal Bima Yojana (PMFBY)",
		Benefits:            "Provides insurance coverage and financial support to farmers in case of crop failure due to natural calamities, pests & diseases.",
		EligibilityCriteria: "All farmers including sharecroppers and tenant farmers growing notified crops in notified areas are eligible. Compulsory for loanee farmers availing Crop Loan/KCC account for notified crops. Voluntary for non-loanee farmers.",
		ApplicationLink:     "https://pmfby.gov.in/",
	},
	{
		Name:                "Kisan Credit Card (KCC) Scheme",
		Benefits:            "Provides adequate and timely credit support from the banking system to the farmers for their cultivation needs.",
		EligibilityCriteria: "Farmers, individual/joint cultivators, tenant farmers, oral lessees & sharecroppers, SHGs/JLG of farmers are eligible. Minimum age 18 years, maximum 75 years.",
		ApplicationLink:     "https://www.nabard.org/content.aspx?id=599",
	},
	{
		Name:                "Pradhan Mantri Kisan Samman Nidhi (PM-KISAN)",
		Benefits:            "Provides income support of ₹6,000 per year to all eligible farmer families across the country.",
		EligibilityCriteria: "All landholding farmer families, subject to certain exclusion criteria related to income and profession.",
		ApplicationLink:     "https://pmkisan.gov.in/",
	},
}

var fallbackScheme = ReferenceScheme{
	Name:                "Universal Farmer Development Scheme",
	Benefits:            "A universal support scheme providing basic financial aid and access to resources for all farmers to ensure baseline agricultural development and welfare.",
	EligibilityCriteria: "All farmers residing in India are eligible to apply.",
}

// Templates returns a copy of the state scheme templates.
func Templates() []Template {
	return append([]Template(nil), templates...)
}

// SupportedStates returns the regions with a known cost of living multiplier.
func SupportedStates() []string {
	return append([]string(nil), states...)
}

// Crops returns a copy of the crop names used in eligibility text.
func Crops() []string {
	return append([]string(nil), crops...)
}

// NationalSchemes returns a copy of the always-available national schemes.
func NationalSchemes() []ReferenceScheme {
	return append([]ReferenceScheme(nil), nationalSchemes...)
}

// Fallback returns the universal scheme.
func Fallback() ReferenceScheme {
	return fallbackScheme
}

// RegionalMultiplier returns the subsidy multiplier for region, 1.0 when unknown.
func RegionalMultiplier(region string) float64 {
	if m, ok := multipliers[region]; ok {
		return m
	}
	return defaultMultiplier
}

// IsSupportedState reports whether region has its own multiplier.
func IsSupportedState(region string) bool {
	_, ok := multipliers[region]
	return ok
}

// nationalBaseAmount gives the income support scheme its real yearly payout.
func nationalBaseAmount(s ReferenceScheme) int64 {
	if strings.Contains(s.Name, incomeSupportMarker) {
		return incomeSupportBaseAmount
	}
	return nationalSchemeBaseAmount
}
