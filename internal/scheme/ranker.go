package scheme

import (
	"fmt"
	"sort"
	"strings"
)

const (
	highIncomeThreshold   = 500000
	smallFarmerFactor     = 1.20
	largeFarmerFactor     = 0.85
	maxEligibleSchemes    = 7
	fallbackAmountLabel   = "₹5,000"
	fallbackExplanation   = "Because no specific schemes matched your profile, this universal scheme is available as a general support option."
	defaultSchemeCategory = "General"
)

// highIncomeCategories stay open to farmers above the income threshold.
var highIncomeCategories = map[string]struct{}{
	CategoryExportPromotion: {},
	CategoryMachinery:       {},
	CategoryStorage:         {},
}

// IsHighIncomeCategory reports whether category survives the income rule.
func IsHighIncomeCategory(category string) bool {
	_, ok := highIncomeCategories[category]
	return ok
}

// FilterAndRank keeps the schemes profile qualifies for, adjusts them for
// land holding size and returns at most seven, highest subsidy first.
// The result always holds at least one scheme.
func FilterAndRank(profile FarmerProfile, catalog []GeneratedScheme) AnalysisResult {
	type ranked struct {
		scheme EligibleScheme
		amount int64
	}

	candidates := make([]ranked, 0, len(catalog))
	for _, s := range catalog {
		if !isEligible(profile, s) {
			continue
		}
		amount, explanation := adjustForCategory(profile, s.BaseSubsidyAmount)
		category := s.Category
		if category == "" {
			category = defaultSchemeCategory
		}
		candidates = append(candidates, ranked{
			scheme: EligibleScheme{
				SchemeName:            s.Name,
				AdjustedSubsidyAmount: FormatRupees(amount),
				Category:              category,
				Benefits:              s.Benefits,
				EligibilityCriteria:   s.EligibilityCriteria,
				ApplicationLink:       s.ApplicationLink,
				Explanation:           explanation,
			},
			amount: amount,
		})
	}

	// Sort on the displayed value so ordering always agrees with what is shown.
	for i := range candidates {
		if parsed, err := ParseRupees(candidates[i].scheme.AdjustedSubsidyAmount); err == nil {
			candidates[i].amount = parsed
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].amount > candidates[j].amount
	})
	if len(candidates) > maxEligibleSchemes {
		candidates = candidates[:maxEligibleSchemes]
	}

	eligible := make([]EligibleScheme, 0, len(candidates))
	for _, c := range candidates {
		eligible = append(eligible, c.scheme)
	}
	if len(eligible) == 0 {
		eligible = append(eligible, fallbackResult())
	}

	return AnalysisResult{
		EligibleSchemes: eligible,
		NearMisses:      []NearMiss{},
	}
}

func isEligible(profile FarmerProfile, s GeneratedScheme) bool {
	if profile.AnnualIncome > highIncomeThreshold && !IsHighIncomeCategory(s.Category) {
		return false
	}

	crop := strings.ToLower(profile.CropType)
	criteria := strings.ToLower(s.EligibilityCriteria)
	if crop != "" && strings.Contains(criteria, cropScopePhrase) && !strings.Contains(criteria, crop) {
		return false
	}
	return true
}

func adjustForCategory(profile FarmerProfile, base int64) (int64, string) {
	state := profile.Location.State
	switch profile.FarmerCategory {
	case FarmerSmallMarginal:
		return roundAmount(float64(base) * smallFarmerFactor),
			fmt.Sprintf("As a small farmer in %s, you get a higher benefit for this scheme.", state)
	case FarmerLarge:
		return roundAmount(float64(base) * largeFarmerFactor),
			fmt.Sprintf("The subsidy for this scheme in %s is reduced for your larger land holding.", state)
	default:
		return base,
			fmt.Sprintf("This scheme is a potential match based on your profile in %s. No land holding adjustment was applied.", state)
	}
}

func fallbackResult() EligibleScheme {
	return EligibleScheme{
		SchemeName:            fallbackScheme.Name,
		AdjustedSubsidyAmount: fallbackAmountLabel,
		Category:              CategoryFallback,
		Benefits:              fallbackScheme.Benefits,
		EligibilityCriteria:   fallbackScheme.EligibilityCriteria,
		Explanation:           fallbackExplanation,
	}
}
