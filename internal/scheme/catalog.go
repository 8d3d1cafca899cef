package scheme

import (
	"fmt"
	"math"
	"strings"
)

const (
	minStateSchemes    = 10
	stateSchemeSpread  = 5 // N in [10, 14]
	minCropsPerScheme  = 5
	cropSpread         = 5 // [5, 9]
	namedCropsInText   = 3
	cropScopePhrase    = "crops like"
	landSizeCriteria   = "Eligibility depends on land holding size (Small: 0-2 acres, Medium: 2-5 acres, Large: >5 acres)."
	incomeTierCriteria = "Income level is a key factor (e.g., priority for annual income < ₹1,00,000, reduced benefits for > ₹5,00,000)."
)

// Generator synthesizes a region's candidate catalog.
type Generator struct {
	rnd RandomSource
}

func NewGenerator(rnd RandomSource) *Generator {
	if rnd == nil {
		rnd = DefaultSource()
	}
	return &Generator{rnd: rnd}
}

// GenerateSchemesForRegion returns 10 to 14 state schemes followed by the
// national schemes and the fallback scheme.
func (g *Generator) GenerateSchemesForRegion(region string) []GeneratedScheme {
	multiplier := RegionalMultiplier(region)

	pool := Templates()
	g.rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	n := clamp(minStateSchemes+g.rnd.Intn(stateSchemeSpread), len(pool))

	out := make([]GeneratedScheme, 0, n+len(nationalSchemes)+1)
	for _, tmpl := range pool[:n] {
		out = append(out, GeneratedScheme{
			Name:                fmt.Sprintf("%s %s", region, tmpl.Category),
			Benefits:            tmpl.Benefits,
			EligibilityCriteria: g.eligibilityText(),
			Category:            tmpl.Category,
			BaseSubsidyAmount:   regionalAmount(tmpl.BaseSubsidyAmount, multiplier),
		})
	}

	for _, ns := range nationalSchemes {
		out = append(out, GeneratedScheme{
			Name:                ns.Name,
			Benefits:            ns.Benefits,
			EligibilityCriteria: ns.EligibilityCriteria,
			Category:            CategoryNational,
			BaseSubsidyAmount:   nationalBaseAmount(ns),
			ApplicationLink:     ns.ApplicationLink,
		})
	}

	return append(out, GeneratedScheme{
		Name:                fallbackScheme.Name,
		Benefits:            fallbackScheme.Benefits,
		EligibilityCriteria: fallbackScheme.EligibilityCriteria,
		Category:            CategoryFallback,
		BaseSubsidyAmount:   fallbackBaseAmount,
	})
}

func (g *Generator) eligibilityText() string {
	pool := Crops()
	g.rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	selected := pool[:clamp(minCropsPerScheme+g.rnd.Intn(cropSpread), len(pool))]
	named := selected[:clamp(namedCropsInText, len(selected))]

	cropCriteria := fmt.Sprintf("This scheme is applicable for farmers growing %s %s, and other related crops.",
		cropScopePhrase, strings.Join(named, ", "))
	return strings.Join([]string{cropCriteria, landSizeCriteria, incomeTierCriteria}, " ")
}

func regionalAmount(base int64, multiplier float64) int64 {
	amount := int64(math.Round(float64(base) * multiplier))
	if amount < 0 {
		return 0
	}
	return amount
}

func clamp(n, limit int) int {
	if n > limit {
		return limit
	}
	if n < 0 {
		return 0
	}
	return n
}
