package scoring

import (
	"business-fundability-engine/internal/models"
)

// Business-characteristic thresholds. Time in business is in months.
const (
	establishedMonths    = 60
	newBusinessMonths    = 24
	highRevenueThreshold = 1_000_000
	lowRevenueThreshold  = 100_000

	establishedBonus   = 1.1
	newBusinessPenalty = 0.9
	highRevenueBonus   = 1.15
	lowRevenuePenalty  = 0.95
)

// defaultCategoryWeights scales each category's points onto the 1000 point scale.
var defaultCategoryWeights = map[models.Category]float64{
	models.CategoryBusinessFoundation:    1.0,
	models.CategoryLegalStructure:        1.0,
	models.CategoryBankingFinance:        1.1,
	models.CategoryBusinessCredit:        1.5,
	models.CategoryMarketingPresence:     0.75,
	models.CategoryOperationalExcellence: 0.9,
	models.CategoryDocumentation:         1.0,
	models.CategoryFinancialHealth:       1.2,
}

// industryAdjustments holds per-category multipliers by canonical industry.
// Industries that are not listed are scored without adjustment.
var industryAdjustments = map[string]map[models.Category]float64{
	models.IndustryTechnology: {
		models.CategoryMarketingPresence:     1.15,
		models.CategoryBusinessCredit:        0.95,
		models.CategoryOperationalExcellence: 1.05,
	},
	models.IndustryRetail: {
		models.CategoryBankingFinance:    1.1,
		models.CategoryMarketingPresence: 1.1,
		models.CategoryFinancialHealth:   0.95,
	},
	models.IndustryRestaurant: {
		models.CategoryBankingFinance:        1.1,
		models.CategoryFinancialHealth:       0.9,
		models.CategoryOperationalExcellence: 1.05,
	},
	models.IndustryConstruction: {
		models.CategoryLegalStructure:    1.1,
		models.CategoryDocumentation:     1.1,
		models.CategoryMarketingPresence: 0.9,
	},
	models.IndustryHealthcare: {
		models.CategoryLegalStructure: 1.15,
		models.CategoryDocumentation:  1.1,
	},
	models.IndustryProfessionalServices: {
		models.CategoryMarketingPresence: 1.05,
		models.CategoryDocumentation:     1.05,
	},
	models.IndustryManufacturing: {
		models.CategoryFinancialHealth:       1.1,
		models.CategoryOperationalExcellence: 1.1,
		models.CategoryMarketingPresence:     0.9,
	},
	models.IndustryTransportation: {
		models.CategoryLegalStructure:  1.1,
		models.CategoryBusinessCredit:  1.05,
		models.CategoryFinancialHealth: 0.95,
	},
}

// businessTypeBoosts up-weights the categories lenders look at first for each stage.
var businessTypeBoosts = map[string]map[models.Category]float64{
	models.BusinessTypeStartup: {
		models.CategoryBusinessFoundation: 1.3,
	},
	models.BusinessTypeGrowing: {
		models.CategoryBusinessCredit: 1.1,
	},
	models.BusinessTypeEstablished: {
		models.CategoryFinancialHealth: 1.2,
	},
}

type gradeThreshold struct {
	min   int
	grade models.Grade
}

// gradeThresholds is ordered from the highest lower bound down.
var gradeThresholds = []gradeThreshold{
	{900, models.GradeAPlus},
	{800, models.GradeA},
	{750, models.GradeBPlus},
	{700, models.GradeB},
	{650, models.GradeCPlus},
	{600, models.GradeC},
	{500, models.GradeD},
}

// maxCategoryHints caps the "Complete: ..." hints attached to a category score.
const maxCategoryHints = 3

// DefaultCategoryWeights returns a copy of the built-in category weight table.
func DefaultCategoryWeights() map[models.Category]float64 {
	out := make(map[models.Category]float64, len(defaultCategoryWeights))
	for k, v := range defaultCategoryWeights {
		out[k] = v
	}
	return out
}

// IndustryMultiplier returns the adjustment for a category in an industry, 1.0 if none.
func IndustryMultiplier(industry string, category models.Category) float64 {
	if adj, ok := industryAdjustments[models.NormalizeIndustry(industry)]; ok {
		if m, ok := adj[category]; ok {
			return m
		}
	}
	return 1.0
}

// BusinessTypeBoost returns the dynamic weight boost for a category, 1.0 if none.
func BusinessTypeBoost(businessType string, category models.Category) float64 {
	if boosts, ok := businessTypeBoosts[models.NormalizeBusinessType(businessType)]; ok {
		if m, ok := boosts[category]; ok {
			return m
		}
	}
	return 1.0
}

// GradeFor maps an overall score to its letter grade.
func GradeFor(score int) models.Grade {
	for _, t := range gradeThresholds {
		if score >= t.min {
			return t.grade
		}
	}
	return models.GradeF
}
