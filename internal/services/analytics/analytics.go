// Package analytics compares assessments against industry peers and
// summarizes a business's score history.
package analytics

import (
	"math"
	"sort"

	"business-fundability-engine/internal/models"
)

const (
	defaultIndustry = "default"
	// scoreSpread approximates the standard deviation of overall scores.
	scoreSpread = 120.0
)

type industryProfile struct {
	overall    int
	categories map[models.Category]float64
}

// industryAverages are the average overall scores and category percentages
// observed per industry.
var industryAverages = map[string]industryProfile{
	defaultIndustry: {
		overall: 560,
		categories: map[models.Category]float64{
			models.CategoryBusinessFoundation:    68,
			models.CategoryLegalStructure:        70,
			models.CategoryBankingFinance:        62,
			models.CategoryBusinessCredit:        45,
			models.CategoryMarketingPresence:     55,
			models.CategoryOperationalExcellence: 58,
			models.CategoryDocumentation:         60,
			models.CategoryFinancialHealth:       52,
		},
	},
	models.IndustryTechnology: {
		overall: 600,
		categories: map[models.Category]float64{
			models.CategoryBusinessFoundation:    72,
			models.CategoryLegalStructure:        74,
			models.CategoryBankingFinance:        60,
			models.CategoryBusinessCredit:        44,
			models.CategoryMarketingPresence:     70,
			models.CategoryOperationalExcellence: 64,
			models.CategoryDocumentation:         58,
			models.CategoryFinancialHealth:       55,
		},
	},
	models.IndustryRetail: {
		overall: 550,
		categories: map[models.Category]float64{
			models.CategoryBusinessFoundation:    66,
			models.CategoryLegalStructure:        68,
			models.CategoryBankingFinance:        67,
			models.CategoryBusinessCredit:        48,
			models.CategoryMarketingPresence:     62,
			models.CategoryOperationalExcellence: 56,
			models.CategoryDocumentation:         55,
			models.CategoryFinancialHealth:       48,
		},
	},
	models.IndustryRestaurant: {
		overall: 510,
		categories: map[models.Category]float64{
			models.CategoryBusinessFoundation:    64,
			models.CategoryLegalStructure:        66,
			models.CategoryBankingFinance:        63,
			models.CategoryBusinessCredit:        40,
			models.CategoryMarketingPresence:     60,
			models.CategoryOperationalExcellence: 57,
			models.CategoryDocumentation:         50,
			models.CategoryFinancialHealth:       42,
		},
	},
	models.IndustryConstruction: {
		overall: 570,
		categories: map[models.Category]float64{
			models.CategoryBusinessFoundation:    67,
			models.CategoryLegalStructure:        75,
			models.CategoryBankingFinance:        61,
			models.CategoryBusinessCredit:        50,
			models.CategoryMarketingPresence:     45,
			models.CategoryOperationalExcellence: 60,
			models.CategoryDocumentation:         64,
			models.CategoryFinancialHealth:       54,
		},
	},
	models.IndustryHealthcare: {
		overall: 640,
		categories: map[models.Category]float64{
			models.CategoryBusinessFoundation:    74,
			models.CategoryLegalStructure:        80,
			models.CategoryBankingFinance:        66,
			models.CategoryBusinessCredit:        52,
			models.CategoryMarketingPresence:     56,
			models.CategoryOperationalExcellence: 66,
			models.CategoryDocumentation:         70,
			models.CategoryFinancialHealth:       62,
		},
	},
	models.IndustryProfessionalServices: {
		overall: 590,
		categories: map[models.Category]float64{
			models.CategoryBusinessFoundation:    72,
			models.CategoryLegalStructure:        72,
			models.CategoryBankingFinance:        62,
			models.CategoryBusinessCredit:        46,
			models.CategoryMarketingPresence:     64,
			models.CategoryOperationalExcellence: 60,
			models.CategoryDocumentation:         62,
			models.CategoryFinancialHealth:       56,
		},
	},
	models.IndustryManufacturing: {
		overall: 620,
		categories: map[models.Category]float64{
			models.CategoryBusinessFoundation:    70,
			models.CategoryLegalStructure:        72,
			models.CategoryBankingFinance:        66,
			models.CategoryBusinessCredit:        55,
			models.CategoryMarketingPresence:     46,
			models.CategoryOperationalExcellence: 68,
			models.CategoryDocumentation:         64,
			models.CategoryFinancialHealth:       60,
		},
	},
	models.IndustryTransportation: {
		overall: 540,
		categories: map[models.Category]float64{
			models.CategoryBusinessFoundation:    65,
			models.CategoryLegalStructure:        72,
			models.CategoryBankingFinance:        60,
			models.CategoryBusinessCredit:        47,
			models.CategoryMarketingPresence:     42,
			models.CategoryOperationalExcellence: 58,
			models.CategoryDocumentation:         60,
			models.CategoryFinancialHealth:       50,
		},
	},
}

// Benchmark compares a scoring result with the averages for its industry.
// Unknown industries are compared with the cross-industry average.
func Benchmark(result *models.ScoringResult, industry string) models.BenchmarkComparison {
	key := models.NormalizeIndustry(industry)
	avg, ok := industryAverages[key]
	if !ok {
		key = defaultIndustry
		avg = industryAverages[defaultIndustry]
	}

	cmp := models.BenchmarkComparison{
		Industry:             key,
		OverallScore:         result.OverallScore,
		IndustryAverageScore: avg.overall,
		Percentile:           percentile(result.OverallScore, avg.overall),
		Categories:           make([]models.CategoryBenchmark, 0, len(result.CategoryScores)),
	}

	best, worst := math.Inf(-1), math.Inf(1)
	for _, cs := range result.CategoryScores {
		average := avg.categories[cs.Category]
		diff := round1(cs.Percentage - average)
		cmp.Categories = append(cmp.Categories, models.CategoryBenchmark{
			Category:        cs.Category,
			Percentage:      round1(cs.Percentage),
			IndustryAverage: average,
			Difference:      diff,
			AboveAverage:    cs.Percentage >= average,
		})
		if diff > best {
			best = diff
			cmp.Strongest = cs.Category
		}
		if diff < worst {
			worst = diff
			cmp.Weakest = cs.Category
		}
	}
	return cmp
}

// percentile estimates the share of peers scoring below the given score,
// assuming scores are normally distributed around the industry average.
func percentile(score, average int) int {
	z := float64(score-average) / scoreSpread
	p := int(math.Round(50 * (1 + math.Erf(z/math.Sqrt2))))
	if p < 1 {
		return 1
	}
	if p > 99 {
		return 99
	}
	return p
}

// Trend summarizes score movement across stored assessments.
func Trend(history []models.AssessmentRecord) models.ScoreTrend {
	trend := models.ScoreTrend{Direction: models.TrendFlat}
	if len(history) == 0 {
		return trend
	}

	sorted := make([]models.AssessmentRecord, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	latest := sorted[len(sorted)-1]
	trend.Assessments = len(sorted)
	trend.LatestScore = latest.OverallScore
	trend.PreviousScore = latest.OverallScore
	trend.FirstAssessed = sorted[0].CreatedAt
	if len(sorted) > 1 {
		trend.PreviousScore = sorted[len(sorted)-2].OverallScore
	}
	trend.Delta = trend.LatestScore - trend.PreviousScore

	switch {
	case trend.Delta > 0:
		trend.Direction = models.TrendUp
	case trend.Delta < 0:
		trend.Direction = models.TrendDown
	}

	for _, r := range sorted {
		if r.OverallScore > trend.BestScore {
			trend.BestScore = r.OverallScore
		}
	}
	return trend
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
