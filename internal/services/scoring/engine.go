// Package scoring turns questionnaire responses into category scores,
// an overall fundability score and a letter grade.
package scoring

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"business-fundability-engine/internal/models"
)

// ScoringEngine computes fundability scores. It holds only read-only
// reference data and is safe for concurrent use.
type ScoringEngine struct {
	criteria   []models.Criterion
	byCategory map[models.Category][]models.Criterion
	weights    map[models.Category]float64
	logger     *zap.Logger
}

// Option configures a ScoringEngine.
type Option func(*ScoringEngine)

// WithLogger sets the logger used for data-quality warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(e *ScoringEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCategoryWeights replaces the category weight table.
func WithCategoryWeights(weights map[models.Category]float64) Option {
	return func(e *ScoringEngine) {
		e.weights = weights
	}
}

// NewScoringEngine creates an engine over a criteria catalog.
// Unknown categories and missing weights are configuration errors.
func NewScoringEngine(criteria []models.Criterion, opts ...Option) (*ScoringEngine, error) {
	e := &ScoringEngine{
		weights: DefaultCategoryWeights(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}
	for _, c := range models.AllCategories() {
		if w, ok := e.weights[c]; !ok || w <= 0 {
			return nil, fmt.Errorf("%s: %w", c, models.ErrMissingCategoryWeight)
		}
	}

	e.criteria = make([]models.Criterion, len(criteria))
	copy(e.criteria, criteria)
	e.byCategory = make(map[models.Category][]models.Criterion)
	for _, c := range e.criteria {
		e.byCategory[c.Category] = append(e.byCategory[c.Category], c)
	}
	return e, nil
}

// NewDefaultEngine creates an engine over the built-in criteria catalog.
func NewDefaultEngine(opts ...Option) (*ScoringEngine, error) {
	criteria, err := DefaultCriteria()
	if err != nil {
		return nil, err
	}
	return NewScoringEngine(criteria, opts...)
}

// MustNewDefaultEngine is like NewDefaultEngine but panics on error.
// Intended for process start-up.
func MustNewDefaultEngine(opts ...Option) *ScoringEngine {
	e, err := NewDefaultEngine(opts...)
	if err != nil {
		panic(fmt.Sprintf("scoring: %v", err))
	}
	return e
}

// Criteria returns a copy of the engine's criteria catalog.
func (e *ScoringEngine) Criteria() []models.Criterion {
	out := make([]models.Criterion, len(e.criteria))
	copy(out, e.criteria)
	return out
}

// ApplicableCriteria returns the catalog entries relevant to the business.
func (e *ScoringEngine) ApplicableCriteria(ctx models.BusinessContext) []models.Criterion {
	out := make([]models.Criterion, 0, len(e.criteria))
	for i := range e.criteria {
		if e.criteria[i].AppliesTo(ctx) {
			out = append(out, e.criteria[i])
		}
	}
	return out
}

// CalculateScore scores a response set. Every category gets a row, even
// without responses. Adjustments compose in a fixed order: raw score,
// business characteristics, industry, then category weight with any
// business-type boost.
func (e *ScoringEngine) CalculateScore(responses []models.AssessmentResponse, ctx models.BusinessContext) (*models.ScoringResult, error) {
	grouped := make(map[models.Category][]models.AssessmentResponse)
	for _, r := range responses {
		if !r.Category.IsValid() {
			return nil, fmt.Errorf("response %q has category %q: %w", r.CriterionID, r.Category, models.ErrUnknownCategory)
		}
		grouped[r.Category] = append(grouped[r.Category], r)
	}

	characteristic, adjustments := characteristicMultiplier(ctx)
	industry := models.NormalizeIndustry(ctx.Industry)
	businessType := models.NormalizeBusinessType(ctx.BusinessType)

	result := &models.ScoringResult{
		CategoryScores: make([]models.CategoryScore, 0, len(models.AllCategories())),
		Adjustments:    adjustments,
	}

	var total, potential float64
	for _, category := range models.AllCategories() {
		cs := e.scoreCategory(category, grouped[category], ctx)

		industryMult := IndustryMultiplier(industry, category)
		if industryMult != 1.0 {
			result.Adjustments = append(result.Adjustments, models.Adjustment{
				Name: "industry:" + industry, Category: category, Multiplier: industryMult,
			})
		}
		boost := BusinessTypeBoost(businessType, category)
		if boost != 1.0 {
			result.Adjustments = append(result.Adjustments, models.Adjustment{
				Name: "business_type:" + businessType, Category: category, Multiplier: boost,
			})
		}

		cs.Weight = e.weights[category] * boost
		factor := characteristic * industryMult * cs.Weight
		cs.WeightedScore = cs.Score * factor
		cs.AdjustedMaxScore = cs.MaxScore * factor

		total += cs.WeightedScore
		if gap := cs.AdjustedMaxScore - cs.WeightedScore; gap > 0 {
			potential += gap
		}
		result.CompletedCriteria += cs.CompletedCriteria
		result.TotalCriteria += cs.TotalCriteria
		result.CategoryScores = append(result.CategoryScores, cs)
	}

	result.OverallScore = int(math.Round(total))
	result.Percentage = float64(result.OverallScore) / models.MaxOverallScore * 100
	result.Grade = GradeFor(result.OverallScore)
	result.ImprovementPotential = int(math.Round(potential))
	return result, nil
}

// scoreCategory sums raw points for one category before any multipliers.
func (e *ScoringEngine) scoreCategory(category models.Category, responses []models.AssessmentResponse, ctx models.BusinessContext) models.CategoryScore {
	cs := models.CategoryScore{Category: category}

	known := make(map[string]struct{})
	completed := make(map[string]struct{})
	for i := range e.byCategory[category] {
		c := &e.byCategory[category][i]
		if c.AppliesTo(ctx) {
			known[c.ID] = struct{}{}
		}
	}

	unnamed := 0
	for i := range responses {
		r := &responses[i]
		weight := r.EffectiveWeight()
		cs.MaxScore += r.PointsPossible * weight

		if r.CriterionID == "" {
			unnamed++
		} else {
			known[r.CriterionID] = struct{}{}
		}

		if !r.IsAnswered() {
			if r.PointsEarned != 0 {
				e.logger.Warn("Ignoring points earned without a recorded answer",
					zap.String("category", string(category)),
					zap.String("criterion_id", r.CriterionID),
					zap.Float64("points_earned", r.PointsEarned),
				)
			}
			continue
		}

		cs.Score += r.PointsEarned * weight
		cs.CompletedCriteria++
		if r.CriterionID != "" {
			if _, dup := completed[r.CriterionID]; !dup {
				completed[r.CriterionID] = struct{}{}
				cs.CompletedCriterionIDs = append(cs.CompletedCriterionIDs, r.CriterionID)
			}
		}
	}
	cs.TotalCriteria = len(known) + unnamed

	if cs.MaxScore > 0 {
		cs.Percentage = cs.Score / cs.MaxScore * 100
	}

	for i := range e.byCategory[category] {
		if len(cs.Recommendations) == maxCategoryHints {
			break
		}
		c := &e.byCategory[category][i]
		if _, done := completed[c.ID]; done || !c.AppliesTo(ctx) {
			continue
		}
		cs.Recommendations = append(cs.Recommendations, "Complete: "+c.Name)
	}
	return cs
}

// characteristicMultiplier combines the time-in-business and revenue
// adjustments that apply to every category.
func characteristicMultiplier(ctx models.BusinessContext) (float64, []models.Adjustment) {
	multiplier := 1.0
	var adjustments []models.Adjustment

	switch {
	case ctx.TimeInBusinessMonths >= establishedMonths:
		multiplier *= establishedBonus
		adjustments = append(adjustments, models.Adjustment{Name: "established_business", Multiplier: establishedBonus})
	case ctx.TimeInBusinessMonths < newBusinessMonths:
		multiplier *= newBusinessPenalty
		adjustments = append(adjustments, models.Adjustment{Name: "new_business", Multiplier: newBusinessPenalty})
	}

	switch {
	case ctx.AnnualRevenue >= highRevenueThreshold:
		multiplier *= highRevenueBonus
		adjustments = append(adjustments, models.Adjustment{Name: "high_revenue", Multiplier: highRevenueBonus})
	case ctx.AnnualRevenue < lowRevenueThreshold:
		multiplier *= lowRevenuePenalty
		adjustments = append(adjustments, models.Adjustment{Name: "low_revenue", Multiplier: lowRevenuePenalty})
	}

	return multiplier, adjustments
}
