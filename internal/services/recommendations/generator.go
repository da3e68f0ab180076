// Package recommendations turns category scores into a ranked list of
// improvement actions.
package recommendations

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"business-fundability-engine/internal/models"
)

// idNamespace scopes recommendation IDs so identical input yields identical IDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:fundability:recommendation"))

// Generator builds recommendations. It holds no per-call state.
type Generator struct {
	logger            *zap.Logger
	maxCriterionItems int
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the generator's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMaxCriterionItems caps the per-criterion recommendations.
func WithMaxCriterionItems(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxCriterionItems = n
		}
	}
}

// NewGenerator creates a recommendation generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		logger:            zap.NewNop(),
		maxCriterionItems: defaultMaxCriterionItems,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns recommendations ordered by priority then estimated impact.
// Categories under 70% get one item each; required criteria that were never
// completed get a critical item each, up to the configured cap.
func (g *Generator) Generate(scores []models.CategoryScore, ctx models.BusinessContext, criteria []models.Criterion) ([]models.Recommendation, error) {
	weights := make(map[models.Category]float64, len(scores))
	completed := make(map[string]struct{})
	for _, cs := range scores {
		if !cs.Category.IsValid() {
			return nil, fmt.Errorf("category score %q: %w", cs.Category, models.ErrUnknownCategory)
		}
		weights[cs.Category] = cs.Weight
		for _, id := range cs.CompletedCriterionIDs {
			completed[id] = struct{}{}
		}
	}

	applicable := make([]models.Criterion, 0, len(criteria))
	for i := range criteria {
		if criteria[i].AppliesTo(ctx) {
			applicable = append(applicable, criteria[i])
		}
	}

	recs := make([]models.Recommendation, 0)
	for _, cs := range scores {
		if rec, ok := categoryRecommendation(cs, applicable); ok {
			recs = append(recs, rec)
		}
	}
	recs = append(recs, g.criterionRecommendations(applicable, completed, weights)...)

	sort.SliceStable(recs, func(i, j int) bool {
		pi, pj := recs[i].Priority.Rank(), recs[j].Priority.Rank()
		if pi != pj {
			return pi > pj
		}
		return recs[i].EstimatedImpact > recs[j].EstimatedImpact
	})

	g.logger.Debug("Generated recommendations",
		zap.Int("total", len(recs)),
		zap.Int("categories", len(scores)),
	)
	return recs, nil
}

func categoryRecommendation(cs models.CategoryScore, applicable []models.Criterion) (models.Recommendation, bool) {
	if cs.TotalCriteria == 0 && cs.MaxScore == 0 {
		return models.Recommendation{}, false
	}
	if cs.Percentage >= passThreshold {
		return models.Recommendation{}, false
	}

	// An untouched category has no recorded max; use the catalog points instead.
	gap := cs.Gap()
	if cs.MaxScore == 0 {
		for i := range applicable {
			if applicable[i].Category == cs.Category {
				gap += applicable[i].Points
			}
		}
	}

	gd := categoryGuidance[cs.Category]
	return models.Recommendation{
		ID:       recommendationID("category:" + cs.Category.Slug()),
		Priority: priorityFor(cs.Percentage),
		Category: cs.Category,
		Title:    gd.title,
		Description: fmt.Sprintf("%s is at %.0f%% with %d of %d criteria complete.",
			cs.Category, cs.Percentage, cs.CompletedCriteria, cs.TotalCriteria),
		ActionItems:     append([]string(nil), gd.actionItems...),
		EstimatedImpact: int(math.Round(gap * weightOr1(cs.Weight))),
		TimeToComplete:  gd.timeToComplete,
		Difficulty:      gd.difficulty,
		CostTier:        gd.costTier,
	}, true
}

func (g *Generator) criterionRecommendations(applicable []models.Criterion, completed map[string]struct{}, weights map[models.Category]float64) []models.Recommendation {
	missing := make([]models.Criterion, 0)
	for _, c := range applicable {
		if !c.Required {
			continue
		}
		if _, done := completed[c.ID]; done {
			continue
		}
		missing = append(missing, c)
	}

	sort.SliceStable(missing, func(i, j int) bool {
		return missing[i].Points > missing[j].Points
	})
	if len(missing) > g.maxCriterionItems {
		missing = missing[:g.maxCriterionItems]
	}

	recs := make([]models.Recommendation, 0, len(missing))
	for _, c := range missing {
		gd := categoryGuidance[c.Category]
		description := c.Description
		if description == "" {
			description = c.Name
		}
		recs = append(recs, models.Recommendation{
			ID:              recommendationID("criterion:" + c.ID),
			Priority:        models.PriorityCritical,
			Category:        c.Category,
			CriterionID:     c.ID,
			Title:           "Required: " + c.Name,
			Description:     description,
			ActionItems:     append([]string{"Complete: " + c.Name}, gd.actionItems...),
			EstimatedImpact: int(math.Round(c.Points * weightOr1(weights[c.Category]))),
			TimeToComplete:  gd.timeToComplete,
			Difficulty:      gd.difficulty,
			CostTier:        gd.costTier,
		})
	}
	return recs
}

func recommendationID(name string) string {
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

func weightOr1(w float64) float64 {
	if w <= 0 {
		return 1.0
	}
	return w
}
