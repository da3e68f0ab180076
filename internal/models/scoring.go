// Package models defines the data structures for the fundability engine.
package models

// MaxOverallScore is the fixed top of the fundability scale.
const MaxOverallScore = 1000

// Grade is the letter grade derived from the overall score.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// Rank orders grades so that a better grade has a higher rank.
func (g Grade) Rank() int {
	switch g {
	case GradeAPlus:
		return 8
	case GradeA:
		return 7
	case GradeBPlus:
		return 6
	case GradeB:
		return 5
	case GradeCPlus:
		return 4
	case GradeC:
		return 3
	case GradeD:
		return 2
	case GradeF:
		return 1
	}
	return 0
}

// CategoryScore is the derived score for one category of an assessment.
type CategoryScore struct {
	Category              Category `json:"category"`
	Score                 float64  `json:"score"`
	MaxScore              float64  `json:"max_score"`
	Percentage            float64  `json:"percentage"`
	Weight                float64  `json:"weight"`
	WeightedScore         float64  `json:"weighted_score"`
	AdjustedMaxScore      float64  `json:"adjusted_max_score"`
	CompletedCriteria     int      `json:"completed_criteria"`
	TotalCriteria         int      `json:"total_criteria"`
	CompletedCriterionIDs []string `json:"completed_criterion_ids,omitempty"`
	Recommendations       []string `json:"recommendations,omitempty"`
}

// Gap returns the unearned raw points of the category.
func (c *CategoryScore) Gap() float64 {
	if c.MaxScore <= c.Score {
		return 0
	}
	return c.MaxScore - c.Score
}

// Adjustment records a multiplier applied while scoring.
type Adjustment struct {
	Name       string   `json:"name"`
	Category   Category `json:"category,omitempty"`
	Multiplier float64  `json:"multiplier"`
}

// ScoringResult is the complete output of a scoring run.
type ScoringResult struct {
	OverallScore         int             `json:"overall_score"`
	Percentage           float64         `json:"percentage"`
	CategoryScores       []CategoryScore `json:"category_scores"`
	Grade                Grade           `json:"grade"`
	ImprovementPotential int             `json:"improvement_potential"`
	Adjustments          []Adjustment    `json:"adjustments,omitempty"`
	CompletedCriteria    int             `json:"completed_criteria"`
	TotalCriteria        int             `json:"total_criteria"`
}

// CategoryScore returns the score row for a category.
func (r *ScoringResult) CategoryScore(c Category) (CategoryScore, bool) {
	for _, cs := range r.CategoryScores {
		if cs.Category == c {
			return cs, true
		}
	}
	return CategoryScore{}, false
}

// DisplayPercentage returns the percentage clamped to the 0-100 display
// range. Bonus multipliers can push the overall score past MaxOverallScore.
func (r *ScoringResult) DisplayPercentage() float64 {
	switch {
	case r.Percentage < 0:
		return 0
	case r.Percentage > 100:
		return 100
	}
	return r.Percentage
}

// CompletionPercent returns the share of applicable criteria answered.
func (r *ScoringResult) CompletionPercent() float64 {
	if r.TotalCriteria == 0 {
		return 0
	}
	return float64(r.CompletedCriteria) / float64(r.TotalCriteria) * 100
}
