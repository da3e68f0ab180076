// Package models defines the data structures for the fundability engine.
package models

// Priority ranks how urgently a recommendation should be acted on.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank orders priorities so that critical sorts first when descending.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Difficulty is the effort tier of a recommendation.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// CostTier is the expected spend to complete a recommendation.
type CostTier string

const (
	CostFree   CostTier = "free"
	CostLow    CostTier = "low"
	CostMedium CostTier = "medium"
	CostHigh   CostTier = "high"
)

// Recommendation is an actionable improvement generated from an assessment.
type Recommendation struct {
	ID              string     `json:"id"`
	Priority        Priority   `json:"priority"`
	Category        Category   `json:"category"`
	CriterionID     string     `json:"criterion_id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ActionItems     []string   `json:"action_items"`
	EstimatedImpact int        `json:"estimated_impact"`
	TimeToComplete  string     `json:"time_to_complete"`
	Difficulty      Difficulty `json:"difficulty"`
	CostTier        CostTier   `json:"cost_tier"`
}
