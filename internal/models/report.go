// Package models defines the data structures for the fundability engine.
package models

import (
	"strings"
	"time"
)

// AssessmentRequest is the questionnaire submission from the wizard.
// The wizard collects years in business; it is converted to months on intake.
type AssessmentRequest struct {
	BusinessID      string               `json:"business_id"`
	Email           string               `json:"email,omitempty"`
	YearsInBusiness float64              `json:"years_in_business"`
	AnnualRevenue   float64              `json:"annual_revenue"`
	BusinessType    string               `json:"business_type"`
	Industry        string               `json:"industry"`
	Responses       []AssessmentResponse `json:"responses"`
}

// BusinessContext builds the scoring context in canonical units.
func (r *AssessmentRequest) BusinessContext() BusinessContext {
	return BusinessContext{
		TimeInBusinessMonths: YearsToMonths(r.YearsInBusiness),
		AnnualRevenue:        r.AnnualRevenue,
		BusinessType:         NormalizeBusinessType(r.BusinessType),
		Industry:             NormalizeIndustry(r.Industry),
	}
}

// ValidateAssessmentRequest validates a questionnaire submission.
func ValidateAssessmentRequest(r *AssessmentRequest) error {
	if strings.TrimSpace(r.BusinessID) == "" {
		return ErrEmptyBusinessID
	}
	if r.YearsInBusiness < 0 {
		return ErrInvalidTimeInBusiness
	}
	if r.AnnualRevenue < 0 {
		return ErrInvalidRevenue
	}
	for _, resp := range r.Responses {
		if !resp.Category.IsValid() {
			return ErrUnknownCategory
		}
	}
	return nil
}

// CategoryBenchmark compares one category against the industry average.
type CategoryBenchmark struct {
	Category        Category `json:"category"`
	Percentage      float64  `json:"percentage"`
	IndustryAverage float64  `json:"industry_average"`
	Difference      float64  `json:"difference"`
	AboveAverage    bool     `json:"above_average"`
}

// BenchmarkComparison compares an assessment against its industry peers.
type BenchmarkComparison struct {
	Industry             string              `json:"industry"`
	OverallScore         int                 `json:"overall_score"`
	IndustryAverageScore int                 `json:"industry_average_score"`
	Percentile           int                 `json:"percentile"`
	Categories           []CategoryBenchmark `json:"categories"`
	Strongest            Category            `json:"strongest"`
	Weakest              Category            `json:"weakest"`
}

// TrendDirection describes how the score moved between assessments.
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// ScoreTrend summarizes the score history of a business.
type ScoreTrend struct {
	Assessments   int            `json:"assessments"`
	LatestScore   int            `json:"latest_score"`
	PreviousScore int            `json:"previous_score"`
	Delta         int            `json:"delta"`
	Direction     TrendDirection `json:"direction"`
	BestScore     int            `json:"best_score"`
	FirstAssessed time.Time      `json:"first_assessed,omitempty"`
}

// AssessmentReport is the full response for one submitted assessment.
type AssessmentReport struct {
	ID              string               `json:"id"`
	BusinessID      string               `json:"business_id"`
	Context         BusinessContext      `json:"context"`
	Result          ScoringResult        `json:"result"`
	Recommendations []Recommendation     `json:"recommendations"`
	Benchmark       *BenchmarkComparison `json:"benchmark,omitempty"`
	Trend           *ScoreTrend          `json:"trend,omitempty"`
	ReportURL       string               `json:"report_url,omitempty"`
	Persisted       bool                 `json:"persisted"`
	CreatedAt       time.Time            `json:"created_at"`
}

// AssessmentRecord is a stored assessment in the history table.
type AssessmentRecord struct {
	ID              string           `json:"id" db:"id"`
	BusinessID      string           `json:"business_id" db:"business_id"`
	OverallScore    int              `json:"overall_score" db:"overall_score"`
	Percentage      float64          `json:"percentage" db:"percentage"`
	Grade           Grade            `json:"grade" db:"grade"`
	Context         BusinessContext  `json:"context" db:"context"`
	Result          ScoringResult    `json:"result" db:"result"`
	Recommendations []Recommendation `json:"recommendations" db:"recommendations"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

// ToRecord converts a report to its stored form.
func (r *AssessmentReport) ToRecord() *AssessmentRecord {
	return &AssessmentRecord{
		ID:              r.ID,
		BusinessID:      r.BusinessID,
		OverallScore:    r.Result.OverallScore,
		Percentage:      r.Result.Percentage,
		Grade:           r.Result.Grade,
		Context:         r.Context,
		Result:          r.Result,
		Recommendations: r.Recommendations,
		CreatedAt:       r.CreatedAt,
	}
}
