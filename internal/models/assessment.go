// Package models defines the data structures for the fundability engine.
package models

import (
	"math"
	"strings"
)

// ApplicabilityAll marks a criterion filter that matches every business.
const ApplicabilityAll = "all"

// ResponseType tags how an assessment answer was captured.
type ResponseType string

const (
	ResponseTypeBoolean ResponseType = "boolean"
	ResponseTypeNumber  ResponseType = "number"
	ResponseTypeSelect  ResponseType = "select"
)

// Criterion is a scorable business fact within a category.
type Criterion struct {
	ID            string   `json:"id" yaml:"id"`
	Category      Category `json:"category" yaml:"category"`
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	Points        float64  `json:"points" yaml:"points"`
	Required      bool     `json:"required" yaml:"required"`
	BusinessTypes []string `json:"business_types,omitempty" yaml:"business_types"`
	Industries    []string `json:"industries,omitempty" yaml:"industries"`
}

// AppliesTo reports whether the criterion is relevant for the business.
func (c *Criterion) AppliesTo(ctx BusinessContext) bool {
	return matchesFilter(c.BusinessTypes, NormalizeBusinessType(ctx.BusinessType)) &&
		matchesFilter(c.Industries, NormalizeIndustry(ctx.Industry))
}

func matchesFilter(filter []string, value string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == ApplicabilityAll || f == value {
			return true
		}
	}
	return false
}

// AssessmentResponse is one answered (or skipped) criterion.
type AssessmentResponse struct {
	Category       Category     `json:"category"`
	CriterionID    string       `json:"criterion_id"`
	CriterionName  string       `json:"criterion_name,omitempty"`
	Value          interface{}  `json:"value"`
	ResponseType   ResponseType `json:"response_type,omitempty"`
	PointsEarned   float64      `json:"points_earned"`
	PointsPossible float64      `json:"points_possible"`
	WeightFactor   float64      `json:"weight_factor,omitempty"`
	Critical       bool         `json:"critical,omitempty"`
}

// IsAnswered reports whether an answer was recorded. Completion depends on
// presence of a value, not on the points earned.
func (r *AssessmentResponse) IsAnswered() bool {
	return r.Value != nil
}

// EffectiveWeight returns the weight factor, defaulting to 1.0.
func (r *AssessmentResponse) EffectiveWeight() float64 {
	if r.WeightFactor <= 0 {
		return 1.0
	}
	return r.WeightFactor
}

// BusinessContext carries the business characteristics used for adjustments.
// Time in business is always expressed in months.
type BusinessContext struct {
	TimeInBusinessMonths int     `json:"time_in_business_months"`
	AnnualRevenue        float64 `json:"annual_revenue"`
	BusinessType         string  `json:"business_type"`
	Industry             string  `json:"industry"`
}

// YearsToMonths converts a years-in-business answer to the canonical months.
func YearsToMonths(years float64) int {
	if years <= 0 {
		return 0
	}
	return int(math.Round(years * 12))
}

// MonthsToYears converts months to fractional years for display.
func MonthsToYears(months int) float64 {
	return float64(months) / 12
}
