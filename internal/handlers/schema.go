package handlers

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"business-fundability-engine/internal/apperrors"
)

const assessmentRequestSchema = `{
	"type": "object",
	"required": ["business_id", "responses"],
	"properties": {
		"business_id": {"type": "string", "minLength": 1},
		"email": {"type": "string"},
		"years_in_business": {"type": "number", "minimum": 0},
		"annual_revenue": {"type": "number", "minimum": 0},
		"business_type": {"type": "string"},
		"industry": {"type": "string"},
		"responses": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["category", "criterion_id"],
				"properties": {
					"category": {"type": "string", "minLength": 1},
					"criterion_id": {"type": "string", "minLength": 1},
					"points_earned": {"type": "number", "minimum": 0},
					"points_possible": {"type": "number", "minimum": 0},
					"weight_factor": {"type": "number", "minimum": 0}
				}
			}
		}
	}
}`

const profileSchema = `{
	"type": "object",
	"required": ["business_id"],
	"properties": {
		"business_id": {"type": "string", "minLength": 1},
		"credit_score": {"type": "integer", "minimum": 0, "maximum": 850},
		"time_in_business_months": {"type": "integer", "minimum": 0},
		"annual_revenue": {"type": "number", "minimum": 0},
		"industry": {"type": "string"},
		"business_structure": {"type": "string"},
		"funding_need": {
			"type": "object",
			"properties": {
				"amount": {"type": "number", "minimum": 0}
			}
		},
		"existing_trade_lines": {"type": "array", "items": {"type": "string"}},
		"fundability_score": {"type": "number", "minimum": 0, "maximum": 100}
	}
}`

var (
	assessmentSchema = mustSchema(assessmentRequestSchema)
	businessSchema   = mustSchema(profileSchema)
)

func mustSchema(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic("invalid request schema: " + err.Error())
	}
	return schema
}

// validateBody checks a JSON request body against a schema.
func validateBody(schema *gojsonschema.Schema, body string) error {
	if strings.TrimSpace(body) == "" {
		return apperrors.InvalidInput("request body is required", nil)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return apperrors.InvalidInput("request body is not valid JSON", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperrors.ValidationError("request failed validation", nil).WithDetails(strings.Join(errs, "; "))
	}
	return nil
}
