package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"business-fundability-engine/internal/apperrors"
	"business-fundability-engine/internal/models"
)

// Assessor scores submissions and reads assessment history.
type Assessor interface {
	Assess(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentReport, error)
	History(ctx context.Context, businessID string) ([]models.AssessmentRecord, models.ScoreTrend, error)
}

// AssessmentHandler handles questionnaire submissions.
type AssessmentHandler struct {
	assessor Assessor
}

// NewAssessmentHandler creates a new assessment handler.
func NewAssessmentHandler(assessor Assessor) *AssessmentHandler {
	return &AssessmentHandler{assessor: assessor}
}

// HistoryResponse is the body of GET /assessments.
type HistoryResponse struct {
	BusinessID  string                    `json:"business_id"`
	Trend       models.ScoreTrend         `json:"trend"`
	Assessments []models.AssessmentRecord `json:"assessments"`
}

// Handle serves POST (submit) and GET (history) requests.
func (h *AssessmentHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := corsHeaders("GET,POST,OPTIONS")

	switch request.HTTPMethod {
	case http.MethodOptions:
		return preflight(headers), nil
	case http.MethodPost:
		return h.submit(ctx, headers, request)
	case http.MethodGet:
		return h.history(ctx, headers, request)
	}
	return errorResponse(headers, http.StatusMethodNotAllowed, "Use POST to submit or GET for history")
}

func (h *AssessmentHandler) submit(ctx context.Context, headers map[string]string, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := validateBody(assessmentSchema, request.Body); err != nil {
		return appErrorResponse(headers, err)
	}

	var req models.AssessmentRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return appErrorResponse(headers, apperrors.InvalidInput("request body does not match the assessment format", err))
	}

	report, err := h.assessor.Assess(ctx, &req)
	if err != nil {
		return appErrorResponse(headers, err)
	}
	return jsonResponse(headers, http.StatusCreated, report)
}

func (h *AssessmentHandler) history(ctx context.Context, headers map[string]string, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	businessID := request.PathParameters["business_id"]
	if businessID == "" {
		businessID = request.QueryStringParameters["business_id"]
	}

	records, trend, err := h.assessor.History(ctx, businessID)
	if err != nil {
		return appErrorResponse(headers, err)
	}
	if records == nil {
		records = []models.AssessmentRecord{}
	}

	return jsonResponse(headers, http.StatusOK, HistoryResponse{
		BusinessID:  businessID,
		Trend:       trend,
		Assessments: records,
	})
}
