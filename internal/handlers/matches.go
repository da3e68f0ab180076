package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"business-fundability-engine/internal/apperrors"
	"business-fundability-engine/internal/models"
)

// Marketplace matches stored profiles against the opportunity catalog.
type Marketplace interface {
	Match(ctx context.Context, businessID, kind string) (*models.MatchResult, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
}

// MatchHandler serves marketplace matches and profile updates.
type MatchHandler struct {
	marketplace Marketplace
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(marketplace Marketplace) *MatchHandler {
	return &MatchHandler{marketplace: marketplace}
}

// Handle serves GET ?business_id=&kind= for matches and PUT for the profile.
func (h *MatchHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := corsHeaders("GET,PUT,OPTIONS")

	switch request.HTTPMethod {
	case http.MethodOptions:
		return preflight(headers), nil
	case http.MethodGet:
		return h.match(ctx, headers, request)
	case http.MethodPut:
		return h.saveProfile(ctx, headers, request)
	}
	return errorResponse(headers, http.StatusMethodNotAllowed, "Use GET for matches or PUT to update the profile")
}

func (h *MatchHandler) match(ctx context.Context, headers map[string]string, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	kind := request.QueryStringParameters["kind"]
	if kind == "" {
		kind = string(models.OpportunityKindFunding)
	}

	result, err := h.marketplace.Match(ctx, request.QueryStringParameters["business_id"], kind)
	if err != nil {
		return appErrorResponse(headers, err)
	}
	return jsonResponse(headers, http.StatusOK, result)
}

func (h *MatchHandler) saveProfile(ctx context.Context, headers map[string]string, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := validateBody(businessSchema, request.Body); err != nil {
		return appErrorResponse(headers, err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(request.Body), &profile); err != nil {
		return appErrorResponse(headers, apperrors.InvalidInput("request body does not match the profile format", err))
	}

	if err := h.marketplace.SaveProfile(ctx, &profile); err != nil {
		return appErrorResponse(headers, err)
	}
	return jsonResponse(headers, http.StatusOK, profile)
}
