package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

const serviceName = "business-fundability-engine"

// DependencyCheck probes one backing service.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	checks []DependencyCheck
	stage  string
}

// NewHealthHandler creates a health handler over the configured dependencies.
// With no checks the service reports healthy in core-only mode.
func NewHealthHandler(stage string, checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{checks: checks, stage: stage}
}

// HealthResponse is the response structure for health checks.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    string            `json:"timestamp"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Stage        string            `json:"stage"`
	Dependencies map[string]string `json:"dependencies"`
}

// Handle processes health check requests.
func (h *HealthHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := corsHeaders("GET,OPTIONS")
	if request.HTTPMethod == http.MethodOptions {
		return preflight(headers), nil
	}

	response := HealthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Service:      serviceName,
		Version:      getEnvOrDefault("SERVICE_VERSION", "1.0.0"),
		Stage:        h.stage,
		Dependencies: make(map[string]string, len(h.checks)),
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	for _, dep := range h.checks {
		if err := dep.Check(ctx); err != nil {
			response.Dependencies[dep.Name] = "disconnected"
			response.Status = "degraded"
		} else {
			response.Dependencies[dep.Name] = "connected"
		}
	}

	statusCode := http.StatusOK
	if response.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	return jsonResponse(headers, statusCode, response)
}

// getEnvOrDefault returns environment variable or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
