package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	s3service "business-fundability-engine/internal/services/s3"
	"business-fundability-engine/internal/utils"
)

const uploadExpiryMinutes = 60

// URLSigner issues presigned S3 URLs.
type URLSigner interface {
	GeneratePresignedUploadURL(ctx context.Context, key, contentType string, expiryMinutes int) (*s3service.PresignedURLResult, error)
	GenerateReportDownloadURL(ctx context.Context, businessID, assessmentID string, expiryMinutes int) (*s3service.PresignedURLResult, error)
}

// PresignedURLHandler issues catalog upload URLs and report download URLs.
type PresignedURLHandler struct {
	signer URLSigner
}

// NewPresignedURLHandler creates a new presigned URL handler.
func NewPresignedURLHandler(signer URLSigner) *PresignedURLHandler {
	return &PresignedURLHandler{signer: signer}
}

// PresignedURLResponse is the response structure for presigned URL requests.
type PresignedURLResponse struct {
	URL       string    `json:"url"`
	S3Key     string    `json:"s3Key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Handle returns a report download URL when assessment_id is given,
// otherwise a catalog CSV upload URL.
func (h *PresignedURLHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()
	headers := corsHeaders("GET,OPTIONS")

	if request.HTTPMethod == http.MethodOptions {
		return preflight(headers), nil
	}

	if assessmentID := request.QueryStringParameters["assessment_id"]; assessmentID != "" {
		businessID := request.QueryStringParameters["business_id"]
		if businessID == "" {
			return errorResponse(headers, http.StatusBadRequest, "business_id is required with assessment_id")
		}
		res, err := h.signer.GenerateReportDownloadURL(ctx, businessID, assessmentID, uploadExpiryMinutes)
		if err != nil {
			logger.Error("Failed to generate report URL", utils.Error(err))
			return errorResponse(headers, http.StatusInternalServerError, "Failed to generate download URL")
		}
		return jsonResponse(headers, http.StatusOK, PresignedURLResponse{URL: res.URL, S3Key: res.Key, ExpiresAt: res.ExpiresAt})
	}

	filename := request.QueryStringParameters["filename"]
	if filename == "" {
		filename = "catalog_" + uuid.New().String()[:8] + ".csv"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return errorResponse(headers, http.StatusBadRequest, "Only CSV files are allowed")
	}

	timestamp := time.Now().UTC().Format("2006/01/02")
	s3Key := "imports/" + timestamp + "/" + uuid.New().String() + "_" + sanitizeFilename(filename)

	res, err := h.signer.GeneratePresignedUploadURL(ctx, s3Key, "text/csv", uploadExpiryMinutes)
	if err != nil {
		logger.Error("Failed to generate presigned URL", utils.Error(err))
		return errorResponse(headers, http.StatusInternalServerError, "Failed to generate upload URL")
	}

	return jsonResponse(headers, http.StatusOK, PresignedURLResponse{URL: res.URL, S3Key: res.Key, ExpiresAt: res.ExpiresAt})
}

// sanitizeFilename keeps only characters that are safe in an S3 key.
func sanitizeFilename(filename string) string {
	var b strings.Builder
	for _, r := range filename {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	safe := b.String()
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe
}
