package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"business-fundability-engine/internal/apperrors"
	"business-fundability-engine/internal/models"
	"business-fundability-engine/internal/services/assessment"
	"business-fundability-engine/internal/services/matcher"
	"business-fundability-engine/internal/services/recommendations"
	s3service "business-fundability-engine/internal/services/s3"
	"business-fundability-engine/internal/services/scoring"
)

type fakeAssessor struct {
	got *models.AssessmentRequest
	err error
}

func (f *fakeAssessor) Assess(_ context.Context, req *models.AssessmentRequest) (*models.AssessmentReport, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AssessmentReport{ID: "a1", BusinessID: req.BusinessID, Result: models.ScoringResult{OverallScore: 640}}, nil
}

func (f *fakeAssessor) History(_ context.Context, businessID string) ([]models.AssessmentRecord, models.ScoreTrend, error) {
	if businessID == "" {
		return nil, models.ScoreTrend{}, apperrors.InvalidInput("business_id is required", models.ErrEmptyBusinessID)
	}
	return nil, models.ScoreTrend{Direction: models.TrendFlat}, nil
}

type fakeMarketplace struct {
	kind    string
	profile *models.UserProfile
}

func (f *fakeMarketplace) Match(_ context.Context, businessID, kind string) (*models.MatchResult, error) {
	f.kind = kind
	if kind == "crypto" {
		return nil, apperrors.InvalidInput("unknown opportunity kind", models.ErrUnknownOpportunityKind)
	}
	return &models.MatchResult{Kind: models.OpportunityKind(kind), Demo: businessID == ""}, nil
}

func (f *fakeMarketplace) SaveProfile(_ context.Context, p *models.UserProfile) error {
	f.profile = p
	return nil
}

func decodeError(t *testing.T, body string) ErrorBody {
	t.Helper()
	var e ErrorBody
	require.NoError(t, json.Unmarshal([]byte(body), &e))
	return e
}

const validAssessment = `{
	"business_id": "biz-1",
	"years_in_business": 2,
	"annual_revenue": 150000,
	"industry": "retail",
	"responses": [{"category": "Business Foundation", "criterion_id": "bf_ein", "value": true, "points_earned": 25, "points_possible": 25}]
}`

func TestAssessmentHandler_Submit(t *testing.T) {
	assessor := &fakeAssessor{}
	h := NewAssessmentHandler(assessor)

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: validAssessment})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])

	require.NotNil(t, assessor.got)
	assert.Equal(t, 2.0, assessor.got.YearsInBusiness)
	require.Len(t, assessor.got.Responses, 1)
	assert.Equal(t, models.CategoryBusinessFoundation, assessor.got.Responses[0].Category)

	var report models.AssessmentReport
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &report))
	assert.Equal(t, 640, report.Result.OverallScore)
}

func TestAssessmentHandler_AcceptsCategorySlugs(t *testing.T) {
	svc := assessment.NewService(scoring.MustNewDefaultEngine(), recommendations.NewGenerator(), matcher.NewMatcherService())
	h := NewAssessmentHandler(svc)

	body := `{
		"business_id": "biz-1",
		"years_in_business": 2,
		"annual_revenue": 150000,
		"responses": [
			{"category": "business_foundation", "criterion_id": "bf_ein", "value": true, "points_earned": 25, "points_possible": 25},
			{"category": "legal structure", "criterion_id": "ls_entity", "value": true, "points_earned": 30, "points_possible": 30}
		]
	}`

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: body})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)

	var report models.AssessmentReport
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &report))
	foundation, ok := report.Result.CategoryScore(models.CategoryBusinessFoundation)
	require.True(t, ok)
	assert.Equal(t, 1, foundation.CompletedCriteria)
	legal, ok := report.Result.CategoryScore(models.CategoryLegalStructure)
	require.True(t, ok)
	assert.Equal(t, 1, legal.CompletedCriteria)

	unknown := `{"business_id": "biz-1", "responses": [{"category": "vibes", "criterion_id": "x", "value": true}]}`
	resp, err = h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: unknown})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAssessmentHandler_SchemaViolations(t *testing.T) {
	h := NewAssessmentHandler(&fakeAssessor{})

	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty body", "", apperrors.CodeInvalidInput},
		{"not json", "{", apperrors.CodeInvalidInput},
		{"missing business", `{"responses": []}`, apperrors.CodeValidationError},
		{"negative revenue", `{"business_id": "b", "annual_revenue": -5, "responses": []}`, apperrors.CodeValidationError},
		{"response without criterion", `{"business_id": "b", "responses": [{"category": "Documentation"}]}`, apperrors.CodeValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: tt.body})
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp.Body).Code)
		})
	}
}

func TestAssessmentHandler_ServiceErrors(t *testing.T) {
	h := NewAssessmentHandler(&fakeAssessor{err: apperrors.ValidationError("assessment references an unknown category", models.ErrUnknownCategory)})
	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: validAssessment})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.ErrUnknownCategory.Error(), decodeError(t, resp.Body).Details)

	h = NewAssessmentHandler(&fakeAssessor{err: errors.New("boom")})
	resp, err = h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: validAssessment})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, decodeError(t, resp.Body).Details, "internal causes are not leaked")
}

func TestAssessmentHandler_HistoryAndMethods(t *testing.T) {
	h := NewAssessmentHandler(&fakeAssessor{})
	ctx := context.Background()

	resp, err := h.Handle(ctx, events.APIGatewayProxyRequest{
		HTTPMethod:     http.MethodGet,
		PathParameters: map[string]string{"business_id": "biz-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var history HistoryResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &history))
	assert.Equal(t, "biz-1", history.BusinessID)
	assert.NotNil(t, history.Assessments)

	resp, _ = h.Handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = h.Handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.Handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: http.MethodDelete})
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMatchHandler(t *testing.T) {
	market := &fakeMarketplace{}
	h := NewMatchHandler(market)
	ctx := context.Background()

	resp, err := h.Handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "funding", market.kind, "kind defaults to funding")
	var result models.MatchResult
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &result))
	assert.True(t, result.Demo)

	resp, _ = h.Handle(ctx, events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		QueryStringParameters: map[string]string{"kind": "crypto"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = h.Handle(ctx, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPut,
		Body:       `{"business_id": "biz-1", "credit_score": 700, "industry": "retail"}`,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, market.profile)
	assert.Equal(t, 700, market.profile.CreditScore)

	resp, _ = h.Handle(ctx, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPut,
		Body:       `{"business_id": "biz-1", "credit_score": 9000}`,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthHandler(t *testing.T) {
	ok := DependencyCheck{Name: "database", Check: func(context.Context) error { return nil }}
	down := DependencyCheck{Name: "redis", Check: func(context.Context) error { return errors.New("refused") }}

	resp, err := NewHealthHandler("test", ok).Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = NewHealthHandler("test", ok, down).Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &health))
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "connected", health.Dependencies["database"])
	assert.Equal(t, "disconnected", health.Dependencies["redis"])
	assert.Equal(t, serviceName, health.Service)
}

type fakeSigner struct{ lastKey string }

func (f *fakeSigner) GeneratePresignedUploadURL(_ context.Context, key, _ string, minutes int) (*s3service.PresignedURLResult, error) {
	f.lastKey = key
	return &s3service.PresignedURLResult{URL: "https://upload/" + key, Key: key, ExpiresAt: time.Now().Add(time.Duration(minutes) * time.Minute)}, nil
}

func (f *fakeSigner) GenerateReportDownloadURL(_ context.Context, businessID, assessmentID string, _ int) (*s3service.PresignedURLResult, error) {
	key := s3service.ReportKey(businessID, assessmentID)
	return &s3service.PresignedURLResult{URL: "https://download/" + key, Key: key}, nil
}

func TestPresignedURLHandler(t *testing.T) {
	signer := &fakeSigner{}
	h := NewPresignedURLHandler(signer)
	ctx := context.Background()

	resp, err := h.Handle(ctx, events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		QueryStringParameters: map[string]string{"filename": "my lenders!.csv"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(signer.lastKey, "imports/"))
	assert.True(t, strings.HasSuffix(signer.lastKey, "_mylenders.csv"))

	resp, _ = h.Handle(ctx, events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		QueryStringParameters: map[string]string{"filename": "lenders.xlsx"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = h.Handle(ctx, events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		QueryStringParameters: map[string]string{"assessment_id": "a1", "business_id": "biz-1"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out PresignedURLResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	assert.Equal(t, "reports/biz-1/a1.json", out.S3Key)

	resp, _ = h.Handle(ctx, events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		QueryStringParameters: map[string]string{"assessment_id": "a1"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "report2026.csv", sanitizeFilename("report 2026.csv"))
	assert.Equal(t, "q1_lenders-v2.csv", sanitizeFilename("q1_lenders-v2.csv"))
	assert.Equal(t, "abc.csv", sanitizeFilename("a/b\\c.csv"))
	assert.Len(t, sanitizeFilename(strings.Repeat("x", 150)), 100)
}

type fakeImportFiles struct {
	files     map[string]string
	processed []string
}

func (f *fakeImportFiles) DownloadFile(_ context.Context, bucket, key string) ([]byte, error) {
	content, ok := f.files[bucket+"/"+key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return []byte(content), nil
}

func (f *fakeImportFiles) MarkImportProcessed(_ context.Context, _, key string) (string, error) {
	f.processed = append(f.processed, key)
	return "imports/processed/" + key, nil
}

type fakeImporter struct{ stored []*models.FundingOpportunity }

func (f *fakeImporter) BulkUpsertFunding(_ context.Context, opps []*models.FundingOpportunity) (*models.ImportResult, error) {
	f.stored = append(f.stored, opps...)
	return &models.ImportResult{InsertedCount: len(opps), Errors: []string{}}, nil
}

func s3Event(bucket string, keys ...string) events.S3Event {
	var ev events.S3Event
	for _, key := range keys {
		var rec events.S3EventRecord
		rec.S3.Bucket.Name = bucket
		rec.S3.Object.Key = key
		ev.Records = append(ev.Records, rec)
	}
	return ev
}

func TestCatalogImportHandler(t *testing.T) {
	files := &fakeImportFiles{files: map[string]string{
		"catalog/imports/2026/lenders+q1.csv": "lender_name,product_name,funding_type,amount_min,amount_max,min_credit_score\n" +
			"Good Bank,Term Loan,term,5000,50000,650\n" +
			"Bad Bank,Term Loan,term,abc,50000,650\n",
	}}
	importer := &fakeImporter{}
	h := NewCatalogImportHandler(files, importer, zaptest.NewLogger(t))

	results, err := h.Handle(context.Background(), s3Event("catalog",
		"imports/2026/lenders%2Bq1.csv",
		"imports/processed/old.csv",
		"imports/readme.txt",
	))
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, 1, results[0].InsertedCount)
	assert.Equal(t, 1, results[0].FailedCount)
	assert.Len(t, results[0].Errors, 1)
	assert.NotEmpty(t, results[0].ImportID)
	require.Len(t, importer.stored, 1)
	assert.Equal(t, "Good Bank", importer.stored[0].LenderName)
	assert.Equal(t, []string{"imports/2026/lenders+q1.csv"}, files.processed)
}

func TestCatalogImportHandler_DownloadFailure(t *testing.T) {
	h := NewCatalogImportHandler(&fakeImportFiles{files: map[string]string{}}, &fakeImporter{}, zaptest.NewLogger(t))
	_, err := h.Handle(context.Background(), s3Event("catalog", "imports/missing.csv"))
	assert.ErrorContains(t, err, "NoSuchKey")
}

func TestHTTPAdapter(t *testing.T) {
	market := &fakeMarketplace{}
	srv := httptest.NewServer(HTTPAdapter(NewMatchHandler(market).Handle))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/matches?kind=tradeline&business_id=biz-1")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "tradeline", market.kind)
}
