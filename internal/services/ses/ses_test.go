package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"business-fundability-engine/internal/config"
	"business-fundability-engine/internal/models"
)

type fakeSES struct {
	sent []*ses.SendEmailInput
	err  error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, in)
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func sampleReport() *models.AssessmentReport {
	return &models.AssessmentReport{
		ID:         "a1",
		BusinessID: "biz-1",
		Context:    models.BusinessContext{TimeInBusinessMonths: 30},
		Result: models.ScoringResult{
			OverallScore:         612,
			CompletedCriteria:    18,
			TotalCriteria:        24,
			Percentage:           61.2,
			Grade:                models.GradeC,
			ImprovementPotential: 388,
			CategoryScores: []models.CategoryScore{
				{Category: models.CategoryBusinessFoundation, Percentage: 80},
				{Category: models.CategoryBankingFinance, Percentage: 35},
			},
		},
		Recommendations: []models.Recommendation{
			{Title: "Required: Business bank account", Priority: models.PriorityCritical, EstimatedImpact: 66},
			{Title: "Strengthen Banking & Finance", Priority: models.PriorityHigh, EstimatedImpact: 50},
			{Title: "Build Marketing Presence", Priority: models.PriorityMedium, EstimatedImpact: 20},
			{Title: "Tidy up Documentation", Priority: models.PriorityMedium, EstimatedImpact: 10},
		},
		ReportURL: "https://reports.example.com/a1.json",
	}
}

func TestBuildReportEmailParams(t *testing.T) {
	params := BuildReportEmailParams(sampleReport(), "owner@example.com")

	assert.Equal(t, 612, params.OverallScore)
	assert.Equal(t, models.GradeC, params.Grade)
	assert.Equal(t, 75.0, params.Completion)
	assert.Equal(t, 2.5, params.YearsInBusiness)
	assert.Len(t, params.Categories, 2)
	require.Len(t, params.Recommendations, maxEmailRecommendations)
	assert.Equal(t, "Required: Business bank account", params.Recommendations[0].Title)
}

func TestSendFundabilityReport(t *testing.T) {
	client := &fakeSES{}
	svc := newService(client, "reports@example.com", zaptest.NewLogger(t))

	res, err := svc.SendFundabilityReport(context.Background(), BuildReportEmailParams(sampleReport(), "owner@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "msg-1", res.MessageID)

	require.Len(t, client.sent, 1)
	in := client.sent[0]
	assert.Equal(t, "reports@example.com", aws.ToString(in.Source))
	assert.Equal(t, []string{"owner@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "Your fundability score: 612 (C)", aws.ToString(in.Message.Subject.Data))

	html := aws.ToString(in.Message.Body.Html.Data)
	assert.Contains(t, html, "Grade C")
	assert.Contains(t, html, "Banking &amp; Finance")
	assert.Contains(t, html, "https://reports.example.com/a1.json")
	assert.Contains(t, html, "75% of the assessment answered")
	assert.Contains(t, html, "2.5 years in business")

	text := aws.ToString(in.Message.Body.Text.Data)
	assert.Contains(t, text, "1. [critical] Required: Business bank account (up to 66 points)")
	assert.NotContains(t, text, "Tidy up Documentation")
	assert.Contains(t, text, "Assessment completion: 75%")
	assert.Contains(t, text, "Time in business: 2.5 years")
}

func TestBuildReportEmailParams_ClampsPercentage(t *testing.T) {
	report := sampleReport()
	report.Result.OverallScore = 1294
	report.Result.Percentage = 129.4
	report.Result.Grade = models.GradeAPlus

	params := BuildReportEmailParams(report, "owner@example.com")
	assert.Equal(t, 1294, params.OverallScore)
	assert.Equal(t, 100.0, params.Percentage)

	text := renderReportText(params)
	assert.Contains(t, text, "grade A+, 100.0%")
}

func TestSendEmail_Failure(t *testing.T) {
	svc := newService(&fakeSES{err: errors.New("throttled")}, "reports@example.com", nil)
	_, err := svc.SendEmail(context.Background(), EmailParams{To: "x@example.com", Subject: "s", TextBody: "b"})
	assert.ErrorContains(t, err, "throttled")
}

func TestNewService_RequiresSender(t *testing.T) {
	_, err := NewService(context.Background(), &config.Config{})
	assert.ErrorIs(t, err, ErrSenderNotConfigured)
}
