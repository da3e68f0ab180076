// Package ses emails fundability reports via AWS SES
package ses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	appConfig "business-fundability-engine/internal/config"
	"business-fundability-engine/internal/models"
	"business-fundability-engine/internal/utils"
)

// maxEmailRecommendations caps how many recommendations the email lists.
const maxEmailRecommendations = 3

// ErrSenderNotConfigured is returned when no sender address is set.
var ErrSenderNotConfigured = errors.New("SES sender email is not configured")

type emailAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Service handles SES email operations
type Service struct {
	client    emailAPI
	fromEmail string
	logger    *zap.Logger
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	ReplyTo  string
}

// ReportEmailParams contains data for the fundability report email
type ReportEmailParams struct {
	BusinessID           string
	Email                string
	OverallScore         int
	Percentage           float64
	Grade                models.Grade
	ImprovementPotential int
	Completion           float64
	YearsInBusiness      float64
	Categories           []CategoryLine
	Recommendations      []RecommendationLine
	ReportURL            string
}

// CategoryLine is one category row in the email.
type CategoryLine struct {
	Name       string
	Percentage float64
}

// RecommendationLine is one recommendation in the email.
type RecommendationLine struct {
	Title    string
	Priority models.Priority
	Impact   int
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new SES service
func NewService(ctx context.Context, appCfg *appConfig.Config) (*Service, error) {
	if appCfg.SESSenderEmail == "" {
		return nil, ErrSenderNotConfigured
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(appCfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newService(ses.NewFromConfig(cfg), appCfg.SESSenderEmail, utils.GetLogger()), nil
}

func newService(client emailAPI, fromEmail string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, fromEmail: fromEmail, logger: logger}
}

// SendEmail sends a basic email
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if params.ReplyTo != "" {
		input.ReplyToAddresses = []string{params.ReplyTo}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	messageID := aws.ToString(result.MessageId)
	s.logger.Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
		zap.String("messageId", messageID),
	)

	return &SendEmailResult{
		MessageID: messageID,
		SentAt:    time.Now(),
	}, nil
}

// SendFundabilityReport emails the summary of one assessment.
func (s *Service) SendFundabilityReport(ctx context.Context, params ReportEmailParams) (*SendEmailResult, error) {
	htmlBody, err := renderReportHTML(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	return s.SendEmail(ctx, EmailParams{
		To:       params.Email,
		Subject:  fmt.Sprintf("Your fundability score: %d (%s)", params.OverallScore, params.Grade),
		HTMLBody: htmlBody,
		TextBody: renderReportText(params),
	})
}

// BuildReportEmailParams creates email params from an assessment report.
func BuildReportEmailParams(report *models.AssessmentReport, email string) ReportEmailParams {
	params := ReportEmailParams{
		BusinessID:           report.BusinessID,
		Email:                email,
		OverallScore:         report.Result.OverallScore,
		Percentage:           report.Result.DisplayPercentage(),
		Grade:                report.Result.Grade,
		ImprovementPotential: report.Result.ImprovementPotential,
		Completion:           report.Result.CompletionPercent(),
		YearsInBusiness:      models.MonthsToYears(report.Context.TimeInBusinessMonths),
		ReportURL:            report.ReportURL,
	}

	for _, cs := range report.Result.CategoryScores {
		params.Categories = append(params.Categories, CategoryLine{
			Name:       string(cs.Category),
			Percentage: cs.Percentage,
		})
	}

	for i, rec := range report.Recommendations {
		if i == maxEmailRecommendations {
			break
		}
		params.Recommendations = append(params.Recommendations, RecommendationLine{
			Title:    rec.Title,
			Priority: rec.Priority,
			Impact:   rec.EstimatedImpact,
		})
	}

	return params
}

var reportTemplate = template.Must(template.New("fundability_report").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1f3a5f; color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
        .score { font-size: 48px; font-weight: bold; margin: 0; }
        .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
        table { width: 100%; border-collapse: collapse; }
        td { padding: 6px 0; border-bottom: 1px solid #e5e5e5; }
        .rec { background: white; border-radius: 8px; padding: 12px 16px; margin: 10px 0; }
        .priority { font-size: 12px; text-transform: uppercase; color: #b03a2e; }
        .cta-button { display: inline-block; background: #1f3a5f; color: white; padding: 12px 24px; text-decoration: none; border-radius: 8px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="header">
        <p class="score">{{.OverallScore}}</p>
        <p>Grade {{.Grade}} &middot; {{printf "%.1f" .Percentage}}% fundable</p>
    </div>
    <div class="content">
        <p>{{printf "%.0f" .Completion}}% of the assessment answered{{if .YearsInBusiness}} &middot; {{printf "%.1f" .YearsInBusiness}} years in business{{end}}</p>
        <h3>Category breakdown</h3>
        <table>
        {{range .Categories}}
            <tr><td>{{.Name}}</td><td style="text-align:right">{{printf "%.0f" .Percentage}}%</td></tr>
        {{end}}
        </table>

        {{if .Recommendations}}
        <h3>Where to start</h3>
        {{range .Recommendations}}
        <div class="rec">
            <div class="priority">{{.Priority}}</div>
            <strong>{{.Title}}</strong><br>
            Up to {{.Impact}} points
        </div>
        {{end}}
        {{end}}

        <p>You could gain up to {{.ImprovementPotential}} points by closing the remaining gaps.</p>

        {{if .ReportURL}}
        <div style="text-align: center;">
            <a href="{{.ReportURL}}" class="cta-button">Download full report</a>
        </div>
        {{end}}
    </div>
</body>
</html>`))

func renderReportHTML(params ReportEmailParams) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, params); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderReportText(params ReportEmailParams) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Fundability score: %d / 1000 (grade %s, %.1f%%)\n", params.OverallScore, params.Grade, params.Percentage)
	fmt.Fprintf(&b, "Assessment completion: %.0f%%\n", params.Completion)
	if params.YearsInBusiness > 0 {
		fmt.Fprintf(&b, "Time in business: %.1f years\n", params.YearsInBusiness)
	}
	b.WriteString("\n")
	b.WriteString("Category breakdown:\n")
	for _, c := range params.Categories {
		fmt.Fprintf(&b, "  %-28s %3.0f%%\n", c.Name, c.Percentage)
	}

	if len(params.Recommendations) > 0 {
		b.WriteString("\nWhere to start:\n")
		for i, rec := range params.Recommendations {
			fmt.Fprintf(&b, "%d. [%s] %s (up to %d points)\n", i+1, rec.Priority, rec.Title, rec.Impact)
		}
	}

	fmt.Fprintf(&b, "\nImprovement potential: %d points\n", params.ImprovementPotential)
	if params.ReportURL != "" {
		fmt.Fprintf(&b, "Full report: %s\n", params.ReportURL)
	}

	return b.String()
}

// NotifyReport emails the report summary to the given address.
func (s *Service) NotifyReport(ctx context.Context, report *models.AssessmentReport, email string) error {
	_, err := s.SendFundabilityReport(ctx, BuildReportEmailParams(report, email))
	return err
}
