// Package assessment runs a questionnaire submission end to end: scoring,
// recommendations, benchmarking and best-effort persistence. It also serves
// marketplace matches for stored business profiles.
package assessment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"business-fundability-engine/internal/apperrors"
	"business-fundability-engine/internal/metrics"
	"business-fundability-engine/internal/models"
	"business-fundability-engine/internal/services/analytics"
	"business-fundability-engine/internal/services/matcher"
	"business-fundability-engine/internal/services/recommendations"
	"business-fundability-engine/internal/services/scoring"
)

const defaultHistoryLimit = 12

// AssessmentStore persists assessment history.
type AssessmentStore interface {
	Save(ctx context.Context, rec *models.AssessmentRecord) error
	ListByBusinessID(ctx context.Context, businessID string, limit int) ([]models.AssessmentRecord, error)
}

// ProfileStore persists business profiles.
type ProfileStore interface {
	GetByBusinessID(ctx context.Context, businessID string) (*models.UserProfile, error)
	Upsert(ctx context.Context, p *models.UserProfile) error
	UpdateFundabilityScore(ctx context.Context, businessID string, score float64) error
}

// CatalogStore loads the active opportunity catalog.
type CatalogStore interface {
	Catalog(ctx context.Context) (*models.Catalog, error)
}

// MatchStore records the matches shown to a business.
type MatchStore interface {
	SaveResult(ctx context.Context, businessID string, result *models.MatchResult) (int, int, error)
}

// ProfileCache caches profiles in front of the ProfileStore.
type ProfileCache interface {
	GetProfile(ctx context.Context, businessID string) (*models.UserProfile, error)
	SetProfile(ctx context.Context, profile *models.UserProfile) error
	Invalidate(ctx context.Context, businessID string) error
}

// ReportArchiver stores a report and returns a download URL.
type ReportArchiver interface {
	ArchiveReport(ctx context.Context, report *models.AssessmentReport) (string, error)
}

// ReportNotifier sends a report summary to the business owner.
type ReportNotifier interface {
	NotifyReport(ctx context.Context, report *models.AssessmentReport, email string) error
}

// Service wires the engines to the optional stores. Every store is optional;
// without one the corresponding step is skipped.
type Service struct {
	scorer    *scoring.ScoringEngine
	generator *recommendations.Generator
	matcher   *matcher.MatcherService

	assessments AssessmentStore
	profiles    ProfileStore
	catalog     CatalogStore
	matches     MatchStore
	cache       ProfileCache
	archiver    ReportArchiver
	notifier    ReportNotifier

	historyLimit int
	logger       *zap.Logger
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithAssessmentStore(s AssessmentStore) Option { return func(svc *Service) { svc.assessments = s } }
func WithProfileStore(s ProfileStore) Option       { return func(svc *Service) { svc.profiles = s } }
func WithCatalogStore(s CatalogStore) Option       { return func(svc *Service) { svc.catalog = s } }
func WithMatchStore(s MatchStore) Option           { return func(svc *Service) { svc.matches = s } }
func WithProfileCache(c ProfileCache) Option       { return func(svc *Service) { svc.cache = c } }
func WithArchiver(a ReportArchiver) Option         { return func(svc *Service) { svc.archiver = a } }
func WithNotifier(n ReportNotifier) Option         { return func(svc *Service) { svc.notifier = n } }

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(svc *Service) {
		if logger != nil {
			svc.logger = logger
		}
	}
}

// WithHistoryLimit sets how many past assessments feed the score trend.
func WithHistoryLimit(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.historyLimit = n
		}
	}
}

// NewService creates an assessment service around the three engines.
func NewService(scorer *scoring.ScoringEngine, generator *recommendations.Generator, m *matcher.MatcherService, opts ...Option) *Service {
	svc := &Service{
		scorer:       scorer,
		generator:    generator,
		matcher:      m,
		historyLimit: defaultHistoryLimit,
		logger:       zap.NewNop(),
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Assess scores a submission and returns the full report. Storage, archive
// and email failures are logged and never fail the request.
func (s *Service) Assess(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentReport, error) {
	start := time.Now()

	if err := models.ValidateAssessmentRequest(req); err != nil {
		metrics.AssessmentsFailed.WithLabelValues(apperrors.CodeValidationError).Inc()
		return nil, apperrors.ValidationError("invalid assessment request", err).WithOperation("Assess")
	}

	bctx := req.BusinessContext()
	result, err := s.scorer.CalculateScore(req.Responses, bctx)
	if err != nil {
		return nil, s.scoringFailure(err)
	}

	recs, err := s.generator.Generate(result.CategoryScores, bctx, s.scorer.Criteria())
	if err != nil {
		return nil, s.scoringFailure(err)
	}

	benchmark := analytics.Benchmark(result, bctx.Industry)
	report := &models.AssessmentReport{
		ID:              uuid.NewString(),
		BusinessID:      req.BusinessID,
		Context:         bctx,
		Result:          *result,
		Recommendations: recs,
		Benchmark:       &benchmark,
		CreatedAt:       s.now(),
	}

	s.persist(ctx, report)
	s.archiveAndNotify(ctx, report, req.Email)

	metrics.AssessmentsScored.WithLabelValues(string(result.Grade)).Inc()
	metrics.OverallScore.Observe(float64(result.OverallScore))
	metrics.ScoringDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("Assessment scored",
		zap.String("assessment_id", report.ID),
		zap.String("business_id", report.BusinessID),
		zap.Int("overall_score", result.OverallScore),
		zap.String("grade", string(result.Grade)),
		zap.Int("recommendations", len(recs)),
		zap.Bool("persisted", report.Persisted),
	)

	return report, nil
}

func (s *Service) scoringFailure(err error) error {
	if errors.Is(err, models.ErrUnknownCategory) {
		metrics.AssessmentsFailed.WithLabelValues(apperrors.CodeValidationError).Inc()
		return apperrors.ValidationError("assessment references an unknown category", err).WithOperation("Assess")
	}
	metrics.AssessmentsFailed.WithLabelValues(apperrors.CodeInternalError).Inc()
	return apperrors.InternalError("failed to score assessment", err).WithOperation("Assess")
}

// persist saves the report, derives the trend from stored history and
// refreshes the profile's fundability score.
func (s *Service) persist(ctx context.Context, report *models.AssessmentReport) {
	record := report.ToRecord()

	if s.assessments != nil {
		history, err := s.assessments.ListByBusinessID(ctx, report.BusinessID, s.historyLimit)
		if err != nil {
			s.persistenceFailure("assessments", report, err)
		} else {
			trend := analytics.Trend(append(history, *record))
			report.Trend = &trend
		}

		if err := s.assessments.Save(ctx, record); err != nil {
			s.persistenceFailure("assessments", report, err)
		} else {
			report.Persisted = true
		}
	}

	if s.profiles != nil {
		if err := s.profiles.UpdateFundabilityScore(ctx, report.BusinessID, report.Result.DisplayPercentage()); err != nil {
			s.persistenceFailure("profiles", report, err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, report.BusinessID); err != nil {
			s.persistenceFailure("cache", report, err)
		}
	}
}

func (s *Service) archiveAndNotify(ctx context.Context, report *models.AssessmentReport, email string) {
	if s.archiver != nil {
		url, err := s.archiver.ArchiveReport(ctx, report)
		if err != nil {
			s.persistenceFailure("s3", report, err)
		} else {
			report.ReportURL = url
		}
	}

	if s.notifier != nil && strings.TrimSpace(email) != "" {
		if err := s.notifier.NotifyReport(ctx, report, email); err != nil {
			s.persistenceFailure("ses", report, err)
		}
	}
}

func (s *Service) persistenceFailure(target string, report *models.AssessmentReport, err error) {
	metrics.PersistenceFailures.WithLabelValues(target).Inc()
	s.logger.Warn("Assessment side effect failed",
		zap.String("target", target),
		zap.String("assessment_id", report.ID),
		zap.String("business_id", report.BusinessID),
		zap.Error(err),
	)
}

// History returns stored assessments for a business with their trend.
func (s *Service) History(ctx context.Context, businessID string) ([]models.AssessmentRecord, models.ScoreTrend, error) {
	if strings.TrimSpace(businessID) == "" {
		return nil, models.ScoreTrend{}, apperrors.InvalidInput("business_id is required", models.ErrEmptyBusinessID)
	}
	if s.assessments == nil {
		return nil, analytics.Trend(nil), nil
	}

	history, err := s.assessments.ListByBusinessID(ctx, businessID, s.historyLimit)
	if err != nil {
		return nil, models.ScoreTrend{}, apperrors.DatabaseError("failed to load assessment history", err).WithOperation("History")
	}
	return history, analytics.Trend(history), nil
}

// SaveProfile validates and stores a business profile.
func (s *Service) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	if profile == nil || strings.TrimSpace(profile.BusinessID) == "" {
		return apperrors.InvalidInput("business_id is required", models.ErrEmptyBusinessID)
	}
	if err := models.ValidateProfile(profile); err != nil {
		return apperrors.ValidationError("invalid profile", err).WithOperation("SaveProfile")
	}
	profile.Industry = models.NormalizeIndustry(profile.Industry)

	if s.profiles == nil {
		return apperrors.ServiceError("profile storage is not configured", nil).WithOperation("SaveProfile")
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return apperrors.DatabaseError("failed to save profile", err).WithOperation("SaveProfile")
	}

	if s.cache != nil {
		if err := s.cache.SetProfile(ctx, profile); err != nil {
			metrics.PersistenceFailures.WithLabelValues("cache").Inc()
			s.logger.Warn("Failed to cache profile", zap.String("business_id", profile.BusinessID), zap.Error(err))
		}
	}
	return nil
}

// Match ranks the catalog for a stored business profile. An empty business
// ID or an unknown business is matched with the demo profile.
func (s *Service) Match(ctx context.Context, businessID, kind string) (*models.MatchResult, error) {
	k, err := models.ParseOpportunityKind(kind)
	if err != nil {
		return nil, apperrors.InvalidInput("unknown opportunity kind", err).WithOperation("Match")
	}

	profile, err := s.loadProfile(ctx, strings.TrimSpace(businessID))
	if err != nil {
		return nil, apperrors.DatabaseError("failed to load profile", err).WithOperation("Match")
	}

	catalog := s.loadCatalog(ctx)

	result, err := s.matcher.MatchOpportunities(profile, catalog, k)
	if err != nil {
		if errors.Is(err, matcher.ErrInvalidProfile) {
			return nil, apperrors.ValidationError("stored profile is invalid", err).WithOperation("Match")
		}
		return nil, apperrors.InternalError("failed to match opportunities", err).WithOperation("Match")
	}

	if !result.Demo && s.matches != nil {
		if _, failed, err := s.matches.SaveResult(ctx, businessID, result); err != nil || failed > 0 {
			metrics.PersistenceFailures.WithLabelValues("matches").Inc()
			s.logger.Warn("Failed to store matches",
				zap.String("business_id", businessID),
				zap.Int("failed", failed),
				zap.Error(err))
		}
	}

	metrics.MatchRequests.WithLabelValues(string(k), boolLabel(result.Demo)).Inc()
	metrics.MatchesReturned.WithLabelValues(string(k)).Observe(float64(len(result.Matches)))
	return result, nil
}

// loadProfile reads through the cache. A nil profile with a nil error means
// the business has no stored profile.
func (s *Service) loadProfile(ctx context.Context, businessID string) (*models.UserProfile, error) {
	if businessID == "" || s.profiles == nil {
		return nil, nil
	}

	if s.cache != nil {
		cached, err := s.cache.GetProfile(ctx, businessID)
		if err != nil {
			s.logger.Warn("Profile cache unavailable", zap.String("business_id", businessID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	profile, err := s.profiles.GetByBusinessID(ctx, businessID)
	if err != nil || profile == nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProfile(ctx, profile); err != nil {
			s.logger.Warn("Failed to cache profile", zap.String("business_id", businessID), zap.Error(err))
		}
	}
	return profile, nil
}

// loadCatalog returns the stored catalog, or the built-in one when the store
// is missing, failing or empty.
func (s *Service) loadCatalog(ctx context.Context) models.Catalog {
	if s.catalog == nil {
		return matcher.DefaultCatalog()
	}
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		s.logger.Warn("Falling back to built-in catalog", zap.Error(err))
		return matcher.DefaultCatalog()
	}
	if len(catalog.Funding) == 0 && len(catalog.TradeLines) == 0 {
		return matcher.DefaultCatalog()
	}
	return *catalog
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
