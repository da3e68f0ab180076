// Package app wires configuration, stores and engines into the pieces shared
// by the HTTP server and the Lambda functions. Every backing service is
// optional; the engines run in core-only mode when none is configured.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"business-fundability-engine/internal/config"
	"business-fundability-engine/internal/handlers"
	"business-fundability-engine/internal/services/assessment"
	"business-fundability-engine/internal/services/cache"
	"business-fundability-engine/internal/services/database"
	"business-fundability-engine/internal/services/matcher"
	"business-fundability-engine/internal/services/recommendations"
	s3service "business-fundability-engine/internal/services/s3"
	"business-fundability-engine/internal/services/scoring"
	"business-fundability-engine/internal/services/ses"
)

// App holds the wired service and the optional backends behind it.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Service *assessment.Service

	DB            *database.DB
	Opportunities *database.OpportunityRepository
	Cache         *cache.ProfileCache
	S3            *s3service.Service
	SES           *ses.Service
}

// New builds the engines and connects whatever backends cfg describes. A
// backend that fails to connect is logged and left out.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scorer, err := scoring.NewDefaultEngine(scoring.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build scoring engine: %w", err)
	}
	generator := recommendations.NewGenerator(recommendations.WithLogger(logger))
	matcherSvc := matcher.NewMatcherService(
		matcher.WithLogger(logger),
		matcher.WithTopN(cfg.MatcherTopN),
	)

	a := &App{Config: cfg, Logger: logger}
	opts := []assessment.Option{assessment.WithLogger(logger)}

	if cfg.DatabaseConfigured() {
		db, err := database.New(ctx, cfg)
		if err != nil {
			logger.Warn("Database unavailable, running without persistence", zap.Error(err))
		} else {
			a.DB = db
			a.Opportunities = database.NewOpportunityRepository(db)
			opts = append(opts,
				assessment.WithAssessmentStore(database.NewAssessmentRepository(db)),
				assessment.WithProfileStore(database.NewProfileRepository(db)),
				assessment.WithCatalogStore(a.Opportunities),
				assessment.WithMatchStore(database.NewMatchRepository(db)),
			)
		}
	}

	if cfg.RedisAddr != "" {
		profileCache, err := cache.New(ctx, cfg, logger)
		if err != nil {
			logger.Warn("Redis unavailable, profile cache disabled", zap.Error(err))
		} else {
			a.Cache = profileCache
			opts = append(opts, assessment.WithProfileCache(profileCache))
		}
	}

	if cfg.S3Bucket != "" || cfg.ReportBucket != "" {
		s3Svc, err := s3service.NewService(ctx, cfg)
		if err != nil {
			logger.Warn("S3 unavailable", zap.Error(err))
		} else {
			a.S3 = s3Svc
			if cfg.ReportBucket != "" {
				opts = append(opts, assessment.WithArchiver(s3Svc))
			}
		}
	}

	if cfg.SESSenderEmail != "" {
		sesSvc, err := ses.NewService(ctx, cfg)
		if err != nil {
			logger.Warn("SES unavailable, report emails disabled", zap.Error(err))
		} else {
			a.SES = sesSvc
			opts = append(opts, assessment.WithNotifier(sesSvc))
		}
	}

	a.Service = assessment.NewService(scorer, generator, matcherSvc, opts...)

	logger.Info("Fundability engine ready",
		zap.Bool("database", a.DB != nil),
		zap.Bool("cache", a.Cache != nil),
		zap.Bool("s3", a.S3 != nil),
		zap.Bool("ses", a.SES != nil))

	return a, nil
}

// HealthChecks returns a probe for every connected backend.
func (a *App) HealthChecks() []handlers.DependencyCheck {
	var checks []handlers.DependencyCheck
	if a.DB != nil {
		checks = append(checks, handlers.DependencyCheck{Name: "database", Check: a.DB.HealthCheck})
	}
	if a.Cache != nil {
		checks = append(checks, handlers.DependencyCheck{Name: "redis", Check: a.Cache.Ping})
	}
	return checks
}

// Close releases the connected backends.
func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
