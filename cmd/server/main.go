// Package main runs the fundability API as a local HTTP server. It serves the
// same handlers as the Lambda functions plus Prometheus metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"business-fundability-engine/internal/app"
	"business-fundability-engine/internal/config"
	"business-fundability-engine/internal/handlers"
	"business-fundability-engine/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()
	logger := utils.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to start fundability engine", zap.Error(err))
	}
	defer application.Close()

	mux := http.NewServeMux()

	health := handlers.HTTPAdapter(handlers.NewHealthHandler(cfg.Stage, application.HealthChecks()...).Handle)
	mux.Handle("/health", health)
	mux.Handle("/api/health", health)
	mux.Handle("/api/assessments", handlers.HTTPAdapter(handlers.NewAssessmentHandler(application.Service).Handle))
	mux.Handle("/api/matches", handlers.HTTPAdapter(handlers.NewMatchHandler(application.Service).Handle))
	if application.S3 != nil {
		mux.Handle("/api/presigned-url", handlers.HTTPAdapter(handlers.NewPresignedURLHandler(application.S3).Handle))
	}
	mux.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", cfg.Port),
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", srv.Addr),
			zap.String("stage", cfg.Stage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
