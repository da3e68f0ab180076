// Catalog import Lambda entry point, triggered by CSV uploads to the
// catalog bucket.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"business-fundability-engine/internal/config"
	"business-fundability-engine/internal/handlers"
	"business-fundability-engine/internal/services/database"
	s3service "business-fundability-engine/internal/services/s3"
	"business-fundability-engine/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	ctx := context.Background()

	db, err := database.New(ctx, cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}
	defer db.Close()

	s3Svc, err := s3service.NewService(ctx, cfg)
	if err != nil {
		panic("Failed to create S3 service: " + err.Error())
	}

	handler := handlers.NewCatalogImportHandler(s3Svc, database.NewOpportunityRepository(db), utils.GetLogger())
	lambda.Start(handler.Handle)
}
