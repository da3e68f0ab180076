// Presigned URL Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"business-fundability-engine/internal/config"
	"business-fundability-engine/internal/handlers"
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

	s3Svc, err := s3service.NewService(context.Background(), cfg)
	if err != nil {
		panic("Failed to create S3 service: " + err.Error())
	}

	handler := handlers.NewPresignedURLHandler(s3Svc)
	lambda.Start(handler.Handle)
}
