// Marketplace match Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"business-fundability-engine/internal/app"
	"business-fundability-engine/internal/config"
	"business-fundability-engine/internal/handlers"
	"business-fundability-engine/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	application, err := app.New(context.Background(), cfg, utils.GetLogger())
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}

	handler := handlers.NewMatchHandler(application.Service)
	lambda.Start(handler.Handle)
}
