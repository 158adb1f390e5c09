package main

import (
	"context"
	"log"

	"goabtest/internal"
	"goabtest/internal/config"
	"goabtest/internal/container"
	"goabtest/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	// Create dependency injection container
	appContainer, err := container.Build(context.Background(), appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	// Report pages on the UI port
	reportApp, err := ui.NewApp(appContainer.ABTestService, logger)
	if err != nil {
		log.Fatalf("Failed to create report UI: %v", err)
	}
	go func() {
		if err := reportApp.Start(ui.Config{Port: appConfig.Server.UIPort}); err != nil {
			logger.Error("Report UI stopped: %v", err)
		}
	}()

	server := ui.NewServer(appContainer.ABTestService, appContainer.Accessor, ui.ServerOptions{
		PreviewRows: appConfig.Pipeline.PreviewRows,
		TopTotalAds: appConfig.Pipeline.TopTotalAds,
	}, logger)

	logger.Info("Starting goabtest API on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
