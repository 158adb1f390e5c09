package main

import (
	"context"
	"log"

	"goabtest/internal"
	"goabtest/internal/config"
	"goabtest/internal/container"
	"goabtest/ui"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))

	appContainer, err := container.Build(context.Background(), appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	app, err := ui.NewApp(appContainer.ABTestService, logger)
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	log.Printf("Starting A/B test report UI on http://localhost:%s", appConfig.Server.UIPort)
	log.Fatal(app.Start(ui.Config{Port: appConfig.Server.UIPort}))
}
