package container

import (
	"context"
	"fmt"

	"goabtest/adapters/memory"
	"goabtest/adapters/postgres"
	"goabtest/app"
	"goabtest/internal"
	"goabtest/internal/config"
	"goabtest/internal/dataset"
	"goabtest/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Data access
	Accessor   *dataset.FileAccessor
	ReportRepo ports.ReportRepository

	// Pipeline
	ABTestService *app.ABTestService
}

// New creates a new dependency injection container. Reports are kept in memory
// until InitWithDatabase switches them to PostgreSQL.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	c.Accessor = dataset.NewFileAccessor(logger.With("DatasetAccessor"), cfg.Data.Files...)
	c.ReportRepo = memory.NewReportRepository()
	c.initServices()

	return c, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	// Test database connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.ReportRepo = postgres.NewReportRepository(db)
	c.initServices()

	c.Logger.Info("Container initialized with PostgreSQL report storage")
	return nil
}

func (c *Container) initServices() {
	c.ABTestService = app.NewABTestService(c.Accessor, c.ReportRepo, c.Logger, c.Config.Pipeline.Workers)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
