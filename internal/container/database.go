package container

import (
	"context"

	"goabtest/internal"
	"goabtest/internal/config"
	"goabtest/internal/errors"
	"goabtest/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ConnectDatabase opens the PostgreSQL connection and brings the report schema up to date
func ConnectDatabase(ctx context.Context, url string) (*sqlx.DB, error) {
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.Wrap(errors.DatabaseError(err.Error()), "failed to connect to database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

// Build creates the container and, when DATABASE_URL is set, attaches PostgreSQL storage
func Build(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*Container, error) {
	c, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}

	if !cfg.Database.Enabled() {
		c.Logger.Info("DATABASE_URL not set, keeping reports in memory")
		return c, nil
	}

	db, err := ConnectDatabase(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := c.InitWithDatabase(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize container")
	}
	return c, nil
}
