package migration

import (
	"context"
	"fmt"

	"goabtest/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create ab_test_runs table")
	}

	if err := r.createMetricResultsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create ab_test_metric_results table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

// Statements lists the DDL in execution order
func (r *MigrationRunner) Statements() []string {
	return []string{runsTableSQL, metricResultsTableSQL}
}

const runsTableSQL = `
	CREATE TABLE IF NOT EXISTS ab_test_runs (
		id UUID PRIMARY KEY,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		dataset_size INTEGER NOT NULL,
		dataset_hash VARCHAR(64) NOT NULL DEFAULT '',
		alpha DOUBLE PRECISION NOT NULL
	)
`

const metricResultsTableSQL = `
	CREATE TABLE IF NOT EXISTS ab_test_metric_results (
		run_id UUID NOT NULL REFERENCES ab_test_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		metric VARCHAR(64) NOT NULL,
		test_kind VARCHAR(64),
		alternative VARCHAR(16),
		statistic DOUBLE PRECISION,
		p_value DOUBLE PRECISION,
		decision VARCHAR(32),
		treatment JSONB NOT NULL DEFAULT '{}',
		control JSONB NOT NULL DEFAULT '{}',
		normality JSONB,
		compared JSONB,
		error TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, position)
	)
`

func (r *MigrationRunner) createRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, runsTableSQL)
	return err
}

func (r *MigrationRunner) createMetricResultsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, metricResultsTableSQL)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_ab_test_runs_created_at ON ab_test_runs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_ab_test_metric_results_metric ON ab_test_metric_results(metric)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Log but don't fail on index creation errors
			fmt.Printf("Warning: failed to create index: %v\n", err)
		}
	}

	return nil
}
