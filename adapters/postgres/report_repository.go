package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"goabtest/domain/core"
	"goabtest/domain/stats"
	"goabtest/models"
	"goabtest/ports"

	"github.com/jmoiron/sqlx"
)

// ReportRepositoryImpl implements ReportRepository for PostgreSQL
type ReportRepositoryImpl struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

// Save writes the run and its metric rows in one transaction
func (r *ReportRepositoryImpl) Save(ctx context.Context, report *stats.PipelineReport) error {
	run, rows := models.NewABTestRows(report)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO ab_test_runs (id, created_at, dataset_size, dataset_hash, alpha)
		VALUES (:id, :created_at, :dataset_size, :dataset_hash, :alpha)
	`, run)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	for _, row := range rows {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO ab_test_metric_results (
				run_id, position, metric, test_kind, alternative, statistic,
				p_value, decision, treatment, control, normality, compared, error
			) VALUES (
				:run_id, :position, :metric, :test_kind, :alternative, :statistic,
				:p_value, :decision, :treatment, :control, :normality, :compared, :error
			)
		`, row)
		if err != nil {
			return fmt.Errorf("failed to insert %s result for run %s: %w", row.Metric, run.ID, err)
		}
	}

	return tx.Commit()
}

// Get loads a run with its metric rows
func (r *ReportRepositoryImpl) Get(ctx context.Context, id core.RunID) (*stats.PipelineReport, error) {
	var run models.ABTestRun
	err := r.db.GetContext(ctx, &run, `
		SELECT id, created_at, dataset_size, dataset_hash, alpha
		FROM ab_test_runs
		WHERE id = $1
	`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}

	rows, err := r.metricRows(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	return run.ToReport(rows), nil
}

// List returns the most recent runs first
func (r *ReportRepositoryImpl) List(ctx context.Context, limit int) ([]*stats.PipelineReport, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []models.ABTestRun
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, created_at, dataset_size, dataset_hash, alpha
		FROM ab_test_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	reports := make([]*stats.PipelineReport, 0, len(runs))
	for _, run := range runs {
		rows, err := r.metricRows(ctx, run.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, run.ToReport(rows))
	}
	return reports, nil
}

func (r *ReportRepositoryImpl) metricRows(ctx context.Context, runID string) ([]models.ABTestMetricResult, error) {
	var rows []models.ABTestMetricResult
	err := r.db.SelectContext(ctx, &rows, `
		SELECT run_id, position, metric, test_kind, alternative, statistic,
			   p_value, decision, treatment, control, normality, compared, error
		FROM ab_test_metric_results
		WHERE run_id = $1
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load metric results for run %s: %w", runID, err)
	}
	return rows, nil
}
