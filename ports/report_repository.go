package ports

import (
	"context"

	"goabtest/domain/core"
	"goabtest/domain/stats"
)

// ReportRepository stores pipeline runs
type ReportRepository interface {
	// Save persists a complete run
	Save(ctx context.Context, report *stats.PipelineReport) error

	// Get loads a run; a missing run is core.ErrRunNotFound
	Get(ctx context.Context, id core.RunID) (*stats.PipelineReport, error)

	// List returns the most recent runs first
	List(ctx context.Context, limit int) ([]*stats.PipelineReport, error)
}
