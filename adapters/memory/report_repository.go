package memory

import (
	"context"
	"sync"

	"goabtest/domain/core"
	"goabtest/domain/stats"
	"goabtest/ports"
)

// ReportRepository keeps pipeline runs in process memory
type ReportRepository struct {
	mu      sync.RWMutex
	reports []*stats.PipelineReport
	byID    map[core.RunID]*stats.PipelineReport
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository creates an empty in-memory repository
func NewReportRepository() *ReportRepository {
	return &ReportRepository{byID: make(map[core.RunID]*stats.PipelineReport)}
}

// Save stores the run, replacing an earlier run with the same ID
func (r *ReportRepository) Save(ctx context.Context, report *stats.PipelineReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[report.ID]; exists {
		for i, existing := range r.reports {
			if existing.ID == report.ID {
				r.reports = append(r.reports[:i], r.reports[i+1:]...)
				break
			}
		}
	}
	r.reports = append(r.reports, report)
	r.byID[report.ID] = report
	return nil
}

// Get returns the stored run
func (r *ReportRepository) Get(ctx context.Context, id core.RunID) (*stats.PipelineReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, ok := r.byID[id]
	if !ok {
		return nil, core.ErrRunNotFound
	}
	return report, nil
}

// List returns up to limit runs, newest first. A non-positive limit returns all runs.
func (r *ReportRepository) List(ctx context.Context, limit int) ([]*stats.PipelineReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.reports)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*stats.PipelineReport, 0, n)
	for i := len(r.reports) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.reports[i])
	}
	return out, nil
}
