package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"goabtest/domain/core"
	"goabtest/domain/stats"
)

// JSONB stores any JSON-serialisable value in a PostgreSQL JSONB column
type JSONB[T any] struct {
	Data T
}

// Value implements driver.Valuer interface
func (j JSONB[T]) Value() (driver.Value, error) {
	return json.Marshal(j.Data)
}

// Scan implements sql.Scanner interface
func (j *JSONB[T]) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONB source %T", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, &j.Data)
}

// ABTestRun is one row of ab_test_runs
type ABTestRun struct {
	ID          string    `db:"id"`
	CreatedAt   time.Time `db:"created_at"`
	DatasetSize int       `db:"dataset_size"`
	DatasetHash string    `db:"dataset_hash"`
	Alpha       float64   `db:"alpha"`
}

// ABTestMetricResult is one row of ab_test_metric_results
type ABTestMetricResult struct {
	RunID       string                             `db:"run_id"`
	Position    int                                `db:"position"`
	Metric      string                             `db:"metric"`
	TestKind    *string                            `db:"test_kind"`
	Alternative *string                            `db:"alternative"`
	Statistic   *float64                           `db:"statistic"`
	PValue      *float64                           `db:"p_value"`
	Decision    *string                            `db:"decision"`
	Treatment   JSONB[stats.CohortSummary]         `db:"treatment"`
	Control     JSONB[stats.CohortSummary]         `db:"control"`
	Normality   JSONB[[]stats.NormalityAssessment] `db:"normality"`
	Compared    JSONB[[]string]                    `db:"compared"`
	Error       string                             `db:"error"`
}

// NewABTestRows flattens a pipeline report into its table rows
func NewABTestRows(report *stats.PipelineReport) (ABTestRun, []ABTestMetricResult) {
	run := ABTestRun{
		ID:          report.ID.String(),
		CreatedAt:   report.CreatedAt,
		DatasetSize: report.DatasetSize,
		DatasetHash: report.DatasetHash.String(),
		Alpha:       report.Alpha,
	}

	rows := make([]ABTestMetricResult, 0, len(report.Metrics))
	for i, m := range report.Metrics {
		row := ABTestMetricResult{
			RunID:     run.ID,
			Position:  i,
			Metric:    m.Metric,
			Treatment: JSONB[stats.CohortSummary]{Data: m.Treatment},
			Control:   JSONB[stats.CohortSummary]{Data: m.Control},
			Normality: JSONB[[]stats.NormalityAssessment]{Data: m.Normality},
			Compared:  JSONB[[]string]{Data: m.Compared},
			Error:     m.Error,
		}
		if r := m.Result; r != nil {
			kind, alt, decision := string(r.Test), string(r.Alternative), string(r.Decision)
			statistic, p := r.Statistic, r.PValue
			row.TestKind, row.Alternative, row.Decision = &kind, &alt, &decision
			row.Statistic, row.PValue = &statistic, &p
		}
		rows = append(rows, row)
	}
	return run, rows
}

// ToReport rebuilds the pipeline report from stored rows, which must be ordered by position
func (r ABTestRun) ToReport(rows []ABTestMetricResult) *stats.PipelineReport {
	report := &stats.PipelineReport{
		ID:          core.RunID(r.ID),
		CreatedAt:   r.CreatedAt,
		DatasetSize: r.DatasetSize,
		DatasetHash: core.Hash(r.DatasetHash),
		Alpha:       r.Alpha,
		Metrics:     make([]stats.MetricReport, 0, len(rows)),
	}
	for _, row := range rows {
		m := stats.MetricReport{
			Metric:    row.Metric,
			Treatment: row.Treatment.Data,
			Control:   row.Control.Data,
			Normality: row.Normality.Data,
			Compared:  row.Compared.Data,
			Error:     row.Error,
		}
		if row.TestKind != nil && row.Statistic != nil && row.PValue != nil {
			result := stats.TestResult{
				Test:        stats.TestType(*row.TestKind),
				Statistic:   *row.Statistic,
				PValue:      *row.PValue,
				Alternative: stats.Alternative(deref(row.Alternative)),
				Alpha:       r.Alpha,
				Decision:    stats.Decision(deref(row.Decision)),
			}
			m.Result = &result
		}
		report.Metrics = append(report.Metrics, m)
	}
	return report
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
