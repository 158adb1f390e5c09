package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunnerStatementsCreateReportTables(t *testing.T) {
	runner := NewRunner()
	assert.Equal(t, "1.0.0", runner.Version())

	statements := runner.Statements()
	if assert.Len(t, statements, 2) {
		assert.Contains(t, statements[0], "ab_test_runs")
		assert.Contains(t, statements[1], "ab_test_metric_results")
		assert.True(t, strings.Contains(statements[1], "REFERENCES ab_test_runs(id)"))
		assert.Contains(t, statements[1], "compared JSONB")
	}
}
