package excel

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"goabtest/domain/core"
	"goabtest/domain/stats"
)

const sampleCSV = `,user id,test group,converted,total ads,most ads day,most ads hour
0,1069124,ad,False,130,Monday,20
1,1119715,ad,False,93,Tuesday,22
2,1144181,psa, True ,21,Tuesday,18
`

func TestReadCSV(t *testing.T) {
	data, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"", "user id", "test group", "converted", "total ads", "most ads day", "most ads hour"}, data.Headers)
	require.Len(t, data.Records, 3)
	assert.Equal(t, "True", data.Records[2][3])
	assert.Equal(t, "psa", data.Row(2)["test group"])
}

func TestReadCSVRaggedRows(t *testing.T) {
	data, err := ReadCSV(strings.NewReader("a,b,c\n1,2\n4,5,6,7\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", ""}, data.Records[0])
	assert.Equal(t, []string{"4", "5", "6"}, data.Records[1])
}

func TestReadCSVRequiresHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestDataReaderMissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "missing.csv")).ReadData()
	assert.Error(t, err)
}

func TestDataReaderReadsCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketing_AB.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	data, err := NewDataReader(path).ReadData()
	require.NoError(t, err)
	assert.Len(t, data.Records, 3)
}

func TestDataReaderReadsFirstWorksheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketing_AB.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "marketing"))
	rows := [][]interface{}{
		{"user id", "test group", "converted", "total ads", "most ads day", "most ads hour"},
		{"1069124", "ad", "False", 130, "Monday", 20},
		{"1144181", "psa", "True", 21, "Tuesday", 18},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("marketing", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	data, err := NewDataReader(path).ReadData()
	require.NoError(t, err)

	assert.Equal(t, "most ads hour", data.Headers[5])
	require.Len(t, data.Records, 2)
	assert.Equal(t, []string{"1144181", "psa", "True", "21", "Tuesday", "18"}, data.Records[1])
}

func TestWriteReport(t *testing.T) {
	prop, mean, sum := 0.017, 24.8, 14014701.0
	report := &stats.PipelineReport{
		ID:    core.NewRunID(),
		Alpha: stats.DefaultAlpha,
		Metrics: []stats.MetricReport{
			{
				Metric:    "converted",
				Result:    &stats.TestResult{Test: stats.TestProportionsZ, Statistic: -0.70, PValue: 0.76, Alternative: stats.AlternativeGreater, Alpha: 0.05, Decision: stats.DecisionFailToReject},
				Treatment: stats.CohortSummary{Group: "ad", Size: 2000, Proportion: &prop},
				Control:   stats.CohortSummary{Group: "psa", Size: 2000, Proportion: &prop},
			},
			{
				Metric:    "total_ads",
				Treatment: stats.CohortSummary{Group: "ad", Size: 1, Mean: &mean, Sum: &sum},
				Control:   stats.CohortSummary{Group: "psa", Size: 0},
				Normality: []stats.NormalityAssessment{{Cohort: "ad", Statistic: 3.2, Levels: []stats.NormalityLevel{{SignificancePct: 5, CriticalValue: 0.787, RejectsNormal: true}}}},
				Error:     "insufficient data",
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "metric", summary[0][1])
	assert.Equal(t, "converted", summary[1][1])
	assert.Equal(t, "fail to reject H0", summary[1][7])
	assert.Equal(t, "insufficient data", summary[2][len(summary[2])-1])

	normality, err := f.GetRows(normalitySheet)
	require.NoError(t, err)
	require.Len(t, normality, 2)
	assert.Equal(t, "rejects normality", normality[1][5])
}
