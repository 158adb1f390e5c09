package excel

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"goabtest/domain/stats"
)

const (
	summarySheet   = "Summary"
	normalitySheet = "Normality"
)

// WriteReport exports a pipeline run as an .xlsx workbook with one row per
// metric and one row per normality level.
func WriteReport(w io.Writer, report *stats.PipelineReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(normalitySheet); err != nil {
		return fmt.Errorf("failed to create normality sheet: %w", err)
	}

	summary := [][]interface{}{
		{"run_id", "metric", "test", "alternative", "statistic", "p_value", "alpha", "decision",
			"treatment_size", "control_size", "treatment_value", "control_value", "treatment_sum", "control_sum", "error"},
	}
	normality := [][]interface{}{
		{"metric", "cohort", "statistic", "significance_pct", "critical_value", "verdict"},
	}

	for _, m := range report.Metrics {
		row := []interface{}{report.ID.String(), m.Metric}
		if m.Result != nil {
			row = append(row, string(m.Result.Test), string(m.Result.Alternative), cellFloat(m.Result.Statistic),
				cellFloat(m.Result.PValue), m.Result.Alpha, string(m.Result.Decision))
		} else {
			row = append(row, "", "", "", "", report.Alpha, "")
		}
		row = append(row, m.Treatment.Size, m.Control.Size,
			headlineValue(m.Treatment), headlineValue(m.Control),
			optional(m.Treatment.Sum), optional(m.Control.Sum), m.Error)
		summary = append(summary, row)

		for _, a := range m.Normality {
			for _, level := range a.Levels {
				normality = append(normality, []interface{}{
					m.Metric, a.Cohort, cellFloat(a.Statistic), level.SignificancePct, level.CriticalValue, level.Verdict(),
				})
			}
		}
	}

	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}
	if err := writeRows(f, normalitySheet, normality); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// headlineValue is the proportion for conversion and the mean otherwise
func headlineValue(s stats.CohortSummary) interface{} {
	if s.Proportion != nil {
		return *s.Proportion
	}
	return optional(s.Mean)
}

func optional(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return cellFloat(*v)
}

// cellFloat writes non-finite values as text; a numeric NaN cell corrupts the sheet
func cellFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return v
}
