// Package report renders pipeline runs as a markdown narrative and as HTML.
package report

import (
	"fmt"
	"math"
	"strings"

	"goabtest/domain/stats"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// NarratedLevels are the significance levels quoted in the normality diagnostics
var NarratedLevels = []float64{5, 2.5, 1}

var metricTitles = map[string]string{
	"converted":     "Conversion Rate",
	"most_ads_hour": "Most Ads Hour",
	"total_ads":     "Total Ads",
}

// Title returns the display title of a metric
func Title(metric string) string {
	if t, ok := metricTitles[metric]; ok {
		return t
	}
	return metric
}

// Markdown writes the decision narrative of a run
func Markdown(r *stats.PipelineReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# A/B Test Report\n\n")
	fmt.Fprintf(&b, "Run `%s` at %s over %d users, alpha = %s.\n\n",
		r.ID, r.CreatedAt.Format("2006-01-02 15:04:05 MST"), r.DatasetSize, formatFloat(r.Alpha))
	if !r.DatasetHash.IsEmpty() {
		fmt.Fprintf(&b, "Dataset fingerprint `%s`.\n\n", r.DatasetHash.Short())
	}
	fmt.Fprintf(&b, "Each test asks whether the first group named in H1 exceeds the second:\n")
	fmt.Fprintf(&b, "H0 is rejected when the p-value is below alpha.\n\n")

	for _, m := range r.Metrics {
		writeMetric(&b, m)
	}
	return b.String()
}

func writeMetric(b *strings.Builder, m stats.MetricReport) {
	first, second := m.Sides()
	fmt.Fprintf(b, "## %s\n\n", Title(m.Metric))
	fmt.Fprintf(b, "- H0: %s(%s) <= %s(%s)\n", m.Metric, first, m.Metric, second)
	fmt.Fprintf(b, "- H1: %s(%s) > %s(%s)\n\n", m.Metric, first, m.Metric, second)

	if !m.OK() {
		fmt.Fprintf(b, "*Not tested: %s*\n\n", m.Error)
	} else {
		res := m.Result
		b.WriteString("| Test | Statistic | p-value | Alpha | Decision |\n")
		b.WriteString("|---|---|---|---|---|\n")
		fmt.Fprintf(b, "| %s | %s | %s | %s | **%s** |\n\n",
			res.Test, formatFloat(res.Statistic), formatPValue(res.PValue), formatFloat(res.Alpha), res.Decision)
	}

	b.WriteString("| Group | Users | Figure |\n")
	b.WriteString("|---|---|---|\n")
	for _, s := range []stats.CohortSummary{m.Treatment, m.Control} {
		fmt.Fprintf(b, "| %s | %d | %s |\n", s.Group, s.Size, describeSummary(s))
	}
	b.WriteString("\n")

	for _, a := range m.Normality {
		fmt.Fprintf(b, "Normality of %s (Anderson-Darling A² = %s):\n\n", a.Cohort, formatFloat(a.Statistic))
		for _, pct := range NarratedLevels {
			if level, ok := a.At(pct); ok {
				fmt.Fprintf(b, "- %s at %s%% significance level\n", level.Verdict(), formatFloat(pct))
			}
		}
		b.WriteString("\n")
	}

	if m.OK() {
		fmt.Fprintf(b, "%s\n\n", Conclusion(m))
	}
}

// Conclusion states the decision for a tested metric in one sentence
func Conclusion(m stats.MetricReport) string {
	if m.Result == nil {
		return ""
	}
	first, second := m.Sides()
	if m.Result.Decision == stats.DecisionReject {
		return fmt.Sprintf("Reject H0: %s is higher in the %s group than in the %s group.",
			Title(m.Metric), first, second)
	}
	return fmt.Sprintf("Fail to reject H0: no evidence that %s is higher in the %s group than in the %s group.",
		Title(m.Metric), first, second)
}

func describeSummary(s stats.CohortSummary) string {
	var parts []string
	if s.Proportion != nil {
		parts = append(parts, fmt.Sprintf("conversion rate %.4f", *s.Proportion))
	}
	if s.Mean != nil {
		parts = append(parts, fmt.Sprintf("mean %.2f", *s.Mean))
	}
	if s.Median != nil {
		parts = append(parts, fmt.Sprintf("median %s", formatFloat(*s.Median)))
	}
	if s.Sum != nil {
		parts = append(parts, fmt.Sprintf("total %.0f", *s.Sum))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%.4g", v)
}

func formatPValue(p float64) string {
	if !math.IsNaN(p) && p > 0 && p < 1e-4 {
		return fmt.Sprintf("%.2e", p)
	}
	return formatFloat(p)
}

// HTML converts markdown into an HTML fragment
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(md))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.Render(doc, renderer)
}

// RenderHTML renders a run as an HTML fragment
func RenderHTML(r *stats.PipelineReport) []byte {
	return HTML(Markdown(r))
}
