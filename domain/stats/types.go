package stats

import (
	"time"

	"goabtest/domain/core"
)

// DefaultAlpha is the significance level used for every decision
const DefaultAlpha = 0.05

// TestType defines the statistical test performed
type TestType string

const (
	TestProportionsZ TestType = "two_proportion_ztest" // Pooled two-proportion z-test
	TestMannWhitney  TestType = "mann_whitney_u"       // Mann-Whitney U rank test
	TestAnderson     TestType = "anderson_darling"     // Anderson-Darling normality test
)

// Alternative is the direction of the alternative hypothesis, first sample versus second
type Alternative string

const (
	AlternativeTwoSided Alternative = "two-sided"
	AlternativeGreater  Alternative = "greater"
	AlternativeLess     Alternative = "less"
)

// Decision is the outcome of comparing a p-value against alpha
type Decision string

const (
	DecisionReject       Decision = "reject H0"
	DecisionFailToReject Decision = "fail to reject H0"
)

// Decide rejects H0 only when p is strictly below alpha. NaN never rejects.
func Decide(pValue, alpha float64) Decision {
	if pValue < alpha {
		return DecisionReject
	}
	return DecisionFailToReject
}

// TestResult is the immutable outcome of one test on one cohort pair
type TestResult struct {
	Test        TestType    `json:"test"`
	Statistic   float64     `json:"statistic"`
	PValue      float64     `json:"p_value"`
	Alternative Alternative `json:"alternative"`
	Alpha       float64     `json:"alpha"`
	Decision    Decision    `json:"decision"`
}

// NewTestResult builds a result and derives its decision
func NewTestResult(test TestType, statistic, pValue float64, alternative Alternative, alpha float64) TestResult {
	return TestResult{
		Test:        test,
		Statistic:   statistic,
		PValue:      pValue,
		Alternative: alternative,
		Alpha:       alpha,
		Decision:    Decide(pValue, alpha),
	}
}

// NormalityLevel is the verdict at one significance level of the normality test
type NormalityLevel struct {
	SignificancePct float64 `json:"significance_pct"`
	CriticalValue   float64 `json:"critical_value"`
	RejectsNormal   bool    `json:"rejects_normal"`
}

// Verdict renders the level outcome as prose
func (l NormalityLevel) Verdict() string {
	if l.RejectsNormal {
		return "rejects normality"
	}
	return "fails to reject normality"
}

// NormalityAssessment is the Anderson-Darling outcome for one sample
type NormalityAssessment struct {
	Cohort    string           `json:"cohort"`
	Statistic float64          `json:"statistic"`
	Levels    []NormalityLevel `json:"levels"`
}

// At returns the verdict at the given significance percentage
func (a NormalityAssessment) At(significancePct float64) (NormalityLevel, bool) {
	for _, level := range a.Levels {
		if level.SignificancePct == significancePct {
			return level, true
		}
	}
	return NormalityLevel{}, false
}

// CohortSummary holds the descriptive figures used to narrate a decision.
// Proportion is set for the conversion metric, Mean for continuous metrics,
// Sum for count metrics.
type CohortSummary struct {
	Group      string   `json:"group"`
	Size       int      `json:"size"`
	Proportion *float64 `json:"proportion,omitempty"`
	Mean       *float64 `json:"mean,omitempty"`
	Median     *float64 `json:"median,omitempty"`
	Sum        *float64 `json:"sum,omitempty"`
}

// MetricReport is the per-metric contract surface consumed by presentation layers
type MetricReport struct {
	Metric    string                `json:"metric"`
	Result    *TestResult           `json:"result,omitempty"`
	Treatment CohortSummary         `json:"treatment"`
	Control   CohortSummary         `json:"control"`
	Normality []NormalityAssessment `json:"normality,omitempty"`
	Error     string                `json:"error,omitempty"`
	// Compared lists the cohorts in the order they were handed to the
	// test. The alternative is stated for the first against the second.
	Compared []string `json:"compared,omitempty"`
}

// Sides returns the cohort the alternative favours and the one it is compared to
func (m MetricReport) Sides() (first, second string) {
	if len(m.Compared) == 2 {
		return m.Compared[0], m.Compared[1]
	}
	return m.Treatment.Group, m.Control.Group
}

// OK reports whether the metric produced a test result
func (m MetricReport) OK() bool {
	return m.Result != nil && m.Error == ""
}

// PipelineReport collects the metric reports of one pipeline run
type PipelineReport struct {
	ID          core.RunID     `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	DatasetSize int            `json:"dataset_size"`
	DatasetHash core.Hash      `json:"dataset_hash"`
	Alpha       float64        `json:"alpha"`
	Metrics     []MetricReport `json:"metrics"`
}

// Metric finds a metric report by name
func (r *PipelineReport) Metric(name string) (MetricReport, bool) {
	for _, m := range r.Metrics {
		if m.Metric == name {
			return m, true
		}
	}
	return MetricReport{}, false
}
