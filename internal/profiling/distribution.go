package profiling

import (
	"math"

	"github.com/montanaflynn/stats"

	"goabtest/domain/dataset"
	domainstats "goabtest/domain/stats"
)

// SummaryStats contains basic descriptive statistics of one numeric column
type SummaryStats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Q25      float64 `json:"q25"`
	Median   float64 `json:"median"`
	Q75      float64 `json:"q75"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
}

// DistributionAnalyzer computes the descriptive figures behind the decision narrative
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// Describe summarises a numeric sample
func (da *DistributionAnalyzer) Describe(data []float64) (SummaryStats, error) {
	summary := SummaryStats{Count: len(data)}

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, err
	}

	stdDev, err := stats.StandardDeviationSample(data)
	if err != nil {
		return summary, err
	}

	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}

	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	q25, err := stats.Percentile(data, 25)
	if err != nil {
		return summary, err
	}

	q75, err := stats.Percentile(data, 75)
	if err != nil {
		return summary, err
	}

	summary.Mean = mean
	summary.StdDev = stdDev
	summary.Min = min
	summary.Max = max
	summary.Median = median
	summary.Q25 = q25
	summary.Q75 = q75
	summary.Skewness = calculateSkewness(data, mean, stdDev)

	return summary, nil
}

// SummarizeCohort builds the cohort figures for a metric: proportion for
// conversion, mean and median for continuous metrics, plus the sum for
// total_ads. An empty cohort only carries its name and size.
func (da *DistributionAnalyzer) SummarizeCohort(metric dataset.Metric, cohort dataset.Cohort) domainstats.CohortSummary {
	summary := domainstats.CohortSummary{Group: cohort.Name, Size: cohort.Size()}
	sample := cohort.Sample(metric)
	if len(sample) == 0 {
		return summary
	}

	mean, err := stats.Mean(sample)
	if err != nil {
		return summary
	}

	if metric == dataset.MetricConverted {
		summary.Proportion = &mean
		return summary
	}
	summary.Mean = &mean

	if median, err := stats.Median(sample); err == nil {
		summary.Median = &median
	}

	if metric == dataset.MetricTotalAds {
		if sum, err := stats.Sum(sample); err == nil {
			summary.Sum = &sum
		}
	}
	return summary
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0

	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	skewness *= math.Sqrt(n*(n-1)) / (n - 2)

	return skewness
}
