package dataset

import "slices"

// Metric names the per-user measures compared between cohorts
type Metric string

const (
	MetricConverted   Metric = ColumnConverted
	MetricTotalAds    Metric = ColumnTotalAds
	MetricMostAdsHour Metric = ColumnMostAdsHour
)

// Cohort is the subset of observations sharing one categorical label
type Cohort struct {
	Name         string
	observations []Observation
}

// NewCohort copies the observations into a named cohort
func NewCohort(name string, observations []Observation) Cohort {
	return Cohort{Name: name, observations: slices.Clone(observations)}
}

// Size returns the number of users in the cohort
func (c Cohort) Size() int {
	return len(c.observations)
}

// Observations returns a copy of the cohort's rows
func (c Cohort) Observations() []Observation {
	return slices.Clone(c.observations)
}

// Sample extracts the metric vector; converted is encoded as 0/1.
func (c Cohort) Sample(metric Metric) []float64 {
	out := make([]float64, len(c.observations))
	for i, obs := range c.observations {
		switch metric {
		case MetricConverted:
			if obs.Converted {
				out[i] = 1
			}
		case MetricTotalAds:
			out[i] = float64(obs.TotalAds)
		case MetricMostAdsHour:
			out[i] = float64(obs.MostAdsHour)
		}
	}
	return out
}

// Conversions counts converted users
func (c Cohort) Conversions() int {
	n := 0
	for _, obs := range c.observations {
		if obs.Converted {
			n++
		}
	}
	return n
}
