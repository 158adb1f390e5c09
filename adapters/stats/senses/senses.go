package senses

import (
	"context"

	"goabtest/domain/stats"
	"goabtest/internal/analysis/brief"
)

// ComparisonSense compares a treatment sample against a control sample
type ComparisonSense interface {
	Name() stats.TestType
	Description() string
	Compare(ctx context.Context, treatment, control []float64, alternative stats.Alternative) (stats.TestResult, error)
}

// NormalitySense assesses how well one sample is approximated by a normal distribution
type NormalitySense interface {
	Name() stats.TestType
	Assess(ctx context.Context, cohort string, sample []float64) (stats.NormalityAssessment, error)
}

var distributions = brief.NewDistributions()

// sampleLabel names the positional sample in error messages
func sampleLabel(i int) string {
	if i == 0 {
		return "first"
	}
	return "second"
}
