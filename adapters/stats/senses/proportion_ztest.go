package senses

import (
	"context"
	"fmt"
	"math"

	"goabtest/domain/core"
	"goabtest/domain/stats"
)

// ProportionsZTest runs the pooled two-proportion z-test of counts[0]/nobs[0]
// against counts[1]/nobs[1]. It returns the z statistic and the p-value for
// the alternative. A zero-size sample is an InsufficientDataError.
func ProportionsZTest(counts, nobs [2]int, alternative stats.Alternative) (z, pValue float64, err error) {
	for i := range nobs {
		if nobs[i] == 0 {
			return 0, 0, core.NewInsufficientDataError(string(stats.TestProportionsZ), sampleLabel(i), nobs[i], 1)
		}
		if nobs[i] < 0 || counts[i] < 0 || counts[i] > nobs[i] {
			return 0, 0, fmt.Errorf("invalid proportion input: count %d of %d", counts[i], nobs[i])
		}
	}

	n1, n2 := float64(nobs[0]), float64(nobs[1])
	p1 := float64(counts[0]) / n1
	p2 := float64(counts[1]) / n2
	pooled := float64(counts[0]+counts[1]) / (n1 + n2)

	// pooled of 0 or 1 yields a zero standard error; the NaN/Inf is kept.
	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
	z = (p1 - p2) / se

	return z, distributions.ZPValue(z, alternative), nil
}

// ProportionZTestSense compares conversion samples encoded as 0/1
type ProportionZTestSense struct {
	alpha float64
}

// NewProportionZTestSense creates a two-proportion z-test sense
func NewProportionZTestSense(alpha float64) *ProportionZTestSense {
	return &ProportionZTestSense{alpha: alpha}
}

// Name returns the sense name
func (s *ProportionZTestSense) Name() stats.TestType {
	return stats.TestProportionsZ
}

// Description returns a human-readable description
func (s *ProportionZTestSense) Description() string {
	return "Compares success proportions of two independent samples with a pooled z-test"
}

// Compare counts non-zero values as successes
func (s *ProportionZTestSense) Compare(ctx context.Context, treatment, control []float64, alternative stats.Alternative) (stats.TestResult, error) {
	if err := ctx.Err(); err != nil {
		return stats.TestResult{}, err
	}

	counts := [2]int{countSuccesses(treatment), countSuccesses(control)}
	nobs := [2]int{len(treatment), len(control)}

	z, p, err := ProportionsZTest(counts, nobs, alternative)
	if err != nil {
		return stats.TestResult{}, err
	}
	return stats.NewTestResult(s.Name(), z, p, alternative, s.alpha), nil
}

func countSuccesses(sample []float64) int {
	n := 0
	for _, v := range sample {
		if v != 0 {
			n++
		}
	}
	return n
}
