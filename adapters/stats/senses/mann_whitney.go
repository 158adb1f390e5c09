package senses

import (
	"context"
	"math"
	"sort"

	"goabtest/domain/core"
	"goabtest/domain/stats"

	moremath "github.com/aclements/go-moremath/stats"
)

// exactSizeLimit is the sample size at or below which the exact null
// distribution is used, provided there are no ties.
const exactSizeLimit = 8

// exactCellLimit bounds n1*n2 on the exact path. Building the null
// distribution grows with (n1*n2)^2 and is close to normal long before this.
var exactCellLimit = exactSizeLimit * moremath.MannWhitneyExactLimit

// MannWhitneyResult holds the U statistic of the first sample and its p-value
type MannWhitneyResult struct {
	U      float64
	PValue float64
	Exact  bool
}

// MannWhitneyU compares x against y with the Mann-Whitney U rank test.
// Both samples need at least two values.
func MannWhitneyU(x, y []float64, alternative stats.Alternative) (MannWhitneyResult, error) {
	for i, sample := range [][]float64{x, y} {
		if len(sample) < 2 {
			return MannWhitneyResult{}, core.NewInsufficientDataError(string(stats.TestMannWhitney), sampleLabel(i), len(sample), 2)
		}
	}

	n1, n2 := len(x), len(y)
	ranks, tieCounts := rankData(append(append(make([]float64, 0, n1+n2), x...), y...))

	r1 := 0.0
	for _, r := range ranks[:n1] {
		r1 += r
	}
	u1 := r1 - float64(n1*(n1+1))/2
	u2 := float64(n1*n2) - u1

	var u, factor float64
	switch alternative {
	case stats.AlternativeGreater:
		u, factor = u1, 1
	case stats.AlternativeLess:
		u, factor = u2, 1
	default:
		u, factor = math.Max(u1, u2), 2
	}

	exact := len(tieCounts) == 0 &&
		(n1 <= exactSizeLimit || n2 <= exactSizeLimit) &&
		n1*n2 <= exactCellLimit

	var p float64
	if exact {
		p = exactUpperTail(u, n1, n2)
	} else {
		p = distributions.NormalSurvival(mannWhitneyZ(u, n1, n2, tieCounts))
	}
	p *= factor
	if p > 1 {
		p = 1
	}

	return MannWhitneyResult{U: u1, PValue: p, Exact: exact}, nil
}

// mannWhitneyZ is the tie- and continuity-corrected normal score of u
func mannWhitneyZ(u float64, n1, n2 int, tieCounts []int) float64 {
	fn1, fn2 := float64(n1), float64(n2)
	n := fn1 + fn2
	mu := fn1 * fn2 / 2

	tieTerm := 0.0
	for _, t := range tieCounts {
		ft := float64(t)
		tieTerm += ft*ft*ft - ft
	}
	sigma := math.Sqrt(fn1 * fn2 / 12 * ((n + 1) - tieTerm/(n*(n-1))))

	// A constant pooled sample has sigma 0; the resulting Inf/NaN propagates.
	return (u - mu - 0.5) / sigma
}

// rankData assigns average ranks (1-based) and returns the sizes of every tie group
func rankData(values []float64) ([]float64, []int) {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

	ranks := make([]float64, len(values))
	var ties []int
	for i := 0; i < len(order); {
		j := i + 1
		for j < len(order) && values[order[j]] == values[order[i]] {
			j++
		}
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		if j-i > 1 {
			ties = append(ties, j-i)
		}
		i = j
	}
	return ranks, ties
}

// exactUpperTail returns P(U >= u) under the null for untied samples of
// sizes n1 and n2. The distribution is symmetric, so this is P(U <= n1*n2 - u).
func exactUpperTail(u float64, n1, n2 int) float64 {
	dist := moremath.UDist{N1: n1, N2: n2}
	return dist.CDF(float64(n1*n2) - u)
}

// MannWhitneySense is the rank-based comparison used for continuous metrics
type MannWhitneySense struct {
	alpha float64
}

// NewMannWhitneySense creates a Mann-Whitney U sense
func NewMannWhitneySense(alpha float64) *MannWhitneySense {
	return &MannWhitneySense{alpha: alpha}
}

// Name returns the sense name
func (s *MannWhitneySense) Name() stats.TestType {
	return stats.TestMannWhitney
}

// Description returns a human-readable description
func (s *MannWhitneySense) Description() string {
	return "Compares the distributions of two independent samples by ranks without assuming normality"
}

// Compare runs the rank test of treatment against control
func (s *MannWhitneySense) Compare(ctx context.Context, treatment, control []float64, alternative stats.Alternative) (stats.TestResult, error) {
	if err := ctx.Err(); err != nil {
		return stats.TestResult{}, err
	}

	res, err := MannWhitneyU(treatment, control, alternative)
	if err != nil {
		return stats.TestResult{}, err
	}
	return stats.NewTestResult(s.Name(), res.U, res.PValue, alternative, s.alpha), nil
}
