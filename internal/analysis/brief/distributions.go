package brief

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"goabtest/domain/stats"
)

// StatisticalDistributions provides unified access to the reference distributions
// used by the hypothesis tests
type StatisticalDistributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *StatisticalDistributions {
	return &StatisticalDistributions{}
}

// NormalCDF computes cumulative distribution function for standard normal
func (sd *StatisticalDistributions) NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalSurvival computes 1 - CDF for standard normal. distuv's Survival
// subtracts from one and reaches zero near x = 8.3, so the mirrored CDF is used.
func (sd *StatisticalDistributions) NormalSurvival(x float64) float64 {
	return distuv.UnitNormal.CDF(-x)
}

// logTailCutoff is where the lower tail leaves the normal float64 range
const logTailCutoff = -37

// LogNormalCDF computes log(CDF(x)) for standard normal. Below the cutoff the
// asymptotic expansion of Mills' ratio replaces the underflowing CDF.
func (sd *StatisticalDistributions) LogNormalCDF(x float64) float64 {
	switch {
	case x < logTailCutoff:
		x2 := x * x
		series := 1 - 1/x2 + 3/(x2*x2) - 15/(x2*x2*x2) + 105/(x2*x2*x2*x2)
		return -x2/2 - math.Log(-x) - 0.5*math.Log(2*math.Pi) + math.Log(series)
	case x > 0:
		return math.Log1p(-sd.NormalSurvival(x))
	default:
		return math.Log(sd.NormalCDF(x))
	}
}

// LogNormalSurvival computes log(1 - CDF(x)) for standard normal
func (sd *StatisticalDistributions) LogNormalSurvival(x float64) float64 {
	return sd.LogNormalCDF(-x)
}

// NormalQuantile computes quantile function for standard normal (inverse CDF)
func (sd *StatisticalDistributions) NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// ZPValue converts a standard normal score to a p-value for the alternative.
// NaN scores propagate.
func (sd *StatisticalDistributions) ZPValue(z float64, alternative stats.Alternative) float64 {
	switch alternative {
	case stats.AlternativeGreater:
		return sd.NormalSurvival(z)
	case stats.AlternativeLess:
		return sd.NormalCDF(z)
	default:
		return math.Min(1, 2*sd.NormalSurvival(math.Abs(z)))
	}
}
