package brief

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"goabtest/domain/stats"
)

func TestZPValue(t *testing.T) {
	sd := NewDistributions()

	assert.InDelta(t, 0.5, sd.ZPValue(0, stats.AlternativeGreater), 1e-12)
	assert.InDelta(t, 0.025, sd.ZPValue(1.959963984540054, stats.AlternativeGreater), 1e-9)
	assert.InDelta(t, 0.025, sd.ZPValue(-1.959963984540054, stats.AlternativeLess), 1e-9)
	assert.InDelta(t, 0.05, sd.ZPValue(-1.959963984540054, stats.AlternativeTwoSided), 1e-9)
	assert.Equal(t, 1.0, sd.ZPValue(0, stats.AlternativeTwoSided))
	assert.True(t, math.IsNaN(sd.ZPValue(math.NaN(), stats.AlternativeGreater)))
}

func TestNormalQuantileInvertsCDF(t *testing.T) {
	sd := NewDistributions()
	for _, x := range []float64{-2.5, -1, 0, 0.3, 1.7} {
		assert.InDelta(t, x, sd.NormalQuantile(sd.NormalCDF(x)), 1e-9)
	}
}

func TestNormalSurvivalKeepsUpperTail(t *testing.T) {
	sd := NewDistributions()

	assert.InEpsilon(t, 1.1285884059538422e-19, sd.NormalSurvival(9), 1e-9)
	assert.Greater(t, sd.NormalSurvival(31), 0.0)
}

func TestLogNormalTails(t *testing.T) {
	sd := NewDistributions()

	assert.InDelta(t, math.Log(0.5), sd.LogNormalCDF(0), 1e-15)
	assert.InDelta(t, math.Log(sd.NormalCDF(-3)), sd.LogNormalCDF(-3), 1e-12)
	assert.InDelta(t, math.Log(sd.NormalCDF(2)), sd.LogNormalCDF(2), 1e-12)

	// The expansion below the cutoff meets the CDF above it
	assert.InDelta(t, -689.0305855768905, sd.LogNormalCDF(-37), 1e-9)
	assert.InDelta(t, sd.LogNormalCDF(-37), sd.LogNormalCDF(-37.000000001), 1e-6)

	lsf := sd.LogNormalSurvival(40)
	assert.False(t, math.IsInf(lsf, 0))
	assert.InDelta(t, -804.6084420137537, lsf, 1e-9)

	assert.True(t, math.IsNaN(sd.LogNormalCDF(math.NaN())))
}
