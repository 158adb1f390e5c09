package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goabtest/domain/dataset"
)

func obs(group string, converted bool, totalAds int, day string, hour int) dataset.Observation {
	return dataset.Observation{TestGroup: group, Converted: converted, TotalAds: totalAds, MostAdsDay: day, MostAdsHour: hour}
}

func dashboardDataset() *dataset.Dataset {
	return dataset.New(allColumns, []dataset.Observation{
		obs("psa", true, 5, "Friday", 14),
		obs("ad", false, 3, "Monday", 20),
		obs("ad", true, 5, "Monday", 20),
		obs("ad", false, 7, "Friday", 9),
		obs("psa", false, 3, "Sunday", 9),
		obs("ad", false, 5, "Monday", 14),
	})
}

func TestConversionByGroup(t *testing.T) {
	rates := ConversionByGroup(dashboardDataset())
	require.Len(t, rates, 2)

	assert.Equal(t, "ad", rates[0].Group)
	assert.Equal(t, 4, rates[0].Users)
	assert.Equal(t, 1, rates[0].Conversions)
	assert.InDelta(t, 0.25, rates[0].Rate, 1e-12)

	assert.Equal(t, "psa", rates[1].Group)
	assert.InDelta(t, 0.5, rates[1].Rate, 1e-12)

	assert.Empty(t, ConversionByGroup(dataset.New(allColumns, nil)))
}

func TestTopTotalAds(t *testing.T) {
	ds := dashboardDataset()

	all := TopTotalAds(ds, 20)
	assert.Equal(t, []ValueCount{{3, 2}, {5, 3}, {7, 1}}, all)

	// keeps the two most frequent values, still ordered by value
	top := TopTotalAds(ds, 2)
	assert.Equal(t, []ValueCount{{3, 2}, {5, 3}}, top)
}

func TestExposureByDayReindexesWeek(t *testing.T) {
	days := ExposureByDay(dashboardDataset())
	require.Len(t, days, 7)

	assert.Equal(t, DayExposure{Day: "Monday", Users: 3}, days[0])
	assert.Equal(t, DayExposure{Day: "Tuesday", Users: 0}, days[1])
	assert.Equal(t, DayExposure{Day: "Friday", Users: 2}, days[4])
	assert.Equal(t, DayExposure{Day: "Sunday", Users: 1}, days[6])
}

func TestExposureByHour(t *testing.T) {
	hours := ExposureByHour(dashboardDataset())
	assert.Equal(t, []HourExposure{{9, 2}, {14, 2}, {20, 2}}, hours)
}

func TestInsight(t *testing.T) {
	insight, ok := Insight(dashboardDataset())
	require.True(t, ok)
	assert.Equal(t, "Monday", insight.PeakDay)
	assert.Equal(t, 3, insight.PeakDayUsers)
	// ties resolve to the first hour in order
	assert.Equal(t, 9, insight.PeakHour)

	_, ok = Insight(dataset.New(allColumns, nil))
	assert.False(t, ok)
}

func TestAggregatesRespectGroupFilter(t *testing.T) {
	psa := dashboardDataset().FilterGroups("psa")
	rates := ConversionByGroup(psa)
	require.Len(t, rates, 1)
	assert.Equal(t, "psa", rates[0].Group)

	days := ExposureByDay(psa)
	assert.Equal(t, 0, days[0].Users)
}
