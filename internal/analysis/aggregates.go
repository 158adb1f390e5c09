package analysis

import (
	"sort"

	"goabtest/domain/dataset"
)

// GroupConversion is the conversion rate of one test group
type GroupConversion struct {
	Group       string  `json:"test_group"`
	Users       int     `json:"users"`
	Conversions int     `json:"conversions"`
	Rate        float64 `json:"converted"`
}

// ValueCount is how many users share one total_ads value
type ValueCount struct {
	Value int `json:"total_ads"`
	Count int `json:"count"`
}

// DayExposure counts users whose most ads fell on a weekday
type DayExposure struct {
	Day   string `json:"day"`
	Users int    `json:"users"`
}

// HourExposure counts users whose most ads fell in an hour
type HourExposure struct {
	Hour  int `json:"hour"`
	Users int `json:"users"`
}

// ExposureInsight names the peak day and hour of ad exposure
type ExposureInsight struct {
	PeakDay       string `json:"peak_day"`
	PeakDayUsers  int    `json:"peak_day_users"`
	PeakHour      int    `json:"peak_hour"`
	PeakHourUsers int    `json:"peak_hour_users"`
}

// ConversionByGroup returns the mean of converted per test group, ordered by group
func ConversionByGroup(ds *dataset.Dataset) []GroupConversion {
	byGroup := make(map[string]*GroupConversion)
	for _, obs := range ds.Observations() {
		gc, ok := byGroup[obs.TestGroup]
		if !ok {
			gc = &GroupConversion{Group: obs.TestGroup}
			byGroup[obs.TestGroup] = gc
		}
		gc.Users++
		if obs.Converted {
			gc.Conversions++
		}
	}

	out := make([]GroupConversion, 0, len(byGroup))
	for _, gc := range byGroup {
		gc.Rate = float64(gc.Conversions) / float64(gc.Users)
		out = append(out, *gc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// TopTotalAds keeps the top most frequent total_ads values and orders them by value.
// Equal counts favour the smaller value.
func TopTotalAds(ds *dataset.Dataset, top int) []ValueCount {
	counts := make(map[int]int)
	for _, obs := range ds.Observations() {
		counts[obs.TotalAds]++
	}

	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if top >= 0 && len(out) > top {
		out = out[:top]
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// ExposureByDay counts users per most_ads_day, Monday first. Days without users count zero.
func ExposureByDay(ds *dataset.Dataset) []DayExposure {
	counts := make(map[string]int)
	for _, obs := range ds.Observations() {
		counts[obs.MostAdsDay]++
	}

	out := make([]DayExposure, len(dataset.Weekdays))
	for i, day := range dataset.Weekdays {
		out[i] = DayExposure{Day: day, Users: counts[day]}
	}
	return out
}

// ExposureByHour counts users per most_ads_hour for the hours present, ordered by hour
func ExposureByHour(ds *dataset.Dataset) []HourExposure {
	counts := make(map[int]int)
	for _, obs := range ds.Observations() {
		counts[obs.MostAdsHour]++
	}

	out := make([]HourExposure, 0, len(counts))
	for h, c := range counts {
		out = append(out, HourExposure{Hour: h, Users: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// Insight picks the first peak in display order. ok is false for an empty dataset.
func Insight(ds *dataset.Dataset) (insight ExposureInsight, ok bool) {
	if ds.Len() == 0 {
		return ExposureInsight{}, false
	}

	for i, d := range ExposureByDay(ds) {
		if i == 0 || d.Users > insight.PeakDayUsers {
			insight.PeakDay, insight.PeakDayUsers = d.Day, d.Users
		}
	}
	for i, h := range ExposureByHour(ds) {
		if i == 0 || h.Users > insight.PeakHourUsers {
			insight.PeakHour, insight.PeakHourUsers = h.Hour, h.Users
		}
	}
	return insight, true
}
