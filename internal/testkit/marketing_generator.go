package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"goabtest/domain/dataset"
)

// MarketingGeneratorConfig configures the synthetic A/B dataset
type MarketingGeneratorConfig struct {
	AdUsers             int     `json:"ad_users"`
	PSAUsers            int     `json:"psa_users"`
	AdConversionRate    float64 `json:"ad_conversion_rate"`
	PSAConversionRate   float64 `json:"psa_conversion_rate"`
	MedianTotalAds      float64 `json:"median_total_ads"`
	HeavyUserShare      float64 `json:"heavy_user_share"`
	HeavyUserMultiplier float64 `json:"heavy_user_multiplier"`
	Seed                int64   `json:"seed"`
}

// DefaultMarketingConfig mirrors the shape of the public marketing A/B dataset at a smaller scale:
// ad is the large treatment group, psa the 4% control, and total_ads is heavily right-skewed
func DefaultMarketingConfig() MarketingGeneratorConfig {
	return MarketingGeneratorConfig{
		AdUsers:             4800,
		PSAUsers:            200,
		AdConversionRate:    0.0255,
		PSAConversionRate:   0.0179,
		MedianTotalAds:      13,
		HeavyUserShare:      0.02,
		HeavyUserMultiplier: 20,
		Seed:                42,
	}
}

// MarketingDataGenerator generates users of the marketing experiment
type MarketingDataGenerator struct {
	config MarketingGeneratorConfig
	rng    *rand.Rand
}

// NewMarketingDataGenerator creates a new generator
func NewMarketingDataGenerator(config MarketingGeneratorConfig) *MarketingDataGenerator {
	return &MarketingDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Observations generates ad users first, then psa users. Conversions are
// assigned exactly (rounded rate times group size) so fixtures are stable.
func (g *MarketingDataGenerator) Observations() []dataset.Observation {
	out := make([]dataset.Observation, 0, g.config.AdUsers+g.config.PSAUsers)
	out = g.appendGroup(out, dataset.GroupAd, g.config.AdUsers, g.config.AdConversionRate)
	out = g.appendGroup(out, dataset.GroupPSA, g.config.PSAUsers, g.config.PSAConversionRate)
	return out
}

// Dataset wraps the generated observations with the full column set
func (g *MarketingDataGenerator) Dataset() *dataset.Dataset {
	columns := append([]string{dataset.ColumnIndex}, dataset.RequiredColumns...)
	return dataset.New(columns, g.Observations())
}

func (g *MarketingDataGenerator) appendGroup(out []dataset.Observation, group string, n int, rate float64) []dataset.Observation {
	conversions := int(math.Round(rate * float64(n)))
	converted := g.rng.Perm(n)[:conversions]
	isConverted := make(map[int]bool, conversions)
	for _, i := range converted {
		isConverted[i] = true
	}

	for i := 0; i < n; i++ {
		index := len(out)
		out = append(out, dataset.Observation{
			Index:       index,
			UserID:      strconv.Itoa(1000000 + index),
			TestGroup:   group,
			Converted:   isConverted[i],
			TotalAds:    g.totalAds(),
			MostAdsDay:  dataset.Weekdays[g.rng.Intn(len(dataset.Weekdays))],
			MostAdsHour: g.hour(),
		})
	}
	return out
}

// totalAds draws from a log-normal around the median with a heavy-user tail
func (g *MarketingDataGenerator) totalAds() int {
	v := g.config.MedianTotalAds * math.Exp(0.9*g.rng.NormFloat64())
	if g.rng.Float64() < g.config.HeavyUserShare {
		v *= g.config.HeavyUserMultiplier
	}
	if v < 1 {
		v = 1
	}
	return int(math.Round(v))
}

// hour peaks in the afternoon, wrapped onto 0..23
func (g *MarketingDataGenerator) hour() int {
	h := int(math.Round(14 + 4.5*g.rng.NormFloat64()))
	return ((h % 24) + 24) % 24
}

// WriteCSV writes the observations in the raw marketing_AB.csv layout
func (g *MarketingDataGenerator) WriteCSV(w io.Writer) error {
	return WriteCSV(w, g.Observations())
}

// WriteCSV writes observations in the marketing_AB.csv layout: spaced header with an unnamed index column
func WriteCSV(w io.Writer, observations []dataset.Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"", "user id", "test group", "converted", "total ads", "most ads day", "most ads hour"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, o := range observations {
		record := []string{
			strconv.Itoa(o.Index),
			o.UserID,
			o.TestGroup,
			pythonBool(o.Converted),
			strconv.Itoa(o.TotalAds),
			o.MostAdsDay,
			strconv.Itoa(o.MostAdsHour),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", o.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func pythonBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
