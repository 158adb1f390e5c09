package testkit

import (
	"bytes"
	"strings"
	"testing"

	"goabtest/adapters/excel"
	"goabtest/domain/dataset"
	internalDataset "goabtest/internal/dataset"
)

func smallConfig() MarketingGeneratorConfig {
	config := DefaultMarketingConfig()
	config.AdUsers = 300
	config.PSAUsers = 100
	config.AdConversionRate = 0.1
	config.PSAConversionRate = 0.05
	return config
}

func TestMarketingDataGenerator_GroupsAndConversions(t *testing.T) {
	obs := NewMarketingDataGenerator(smallConfig()).Observations()
	if len(obs) != 400 {
		t.Fatalf("expected 400 users, got %d", len(obs))
	}

	counts := map[string]int{}
	conversions := map[string]int{}
	for i, o := range obs {
		if o.Index != i {
			t.Fatalf("row %d has index %d", i, o.Index)
		}
		if o.MostAdsHour < 0 || o.MostAdsHour > 23 {
			t.Fatalf("row %d has hour %d", i, o.MostAdsHour)
		}
		if o.TotalAds < 1 {
			t.Fatalf("row %d has total_ads %d", i, o.TotalAds)
		}
		counts[o.TestGroup]++
		if o.Converted {
			conversions[o.TestGroup]++
		}
	}

	if counts[dataset.GroupAd] != 300 || counts[dataset.GroupPSA] != 100 {
		t.Errorf("unexpected group sizes: %v", counts)
	}
	if conversions[dataset.GroupAd] != 30 || conversions[dataset.GroupPSA] != 5 {
		t.Errorf("unexpected conversions: %v", conversions)
	}
}

func TestMarketingDataGenerator_Deterministic(t *testing.T) {
	a := NewMarketingDataGenerator(smallConfig()).Observations()
	b := NewMarketingDataGenerator(smallConfig()).Observations()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs between runs with the same seed", i)
		}
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	gen := NewMarketingDataGenerator(smallConfig())

	var buf bytes.Buffer
	if err := gen.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.HasPrefix(buf.String(), ",user id,test group,converted,total ads,most ads day,most ads hour\n") {
		t.Fatalf("unexpected header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	raw, err := excel.ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	ds, err := internalDataset.Process(raw)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := gen.Dataset()
	if ds.Len() != want.Len() {
		t.Fatalf("expected %d rows, got %d", want.Len(), ds.Len())
	}
	got, expected := ds.Observations(), NewMarketingDataGenerator(smallConfig()).Observations()
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("row %d: got %+v want %+v", i, got[i], expected[i])
		}
	}
}
