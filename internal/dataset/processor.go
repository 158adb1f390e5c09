// Package dataset turns the raw marketing table into the immutable dataset
// handle consumed by the hypothesis pipeline and the dashboard.
package dataset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"goabtest/adapters/excel"
	"goabtest/domain/core"
	domainDataset "goabtest/domain/dataset"
	"goabtest/internal/errors"
)

// NormalizeHeader lower-cases a header and replaces spaces with underscores.
// The unnamed leading column written by dataframe exports becomes "index".
func NormalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" || strings.HasPrefix(h, "unnamed:") {
		return domainDataset.ColumnIndex
	}
	return strings.ReplaceAll(h, " ", "_")
}

// Process validates the header and parses every record into an Observation
func Process(raw *excel.ExcelData) (*domainDataset.Dataset, error) {
	columns := make([]string, len(raw.Headers))
	position := make(map[string]int, len(raw.Headers))
	for i, h := range raw.Headers {
		columns[i] = NormalizeHeader(h)
		if _, dup := position[columns[i]]; dup {
			return nil, core.NewSchemaError(columns[i], "duplicate column after normalisation")
		}
		position[columns[i]] = i
	}

	for _, required := range domainDataset.RequiredColumns {
		if _, ok := position[required]; !ok {
			return nil, core.NewSchemaError(required, "required column missing")
		}
	}

	observations := make([]domainDataset.Observation, 0, len(raw.Records))
	for i, record := range raw.Records {
		obs, err := parseRecord(record, position, i)
		if err != nil {
			// header row is line 1
			return nil, errors.Wrapf(err, "line %d", i+2)
		}
		observations = append(observations, obs)
	}

	return domainDataset.New(columns, observations), nil
}

func parseRecord(record []string, position map[string]int, row int) (domainDataset.Observation, error) {
	cell := func(column string) string {
		return record[position[column]]
	}

	obs := domainDataset.Observation{
		Index:      row,
		UserID:     cell(domainDataset.ColumnUserID),
		TestGroup:  strings.ToLower(cell(domainDataset.ColumnTestGroup)),
		MostAdsDay: normalizeWeekday(cell(domainDataset.ColumnMostAdsDay)),
	}

	if pos, ok := position[domainDataset.ColumnIndex]; ok && record[pos] != "" {
		idx, err := strconv.Atoi(record[pos])
		if err != nil {
			return obs, invalidValue(domainDataset.ColumnIndex, record[pos])
		}
		obs.Index = idx
	}

	if obs.UserID == "" {
		return obs, invalidValue(domainDataset.ColumnUserID, "")
	}
	if obs.TestGroup == "" {
		return obs, invalidValue(domainDataset.ColumnTestGroup, "")
	}

	converted, err := strconv.ParseBool(cell(domainDataset.ColumnConverted))
	if err != nil {
		return obs, invalidValue(domainDataset.ColumnConverted, cell(domainDataset.ColumnConverted))
	}
	obs.Converted = converted

	totalAds, err := strconv.Atoi(cell(domainDataset.ColumnTotalAds))
	if err != nil || totalAds < 0 {
		return obs, invalidValue(domainDataset.ColumnTotalAds, cell(domainDataset.ColumnTotalAds))
	}
	obs.TotalAds = totalAds

	hour, err := strconv.Atoi(cell(domainDataset.ColumnMostAdsHour))
	if err != nil || hour < 0 || hour > 23 {
		return obs, invalidValue(domainDataset.ColumnMostAdsHour, cell(domainDataset.ColumnMostAdsHour))
	}
	obs.MostAdsHour = hour

	if !slices.Contains(domainDataset.Weekdays, obs.MostAdsDay) {
		return obs, invalidValue(domainDataset.ColumnMostAdsDay, cell(domainDataset.ColumnMostAdsDay))
	}

	return obs, nil
}

// normalizeWeekday title-cases a day name, so "monday" matches "Monday"
func normalizeWeekday(day string) string {
	day = strings.ToLower(strings.TrimSpace(day))
	if day == "" {
		return day
	}
	return strings.ToUpper(day[:1]) + day[1:]
}

func invalidValue(column, value string) error {
	return errors.InvalidInput(fmt.Sprintf("invalid %s value %q", column, value))
}
