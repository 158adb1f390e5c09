package dataset

import (
	"fmt"
	"slices"
	"strings"

	"goabtest/domain/core"
)

// Column names after header normalisation (lower-cased, spaces replaced by underscores)
const (
	ColumnIndex       = "index"
	ColumnUserID      = "user_id"
	ColumnTestGroup   = "test_group"
	ColumnConverted   = "converted"
	ColumnTotalAds    = "total_ads"
	ColumnMostAdsDay  = "most_ads_day"
	ColumnMostAdsHour = "most_ads_hour"
)

// RequiredColumns lists the columns every dataset must carry. index is optional.
var RequiredColumns = []string{
	ColumnUserID,
	ColumnTestGroup,
	ColumnConverted,
	ColumnTotalAds,
	ColumnMostAdsDay,
	ColumnMostAdsHour,
}

// Test group labels
const (
	GroupAd  = "ad"
	GroupPSA = "psa"
)

// Weekdays is the display order used for day-level aggregates
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Observation is one user of the experiment
type Observation struct {
	Index       int    `json:"index"`
	UserID      string `json:"user_id"`
	TestGroup   string `json:"test_group"`
	Converted   bool   `json:"converted"`
	TotalAds    int    `json:"total_ads"`
	MostAdsDay  string `json:"most_ads_day"`
	MostAdsHour int    `json:"most_ads_hour"`
}

// Dataset is an immutable handle over the loaded table. Accessors return copies.
type Dataset struct {
	columns      []string
	observations []Observation
}

// New builds a dataset from normalised column names and parsed observations.
// Both slices are copied.
func New(columns []string, observations []Observation) *Dataset {
	return &Dataset{
		columns:      slices.Clone(columns),
		observations: slices.Clone(observations),
	}
}

// Len returns the number of observations
func (d *Dataset) Len() int {
	return len(d.observations)
}

// Columns returns the normalised header of the source table
func (d *Dataset) Columns() []string {
	return slices.Clone(d.columns)
}

// HasColumn reports whether the source table carried the column
func (d *Dataset) HasColumn(name string) bool {
	return slices.Contains(d.columns, name)
}

// Observations returns a copy of all rows
func (d *Dataset) Observations() []Observation {
	return slices.Clone(d.observations)
}

// Head returns up to n leading rows
func (d *Dataset) Head(n int) []Observation {
	if n < 0 {
		n = 0
	}
	if n > len(d.observations) {
		n = len(d.observations)
	}
	return slices.Clone(d.observations[:n])
}

// Categorical returns the string values of a categorical column, row-aligned.
func (d *Dataset) Categorical(column string) ([]string, error) {
	if !d.HasColumn(column) {
		return nil, core.NewSchemaError(column, "column not present in dataset")
	}

	values := make([]string, len(d.observations))
	for i, obs := range d.observations {
		switch column {
		case ColumnTestGroup:
			values[i] = obs.TestGroup
		case ColumnMostAdsDay:
			values[i] = obs.MostAdsDay
		case ColumnUserID:
			values[i] = obs.UserID
		default:
			return nil, core.NewSchemaError(column, "column is not categorical")
		}
	}
	return values, nil
}

// Filter returns a new dataset holding the rows accepted by keep
func (d *Dataset) Filter(keep func(Observation) bool) *Dataset {
	kept := make([]Observation, 0, len(d.observations))
	for _, obs := range d.observations {
		if keep(obs) {
			kept = append(kept, obs)
		}
	}
	return &Dataset{columns: slices.Clone(d.columns), observations: kept}
}

// FilterGroups keeps rows whose test group is listed. No groups keeps everything.
func (d *Dataset) FilterGroups(groups ...string) *Dataset {
	if len(groups) == 0 {
		return d
	}
	return d.Filter(func(obs Observation) bool {
		return slices.Contains(groups, obs.TestGroup)
	})
}

// Groups returns the distinct test groups in first-seen order
func (d *Dataset) Groups() []string {
	var groups []string
	for _, obs := range d.observations {
		if !slices.Contains(groups, obs.TestGroup) {
			groups = append(groups, obs.TestGroup)
		}
	}
	return groups
}

// Fingerprint hashes the rows in order, identifying the exact data a run saw
func (d *Dataset) Fingerprint() core.Hash {
	var b strings.Builder
	for _, obs := range d.observations {
		fmt.Fprintf(&b, "%d|%s|%s|%t|%d|%s|%d\n",
			obs.Index, obs.UserID, obs.TestGroup, obs.Converted, obs.TotalAds, obs.MostAdsDay, obs.MostAdsHour)
	}
	return core.NewHash([]byte(b.String()))
}
