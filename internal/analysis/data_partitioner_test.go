package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goabtest/domain/core"
	"goabtest/domain/dataset"
)

var allColumns = []string{
	dataset.ColumnIndex, dataset.ColumnUserID, dataset.ColumnTestGroup, dataset.ColumnConverted,
	dataset.ColumnTotalAds, dataset.ColumnMostAdsDay, dataset.ColumnMostAdsHour,
}

func buildDataset(groups ...string) *dataset.Dataset {
	rows := make([]dataset.Observation, len(groups))
	for i, g := range groups {
		rows[i] = dataset.Observation{
			Index:       i,
			UserID:      fmt.Sprintf("user-%d", i),
			TestGroup:   g,
			Converted:   i%3 == 0,
			TotalAds:    i * 7 % 40,
			MostAdsDay:  dataset.Weekdays[i%7],
			MostAdsHour: i % 24,
		}
	}
	return dataset.New(allColumns, rows)
}

func TestPartitionCohortsAreDisjointAndComplete(t *testing.T) {
	groups := []string{"ad", "psa", "ad", "ad", "psa", "ad", "psa", "ad"}
	ds := buildDataset(groups...)

	cohorts, err := Partition(ds, dataset.ColumnTestGroup)
	require.NoError(t, err)

	assert.Equal(t, "ad", cohorts[0].Name)
	assert.Equal(t, "psa", cohorts[1].Name)
	assert.Equal(t, ds.Len(), cohorts[0].Size()+cohorts[1].Size())

	seen := make(map[string]string)
	for _, c := range cohorts {
		for _, obs := range c.Observations() {
			prev, dup := seen[obs.UserID]
			assert.False(t, dup, "user %s in both %s and %s", obs.UserID, prev, c.Name)
			assert.Equal(t, c.Name, obs.TestGroup)
			seen[obs.UserID] = c.Name
		}
	}
}

func TestPartitionRejectsWrongCardinality(t *testing.T) {
	_, err := Partition(buildDataset("ad", "ad", "ad"), dataset.ColumnTestGroup)
	assert.True(t, core.IsSchemaError(err))

	_, err = Partition(buildDataset("ad", "psa", "other"), dataset.ColumnTestGroup)
	assert.True(t, core.IsSchemaError(err))

	_, err = Partition(buildDataset(), dataset.ColumnTestGroup)
	assert.True(t, core.IsSchemaError(err))
}

func TestPartitionRejectsUserInBothCohorts(t *testing.T) {
	rows := []dataset.Observation{
		{UserID: "u1", TestGroup: "ad"},
		{UserID: "u1", TestGroup: "psa"},
		{UserID: "u2", TestGroup: "psa"},
	}
	ds := dataset.New(allColumns, rows)

	_, err := Partition(ds, dataset.ColumnTestGroup)
	require.Error(t, err)
	assert.True(t, core.IsSchemaError(err))
	assert.Contains(t, err.Error(), "u1")

	_, err = PartitionTreatment(ds)
	assert.True(t, core.IsSchemaError(err))
}

func TestPartitionAllowsRepeatWithinCohort(t *testing.T) {
	rows := []dataset.Observation{
		{UserID: "u1", TestGroup: "ad"},
		{UserID: "u1", TestGroup: "ad"},
		{UserID: "u2", TestGroup: "psa"},
	}

	cohorts, err := Partition(dataset.New(allColumns, rows), dataset.ColumnTestGroup)
	require.NoError(t, err)
	assert.Equal(t, 2, cohorts[0].Size())
	assert.Equal(t, 1, cohorts[1].Size())
}

func TestPartitionRejectsMissingColumn(t *testing.T) {
	ds := dataset.New([]string{dataset.ColumnUserID}, []dataset.Observation{{UserID: "u"}})

	_, err := Partition(ds, dataset.ColumnTestGroup)
	assert.True(t, core.IsSchemaError(err))
}

func TestPartitionTreatmentMapsGroups(t *testing.T) {
	ds := buildDataset("psa", "ad", "ad", "psa", "ad")

	result, err := PartitionTreatment(ds)
	require.NoError(t, err)

	assert.Equal(t, "ad", result.Treatment.Name)
	assert.Equal(t, 3, result.Treatment.Size())
	assert.Equal(t, "psa", result.Control.Name)
	assert.Equal(t, 2, result.Control.Size())
	assert.Equal(t, 5, result.PartitionStats.TotalEntities)
	assert.InDelta(t, 0.6, result.PartitionStats.TreatmentRatio, 1e-12)
}

func TestPartitionTreatmentRejectsUnknownLabels(t *testing.T) {
	_, err := PartitionTreatment(buildDataset("control", "variant"))
	assert.True(t, core.IsSchemaError(err))
}
