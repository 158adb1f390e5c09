package analysis

import (
	"fmt"
	"sort"

	"goabtest/domain/core"
	"goabtest/domain/dataset"
)

// PartitionResult is the treatment/control split of a dataset
type PartitionResult struct {
	Treatment      dataset.Cohort
	Control        dataset.Cohort
	PartitionStats PartitionStatistics
}

// PartitionStatistics provides metadata about the partitioning
type PartitionStatistics struct {
	TotalEntities     int
	TreatmentEntities int
	ControlEntities   int
	TreatmentRatio    float64
	Column            string
}

// Partition splits the dataset on a categorical column into exactly two
// cohorts, ordered by label. Any other cardinality, or a user_id that lands
// in both cohorts, is a schema error.
func Partition(ds *dataset.Dataset, column string) ([2]dataset.Cohort, error) {
	var cohorts [2]dataset.Cohort

	values, err := ds.Categorical(column)
	if err != nil {
		return cohorts, err
	}

	buckets := make(map[string][]dataset.Observation)
	rows := ds.Observations()
	for i, v := range values {
		buckets[v] = append(buckets[v], rows[i])
	}

	if len(buckets) != 2 {
		return cohorts, core.NewSchemaError(column, fmt.Sprintf("expected exactly 2 distinct values, found %d", len(buckets)))
	}

	labels := make([]string, 0, 2)
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	if err := checkDisjointUsers(labels, buckets); err != nil {
		return cohorts, err
	}

	for i, label := range labels {
		cohorts[i] = dataset.NewCohort(label, buckets[label])
	}
	return cohorts, nil
}

// checkDisjointUsers rejects a user_id seen under more than one label.
// Repeats within one cohort are left alone.
func checkDisjointUsers(labels []string, buckets map[string][]dataset.Observation) error {
	owner := make(map[string]string)
	for _, label := range labels {
		for _, obs := range buckets[label] {
			if obs.UserID == "" {
				continue
			}
			if prev, ok := owner[obs.UserID]; ok && prev != label {
				return core.NewSchemaError(dataset.ColumnUserID,
					fmt.Sprintf("user %q in both cohorts %q and %q", obs.UserID, prev, label))
			}
			owner[obs.UserID] = label
		}
	}
	return nil
}

// PartitionTreatment splits on test_group and maps "ad" to treatment and
// "psa" to control.
func PartitionTreatment(ds *dataset.Dataset) (*PartitionResult, error) {
	cohorts, err := Partition(ds, dataset.ColumnTestGroup)
	if err != nil {
		return nil, err
	}

	result := &PartitionResult{}
	for _, c := range cohorts {
		switch c.Name {
		case dataset.GroupAd:
			result.Treatment = c
		case dataset.GroupPSA:
			result.Control = c
		default:
			return nil, core.NewSchemaError(dataset.ColumnTestGroup,
				fmt.Sprintf("unexpected group %q, want %q and %q", c.Name, dataset.GroupAd, dataset.GroupPSA))
		}
	}

	total := result.Treatment.Size() + result.Control.Size()
	result.PartitionStats = PartitionStatistics{
		TotalEntities:     total,
		TreatmentEntities: result.Treatment.Size(),
		ControlEntities:   result.Control.Size(),
		Column:            dataset.ColumnTestGroup,
	}
	if total > 0 {
		result.PartitionStats.TreatmentRatio = float64(result.Treatment.Size()) / float64(total)
	}
	return result, nil
}
