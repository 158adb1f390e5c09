package stats

import (
	"encoding/json"
	"math"
)

// JSON has no NaN or Inf. Degenerate statistics are encoded as null and
// decoded back to NaN.

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// MarshalJSON encodes non-finite statistics as null
func (r TestResult) MarshalJSON() ([]byte, error) {
	type alias TestResult
	return json.Marshal(struct {
		alias
		Statistic *float64 `json:"statistic"`
		PValue    *float64 `json:"p_value"`
	}{alias(r), finite(r.Statistic), finite(r.PValue)})
}

// UnmarshalJSON decodes null statistics as NaN
func (r *TestResult) UnmarshalJSON(data []byte) error {
	type alias TestResult
	aux := struct {
		*alias
		Statistic *float64 `json:"statistic"`
		PValue    *float64 `json:"p_value"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Statistic, r.PValue = orNaN(aux.Statistic), orNaN(aux.PValue)
	return nil
}

// MarshalJSON encodes a non-finite A² as null
func (a NormalityAssessment) MarshalJSON() ([]byte, error) {
	type alias NormalityAssessment
	return json.Marshal(struct {
		alias
		Statistic *float64 `json:"statistic"`
	}{alias(a), finite(a.Statistic)})
}

// UnmarshalJSON decodes a null A² as NaN
func (a *NormalityAssessment) UnmarshalJSON(data []byte) error {
	type alias NormalityAssessment
	aux := struct {
		*alias
		Statistic *float64 `json:"statistic"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.Statistic = orNaN(aux.Statistic)
	return nil
}
