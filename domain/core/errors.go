package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)

	// ErrSchema marks a dataset whose columns do not match the expected layout
	ErrSchema = errors.New("schema error")
	// ErrInsufficientData marks a sample too small for the requested test
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// SchemaError reports a dataset that cannot be split into two disjoint
// cohorts. It aborts a pipeline run.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: column %q: %s", e.Column, e.Reason)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// InsufficientDataError reports a cohort sample that is empty or smaller than
// a test requires. It is scoped to a single metric.
type InsufficientDataError struct {
	Test     string
	Sample   string
	Size     int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: sample %q has %d values, need at least %d",
		e.Test, e.Sample, e.Size, e.Required)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

func NewSchemaError(column, reason string) error {
	return &SchemaError{Column: column, Reason: reason}
}

func NewInsufficientDataError(test, sample string, size, required int) error {
	return &InsufficientDataError{Test: test, Sample: sample, Size: size, Required: required}
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
