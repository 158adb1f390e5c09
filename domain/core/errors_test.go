package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("partition: %w", NewSchemaError("test_group", "column not present"))

	assert.True(t, IsSchemaError(err))
	assert.False(t, IsInsufficientDataError(err))

	var schemaErr *SchemaError
	assert.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "test_group", schemaErr.Column)
}

func TestInsufficientDataErrorMatchesSentinel(t *testing.T) {
	err := NewInsufficientDataError("mann_whitney_u", "psa", 1, 2)

	assert.True(t, IsInsufficientDataError(err))
	assert.False(t, IsSchemaError(err))
	assert.Contains(t, err.Error(), `"psa" has 1 values`)
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("run", "abc")
	assert.True(t, IsNotFoundError(err))
	assert.True(t, errors.Is(ErrRunNotFound, ErrNotFound))
}
