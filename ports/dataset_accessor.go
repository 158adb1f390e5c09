package ports

import (
	"context"

	"goabtest/domain/dataset"
)

// DatasetAccessor supplies the immutable marketing dataset
type DatasetAccessor interface {
	Dataset(ctx context.Context) (*dataset.Dataset, error)
}
