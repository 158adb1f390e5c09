package dataset

import (
	"context"
	"os"
	"strings"
	"sync"

	"goabtest/adapters/excel"
	domainDataset "goabtest/domain/dataset"
	"goabtest/internal"
	"goabtest/internal/errors"
)

// FileAccessor loads the dataset from the first existing candidate path and
// caches it for the lifetime of the accessor.
type FileAccessor struct {
	paths  []string
	logger *internal.Logger

	once sync.Once
	ds   *domainDataset.Dataset
	path string
	err  error
}

// NewFileAccessor creates an accessor over candidate paths tried in order
func NewFileAccessor(logger *internal.Logger, paths ...string) *FileAccessor {
	return &FileAccessor{paths: paths, logger: logger.With("DatasetAccessor")}
}

// Dataset returns the loaded dataset, reading it on first use
func (a *FileAccessor) Dataset(ctx context.Context) (*domainDataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.once.Do(func() {
		a.ds, a.path, a.err = a.load()
	})
	return a.ds, a.err
}

// Source returns the path the dataset was loaded from, empty before loading
func (a *FileAccessor) Source() string {
	return a.path
}

func (a *FileAccessor) load() (*domainDataset.Dataset, string, error) {
	for _, path := range a.paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			a.logger.Debug("dataset candidate %s not found, trying next", path)
			continue
		}

		raw, err := excel.NewDataReader(path).ReadData()
		if err != nil {
			return nil, path, errors.DataSourceError(path, err)
		}

		ds, err := Process(raw)
		if err != nil {
			return nil, path, errors.Wrapf(err, "failed to parse dataset %s", path)
		}

		a.logger.Info("loaded %d observations from %s", ds.Len(), path)
		return ds, path, nil
	}

	return nil, "", errors.NotFound("dataset file (tried " + strings.Join(a.paths, ", ") + ")")
}

// StaticAccessor serves an already built dataset
type StaticAccessor struct {
	ds *domainDataset.Dataset
}

// NewStaticAccessor wraps a dataset
func NewStaticAccessor(ds *domainDataset.Dataset) *StaticAccessor {
	return &StaticAccessor{ds: ds}
}

// Dataset returns the wrapped dataset
func (a *StaticAccessor) Dataset(ctx context.Context) (*domainDataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.ds, nil
}
