package memory

import (
	"context"
	"testing"
	"time"

	"goabtest/domain/core"
	"goabtest/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport(size int) *stats.PipelineReport {
	return &stats.PipelineReport{
		ID:          core.NewRunID(),
		CreatedAt:   time.Now().UTC(),
		DatasetSize: size,
		Alpha:       stats.DefaultAlpha,
	}
}

func TestReportRepository_SaveAndGet(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()
	report := newReport(10)

	require.NoError(t, repo.Save(ctx, report))

	got, err := repo.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.DatasetSize)

	_, err = repo.Get(ctx, core.NewRunID())
	assert.ErrorIs(t, err, core.ErrRunNotFound)
}

func TestReportRepository_ListNewestFirst(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()
	first, second, third := newReport(1), newReport(2), newReport(3)
	for _, r := range []*stats.PipelineReport{first, second, third} {
		require.NoError(t, repo.Save(ctx, r))
	}

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, first.ID, all[2].ID)

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, second.ID, limited[1].ID)
}

func TestReportRepository_SaveReplacesSameID(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()
	report := newReport(1)
	require.NoError(t, repo.Save(ctx, report))

	updated := *report
	updated.DatasetSize = 99
	require.NoError(t, repo.Save(ctx, &updated))

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 99, all[0].DatasetSize)
}
