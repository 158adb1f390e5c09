package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goabtest/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "DATA_FILE", "PORT", "UI_PORT", "GIN_MODE", "PIPELINE_WORKERS", "PREVIEW_ROWS", "TOP_TOTAL_ADS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "8081", cfg.Server.UIPort)
	assert.Equal(t, DefaultDataFiles, cfg.Data.Files)
	assert.Equal(t, 3, cfg.Pipeline.Workers)
	assert.Equal(t, 5, cfg.Pipeline.PreviewRows)
	assert.Equal(t, 20, cfg.Pipeline.TopTotalAds)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoadPrependsDataFile(t *testing.T) {
	t.Setenv("DATA_FILE", "/srv/ab/marketing.xlsx")
	t.Setenv("DATABASE_URL", "postgres://localhost/ab")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"/srv/ab/marketing.xlsx", "marketing_AB.csv", "data/marketing_AB.csv"}, cfg.Data.Files)
	assert.True(t, cfg.Database.Enabled())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("PIPELINE_WORKERS", "many")
	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	t.Setenv("PIPELINE_WORKERS", "0")
	_, err = Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	t.Setenv("PIPELINE_WORKERS", "2")
	t.Setenv("PORT", "http")
	_, err = Load()
	require.Error(t, err)
}
