package internal

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel(" WARN "))
	assert.Equal(t, LogLevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLoggerFiltersByLevelAndPrefixesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevelWarn)
	logger.SetOutput(log.New(&buf, "", 0))
	scoped := logger.With("Pipeline")

	scoped.Info("hidden %d", 1)
	scoped.Warn("metric %s failed", "total_ads")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Equal(t, "[WARN] [Pipeline] metric total_ads failed\n", buf.String())
}
