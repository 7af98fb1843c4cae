package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_ProductionWritesJSONAtInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("KUBERNETES_SERVICE_HOST", "")

	var buf bytes.Buffer
	logger := New(&buf, "production")

	logger.Debug("hidden")
	logger.Info("search finished", "source", "AliExpress")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "search finished", entry["msg"])
	assert.Equal(t, "AliExpress", entry["source"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_DevelopmentIsVerboseText(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("KUBERNETES_SERVICE_HOST", "")

	var buf bytes.Buffer
	logger := New(&buf, "development")

	logger.Debug("source skipped", "source", "Alibaba")

	assert.Contains(t, buf.String(), "msg=\"source skipped\"")
	assert.Contains(t, buf.String(), "source=Alibaba")
}

func TestNew_EnvironmentOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("KUBERNETES_SERVICE_HOST", "")

	var buf bytes.Buffer
	logger := New(&buf, "development")

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}

func TestSetup_SetsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	logger := Setup("test")

	assert.Same(t, logger, slog.Default())
}
