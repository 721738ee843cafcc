package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zephyrtronium/rpncalc/internal/logger"
)

func TestNewFile(t *testing.T) {
	cfg := logger.DefaultConfig()
	cfg.FileName = filepath.Join(t.TempDir(), "calc.log")
	cfg.Level = "debug"

	log, err := logger.New(cfg)
	require.NoError(t, err)
	log.Debug("evaluated", zap.String("expr", "1+2"), zap.Float64("result", 3))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(cfg.FileName)
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "DEBUG", line["level"])
	assert.Equal(t, "evaluated", line["msg"])
	assert.Equal(t, "1+2", line["expr"])
	assert.Equal(t, 3.0, line["result"])
	assert.Contains(t, line, "time")
	assert.Contains(t, line, "caller")
}

func TestNewLevel(t *testing.T) {
	cfg := logger.DefaultConfig()
	cfg.FileName = filepath.Join(t.TempDir(), "calc.log")
	cfg.Level = "WARN"

	log, err := logger.New(cfg)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewBadLevel(t *testing.T) {
	cfg := logger.DefaultConfig()
	cfg.Level = "loud"
	_, err := logger.New(cfg)
	assert.Error(t, err)
}

func TestNewNowhere(t *testing.T) {
	log, err := logger.New(&logger.Config{Level: "info"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf, zapcore.InfoLevel)
	log.Debug("hidden")
	log.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"level":"INFO"`)
}
