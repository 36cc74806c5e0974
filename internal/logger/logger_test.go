package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log, err := New("warn")
	require.NoError(t, err)

	assert.False(t, log.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud")
	assert.Error(t, err)
}

func TestNewLogger_SplitsOutputByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log := newLogger(zapcore.InfoLevel, zapcore.AddSync(&stdout), zapcore.AddSync(&stderr))

	log.Debugw("hidden")
	log.Infow("fetched repositories", "count", 3)
	log.Warnw("skipping pull request", "number", 7)
	log.Errorw("snapshot failed", "error", "boom")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "fetched repositories")
	assert.Contains(t, stdout.String(), "skipping pull request")
	assert.NotContains(t, stdout.String(), "snapshot failed")

	assert.Contains(t, stderr.String(), "snapshot failed")
	assert.NotContains(t, stderr.String(), "fetched repositories")
}
