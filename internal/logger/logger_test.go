package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name string
		cfg  logger.Config
	}{
		{name: "defaults", cfg: logger.Config{}},
		{name: "console", cfg: logger.Config{Format: "console", Level: "debug"}},
		{name: "development", cfg: logger.Config{Development: true, Level: "warn"}},
		{name: "unknown level", cfg: logger.Config{Level: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := logger.Config{}
	cfg.SetDefaults()

	assert.Equal(t, logger.DefaultLevel, cfg.Level)
	assert.Equal(t, logger.DefaultFormat, cfg.Format)
	assert.Equal(t, []string{"stderr"}, cfg.OutputPaths)
}

func TestNewWithCore_FieldsReachCore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := logger.NewWithCore(core).With(logger.String("service", "lead-classifier"))

	l.Debug("dropped")
	l.Info("batch complete", logger.Int("total", 3), logger.Error(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "batch complete", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "lead-classifier", ctx["service"])
	assert.EqualValues(t, 3, ctx["total"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := logger.NewWithCore(core)

	ctx := logger.WithContext(context.Background(), l)
	logger.FromContext(ctx).Info("hello")
	assert.Equal(t, 1, logs.Len())

	// Missing logger falls back to a no-op.
	logger.FromContext(context.Background()).Info("ignored")
	assert.Equal(t, 1, logs.Len())
}
