package log

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal} {
		got, err := ParseLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	got, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, got)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewWithCore(core)

	logger.Debug("hidden")
	logger.With(String("scene", "main")).Warn("entity lost",
		Int("count", 2),
		Float32("x", 1.5),
		Error(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "entity lost", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "main", fields["scene"])
	assert.EqualValues(t, 2, fields["count"])
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, LevelInfo, logger.GetLevel())
}

func TestLoggerLevelAndContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core)
	logger.SetLevel(LevelError)

	logger.Log(LevelInfo, "dropped")
	logger.WithContext(ContextWithFrame(context.Background(), 42)).Log(LevelError, "kept")

	require.Equal(t, 1, logs.Len())
	assert.EqualValues(t, 42, logs.All()[0].ContextMap()["frame"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		OrNop(nil).Info("nothing")
		Provide().Debug("still nothing")
	})
}
