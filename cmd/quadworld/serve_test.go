package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/quadworld/internal/config"
	"github.com/zeusync/quadworld/internal/core/observability/log"
	"github.com/zeusync/quadworld/internal/core/system"
	"github.com/zeusync/quadworld/internal/server"
)

type brokenSystem struct{}

func (brokenSystem) Name() string                        { return "broken" }
func (brokenSystem) Update(float32, *system.World) error { return errors.New("broken") }

func TestServeLogsFrameErrorsWithFrame(t *testing.T) {
	cfg := config.Default()
	w := system.New(cfg.SceneOptions(), nil)
	require.NoError(t, w.AddSystem(brokenSystem{}, system.PriorityNormal))
	srv := server.New(config.ServerConfig{ListenAddr: "127.0.0.1:0"}, nil)

	core, logs := observer.New(zapcore.WarnLevel)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, runServe(ctx, w, srv, log.NewWithCore(core), 10*time.Millisecond))

	entries := logs.FilterMessage("frame reported errors").All()
	require.NotEmpty(t, entries)
	fields := entries[0].ContextMap()
	assert.Equal(t, "serve", fields["component"])
	assert.Equal(t, uint64(1), fields["frame"])

	_, err := w.Step(0.01, nil)
	assert.ErrorIs(t, err, system.ErrClosed, "the world is closed when serving stops")
}
