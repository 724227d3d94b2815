package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/quadworld/internal/config"
	"github.com/zeusync/quadworld/internal/core/geometry"
)

func TestInitializeWorldUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "error"
	cfg.Scene.Capacity = 7
	cfg.Scene.Bounds = config.BoundsConfig{Min: [2]float32{-10, -10}, Max: [2]float32{10, 10}}

	w := InitializeWorld(cfg)
	require.NotNil(t, w)
	assert.Equal(t, 7, w.Scene().Tree().Capacity())
	assert.Equal(t, geometry.NewBoundingBox(geometry.V2(-10, -10), geometry.V2(10, 10)), w.Scene().Tree().Bounds())
}

func TestInitializeRuntime(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "error"
	rt := InitializeRuntime(cfg)
	require.NotNil(t, rt)
	require.NotNil(t, rt.World)
	require.NotNil(t, rt.Server)
	require.NotNil(t, rt.Log)
	assert.False(t, rt.Server.GetStats().Running)
	assert.Zero(t, rt.World.Scene().Stats().Entities)
}
