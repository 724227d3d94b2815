//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/quadworld/internal/config"
	"github.com/zeusync/quadworld/internal/core/system"
)

func InitializeWorld(cfg config.Config) *system.World {
	wire.Build(WorldSet)
	return nil
}

func InitializeRuntime(cfg config.Config) *Runtime {
	wire.Build(RuntimeSet)
	return nil
}
