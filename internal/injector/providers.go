package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/quadworld/internal/config"
	"github.com/zeusync/quadworld/internal/core/observability/log"
	"github.com/zeusync/quadworld/internal/core/scene"
	"github.com/zeusync/quadworld/internal/core/system"
	"github.com/zeusync/quadworld/internal/server"
)

var (
	LoggerSet  = wire.NewSet(ProvideLogger)
	WorldSet   = wire.NewSet(LoggerSet, ProvideSceneOptions, system.New)
	RuntimeSet = wire.NewSet(
		WorldSet,
		ProvideServerConfig, server.New,
		wire.Struct(new(Runtime), "*"),
	)
)

// Runtime is a world and a touch feed server sharing one logger.
type Runtime struct {
	World  *system.World
	Server *server.Server
	Log    log.Log
}

func ProvideLogger(cfg config.Config) log.Log {
	return log.New(cfg.Level())
}

func ProvideSceneOptions(cfg config.Config) scene.Options {
	return cfg.SceneOptions()
}

func ProvideServerConfig(cfg config.Config) config.ServerConfig {
	return cfg.Server
}
