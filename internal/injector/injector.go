//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/robosim/robosim/internal/core/arena"
	"github.com/robosim/robosim/internal/core/engine"
	"github.com/robosim/robosim/internal/core/events/bus"
	"github.com/robosim/robosim/internal/core/observability/log"
)

func ProvideLogger() *log.Logger {
	wire.Build(log.Provide)
	return log.New(log.LevelDebug)
}

func ProvideEngine() *engine.Engine {
	wire.Build(
		log.Provide,
		wire.Bind(new(log.Log), new(*log.Logger)),
		arena.NewScene,
		bus.New,
		provideEngine,
	)
	return nil
}

func provideEngine(scene *arena.Scene, eventBus *bus.Bus, logger log.Log) *engine.Engine {
	return engine.New(scene, eventBus, logger, engine.DefaultTickInterval)
}
