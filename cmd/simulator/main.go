package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/robosim/robosim/internal/core/arena"
	"github.com/robosim/robosim/internal/core/engine"
	"github.com/robosim/robosim/internal/core/events/bus"
	"github.com/robosim/robosim/internal/core/observability/log"
	"github.com/robosim/robosim/internal/core/sceneio"
	"github.com/robosim/robosim/internal/server"
	"github.com/robosim/robosim/pkg/concurrent"
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "scenario file to load (.yaml/.yml or legacy block format)")
		httpAddr     = flag.String("http", "127.0.0.1:8080", "HTTP/WebSocket listen address")
		quicAddr     = flag.String("quic", "", "QUIC command channel address (disabled when empty)")
		tick         = flag.Duration("tick", engine.DefaultTickInterval, "simulation tick interval")
		debug        = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	level := log.LevelInfo
	if *debug {
		level = log.LevelDebug
	}
	logger := log.New(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scene := arena.NewScene()
	eventBus := bus.New()
	eng := engine.New(scene, eventBus, logger, *tick)

	if *scenarioPath != "" {
		scenario, err := sceneio.Load(*scenarioPath, logger)
		if err != nil {
			logger.Error("failed to load scenario", log.Error(err))
			os.Exit(1)
		}
		if err := scenario.Populate(eng, logger); err != nil {
			logger.Error("failed to populate scene", log.Error(err))
			os.Exit(1)
		}
		eng.SetFingerprint(scenario.Fingerprint())
		logger.Info("scenario loaded",
			log.String("path", *scenarioPath),
			log.Int("robots", len(scenario.Robots)),
			log.Int("obstacles", len(scenario.Obstacles)))
	}

	cfg := server.DefaultConfig()
	cfg.HTTPAddr = *httpAddr
	cfg.QUICAddr = *quicAddr
	ctrl := server.New(cfg, eng, eventBus, logger)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stopCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	err := concurrent.Run(ctx, eng.Run, ctrl.Run)
	if err != nil && err != context.Canceled {
		logger.Error("simulator exited", log.Error(err))
		os.Exit(1)
	}
	logger.Info("simulator stopped")
}
