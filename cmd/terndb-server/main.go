package main

import (
	"flag"
	"os"
	"time"

	"github.com/terndb/terndb/pkg/api"
	"github.com/terndb/terndb/pkg/config"
	"github.com/terndb/terndb/pkg/logging"
	"github.com/terndb/terndb/pkg/metrics"
	"github.com/terndb/terndb/pkg/server"
	"github.com/terndb/terndb/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.ErrorLog("invalid configuration", logging.Error(err))
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))
	logging.SetDefaultLogger(logger)

	logger.Info("TernDB server starting",
		logging.String("addr", cfg.ListenAddr()),
		logging.Path(cfg.Storage.DataDir))

	graph, err := storage.NewGraphStorage(cfg.Storage.DataDir)
	if err != nil {
		logger.Error("failed to open storage", logging.Error(err))
		os.Exit(1)
	}
	defer graph.Close()

	stats := graph.GetStatistics()
	logger.Info("storage ready",
		logging.Uint64("nodes", stats.NodeCount),
		logging.Uint64("edges", stats.EdgeCount))

	registry := metrics.DefaultRegistry()
	registry.SetGraphSize(stats.NodeCount, stats.EdgeCount)

	apiServer := api.NewServer(graph, registry, cfg.Query.Timeout.Std())
	httpServer := server.NewGracefulServer(cfg.ListenAddr(), apiServer.Handler())

	httpServer.SetReloadFunc(func() error {
		reloaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		logger.SetLevel(logging.ParseLevel(reloaded.Logging.Level))
		logger.Info("configuration reloaded", logging.String("log_level", reloaded.Logging.Level))
		return nil
	})

	if cfg.Storage.SnapshotInterval.Std() > 0 {
		go snapshotLoop(graph, registry, cfg.Storage.SnapshotInterval.Std(), httpServer.ShutdownChannel(), logger)
	}
	go systemMetricsLoop(graph, registry, httpServer.ShutdownChannel())

	if err := httpServer.Start(); err != nil {
		logger.Error("server failed", logging.Error(err))
		os.Exit(1)
	}

	// final snapshot so a clean shutdown loses nothing
	if err := graph.Snapshot(); err != nil {
		logger.Error("final snapshot failed", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// snapshotLoop persists the graph periodically until shutdown
func snapshotLoop(graph *storage.GraphStorage, registry *metrics.Registry, interval time.Duration, done <-chan struct{}, logger logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			if err := graph.Snapshot(); err != nil {
				registry.RecordSnapshot("error", time.Since(start))
				logger.Error("snapshot failed", logging.Error(err))
				continue
			}
			registry.RecordSnapshot("ok", time.Since(start))
			logger.Debug("snapshot written", logging.Latency(time.Since(start)))
		case <-done:
			return
		}
	}
}

// systemMetricsLoop refreshes gauges every few seconds
func systemMetricsLoop(graph *storage.GraphStorage, registry *metrics.Registry, done <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			registry.UpdateSystemMetrics()
			stats := graph.GetStatistics()
			registry.SetGraphSize(stats.NodeCount, stats.EdgeCount)
		case <-done:
			return
		}
	}
}
