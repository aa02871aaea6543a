package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"searchsync/internal/config"
	"searchsync/internal/docbuilder"
	"searchsync/internal/engine"
	"searchsync/internal/lock"
	"searchsync/internal/logging"
	"searchsync/internal/record"
	"searchsync/internal/registry"
	"searchsync/internal/syncer"
	"searchsync/internal/tasklog"
	"searchsync/internal/trigger"
	"searchsync/internal/watermark"
)

func main() {
	// 0. Parse command line flags
	configPath := flag.String("config", "config.yml", "Path to config file")
	runOnce := flag.Bool("once", false, "Run a single synchronization pass and exit")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Shutdown()
	logger := slog.Default()

	// 2. Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("Failed to ping MongoDB", "error", err)
		os.Exit(1)
	}
	db := client.Database(cfg.Mongo.Database)

	// 3. Wire components
	records := record.NewMongoStore(db, cfg.Mongo.RecordsCollection)
	tasks := tasklog.NewMongoLog(db, cfg.Mongo.TasksCollection, cfg.Mongo.CountersCollection)
	reg := registry.NewMongoRegistry(db, cfg.Mongo.DefinitionsCollection)
	locker := lock.NewMongoLocker(db, cfg.Mongo.LocksCollection)

	var marks watermark.Store
	switch cfg.Watermarks.Backend {
	case "pebble":
		store, err := watermark.NewPebbleStore(cfg.Watermarks.Path)
		if err != nil {
			logger.Error("Failed to open watermark store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		marks = store
	default:
		marks = watermark.NewMongoStore(db, cfg.Mongo.WatermarksCollection)
	}

	if cfg.DefinitionsPath != "" {
		n, err := registry.Seed(ctx, reg, cfg.DefinitionsPath)
		if err != nil {
			logger.Error("Failed to seed index definitions", "error", err)
			os.Exit(1)
		}
		logger.Info("Seeded index definitions", "count", n)
	}

	var eng engine.Engine
	switch cfg.Engine.Backend {
	case "memory":
		eng = engine.NewMemoryEngine()
	default:
		logger.Error("Unknown engine backend", "backend", cfg.Engine.Backend)
		os.Exit(1)
	}

	builder := docbuilder.NewChain(docbuilder.Data(), docbuilder.Metadata())
	orch := syncer.NewOrchestrator(cfg.Sync, reg, tasks, records, builder,
		eng, marks, logger)

	// 4. One-shot mode
	if *runOnce {
		if err := orch.Synchronize(context.Background(), ""); err != nil {
			logger.Error("Synchronization pass failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// 5. Start the runner
	runner := syncer.NewRunner(cfg.Sync, orch, locker, logger)

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	if err := runner.Start(bgCtx); err != nil {
		logger.Error("Failed to start runner", "error", err)
		os.Exit(1)
	}

	// 6. Optional NATS trigger
	var sub *trigger.Subscriber
	if cfg.Nats.Enabled {
		nc, err := nats.Connect(cfg.Nats.URL,
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second))
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nc.Close()

		sub, err = trigger.NewSubscriber(nc, cfg.Nats.Subject, runner.Trigger, logger)
		if err != nil {
			logger.Error("Failed to create trigger subscriber", "error", err)
			os.Exit(1)
		}
		if err := sub.Start(); err != nil {
			logger.Error("Failed to start trigger subscriber", "error", err)
			os.Exit(1)
		}
	}

	// 7. Metrics endpoint
	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
		logger.Info("Metrics endpoint listening", "addr", cfg.MetricsAddr)
	}

	logger.Info("searchsync started", "interval", cfg.Sync.Interval, "page_size", cfg.Sync.PageSize)

	// 8. Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if sub != nil {
		if err := sub.Stop(); err != nil {
			logger.Error("Trigger subscriber shutdown failed", "error", err)
		}
	}
	if err := runner.Stop(shutdownCtx); err != nil {
		logger.Error("Runner shutdown failed", "error", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown failed", "error", err)
		}
	}
	logger.Info("Shutdown complete")
}
