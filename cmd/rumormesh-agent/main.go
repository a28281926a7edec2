package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rumormesh/internal/agent/config"
	"github.com/yndnr/rumormesh/internal/core/domain"
	"github.com/yndnr/rumormesh/internal/core/membership"
	"github.com/yndnr/rumormesh/internal/core/rumor"
	"github.com/yndnr/rumormesh/internal/core/service"
	"github.com/yndnr/rumormesh/internal/core/timing"
	"github.com/yndnr/rumormesh/internal/infra/confloader"
	"github.com/yndnr/rumormesh/internal/infra/shutdown"
	"github.com/yndnr/rumormesh/internal/storage"
	"github.com/yndnr/rumormesh/internal/telemetry/logger"
	"github.com/yndnr/rumormesh/internal/telemetry/metric"
)

// Build information, set via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "rumormesh-agent",
		Usage:   "gossip membership failure-detection agent",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				EnvVars: []string{"RUMORMESH_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Prometheus scrape endpoint address",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})

	log.Info("starting rumormesh-agent",
		"version", version,
		"commit", commit,
		"config", c.String("config"))

	roster := membership.New()
	tm := timing.New(cfg.Gossip.TimingParams(), timing.WithClusterSize(roster.Len))
	cooldownMult := cfg.Gossip.CooldownMult
	heat := rumor.NewHeat(rumor.WithCooldown(func() int {
		return rumor.CooldownForSize(cooldownMult, roster.Len())
	}))
	stores := rumor.NewStores()
	metrics := metric.New()

	shutdownHandler := shutdown.NewHandler(30*time.Second, log)

	sweepOpts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics),
	}

	// Tombstone archive, enabled when a data dir is configured.
	if cfg.Storage.DataDir != "" {
		archive, err := storage.NewArchive(storage.Config{
			Dir:        cfg.Storage.DataDir,
			SyncWrites: true,
		}, log)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		archive.RegisterMetrics(metrics.Registry())

		if cfg.Storage.RestoreOnStart {
			if _, err := archive.Restore(func(m domain.Member) { roster.Apply(m) }); err != nil {
				archive.Close()
				return fmt.Errorf("restore tombstones: %w", err)
			}
		}

		sweepOpts = append(sweepOpts, service.WithArchive(archive))
		shutdownHandler.OnShutdown("archive", func(ctx context.Context) error {
			return archive.Close()
		})
	}

	sweeper := service.NewSweeper(roster, tm, heat, stores, sweepOpts...)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweepDone := make(chan struct{})
	go func() {
		sweeper.Run(sweepCtx)
		close(sweepDone)
	}()
	shutdownHandler.OnShutdown("sweeper", func(ctx context.Context) error {
		stopSweep()
		select {
		case <-sweepDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	// Metrics endpoint.
	if cfg.Telemetry.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		server := &http.Server{
			Addr:              cfg.Telemetry.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			log.Info("metrics endpoint listening", "addr", cfg.Telemetry.MetricsAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server error", "error", err)
				shutdownHandler.Trigger()
			}
		}()

		shutdownHandler.OnShutdown("metrics", func(ctx context.Context) error {
			return server.Shutdown(ctx)
		})
	}

	// Configuration hot reload: protocol timing and log level only.
	if configFile := c.String("config"); configFile != "" {
		watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
		if err != nil {
			return fmt.Errorf("config watcher: %w", err)
		}
		watcher.OnChange(func(string) {
			reloaded, err := loadConfig(c)
			if err != nil {
				log.Error("config reload failed, keeping current parameters", "error", err)
				return
			}
			tm.Update(reloaded.Gossip.TimingParams())
			logger.SetLevel(reloaded.Log.Level)
			log.Info("configuration reloaded",
				"suspicion_timeout", reloaded.Gossip.SuspicionTimeout.String(),
				"departure_timeout", reloaded.Gossip.DepartureTimeout.String(),
				"sweep_interval", reloaded.Gossip.SweepInterval.String())
		})
		if err := watcher.Watch(configFile); err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		watcher.StartAsync()

		shutdownHandler.OnShutdown("config-watcher", func(ctx context.Context) error {
			return watcher.Stop()
		})
	}

	log.Info("agent started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("agent stopped gracefully")
	return nil
}

// loadConfig merges defaults, the optional file, environment, and CLI
// flag overrides.
func loadConfig(c *cli.Context) (*config.AgentConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	// Flags override every other source.
	overrides := map[string]any{}
	if v := c.String("log-level"); v != "" {
		overrides["log.level"] = v
	}
	if v := c.String("metrics-addr"); v != "" {
		overrides["telemetry.metrics_addr"] = v
	}
	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	config.Sanitize(cfg)
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
