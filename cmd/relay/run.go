package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"hunterhq/relay/pkg/analysis"
	"hunterhq/relay/pkg/api/handlers"
	"hunterhq/relay/pkg/cache"
	"hunterhq/relay/pkg/cli"
	"hunterhq/relay/pkg/config"
	"hunterhq/relay/pkg/history"
	"hunterhq/relay/pkg/history/recorder"
	"hunterhq/relay/pkg/history/retention"
	"hunterhq/relay/pkg/history/storage"
	"hunterhq/relay/pkg/prompts"
	"hunterhq/relay/pkg/providerfactory"
	"hunterhq/relay/pkg/quota"
	"hunterhq/relay/pkg/routing"
	"hunterhq/relay/pkg/server"
	"hunterhq/relay/pkg/telemetry/logging"
	"hunterhq/relay/pkg/telemetry/metrics"
	"hunterhq/relay/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the relay server",
	Long: `Start the relay server with the specified configuration.

The server listens on the configured address and routes AI requests
across the registered providers with sequential fallback.

Examples:
  # Start with environment-driven configuration
  relay run

  # Start with a config file
  relay run --config /etc/relay/config.yaml

  # Override listen address
  relay run --listen 0.0.0.0:8080

  # Validate config without starting the server
  relay run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	// Structured logging becomes the process-wide default
	logger, err := logging.New(logging.Config{
		Level:         cfg.Logging.Level,
		Format:        cfg.Logging.Format,
		AddSource:     cfg.Logging.AddSource,
		RedactSecrets: cfg.Logging.RedactSecretsEnabled(),
	})
	if err != nil {
		return cli.NewConfigError("logging", err.Error())
	}
	slog.SetDefault(logger.Slog())

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	printBanner(cfg)

	// Tracing
	tracer, err := tracing.New(&cfg.Tracing)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	// Metrics
	var collector *metrics.Collector
	if cfg.Metrics.IsEnabled() {
		collector = metrics.NewCollector(&cfg.Metrics, nil)
	}

	// Providers
	slog.Info("initializing providers")
	reg := providerfactory.NewRegistry(cfg)
	defer reg.Close()

	fmt.Printf("✓ Providers initialized (%d registered)\n", reg.Len())

	// Router observers: metrics first, then history recording
	var observers []routing.Observer
	if collector != nil {
		observers = append(observers, collector)
	}

	if cfg.History.IsEnabled() {
		var store history.Storage
		switch cfg.History.Backend {
		case "sqlite":
			store, err = storage.NewSQLiteStorage(&storage.SQLiteConfig{
				Path:         cfg.History.SQLite.Path,
				MaxOpenConns: cfg.History.SQLite.MaxOpenConns,
				MaxIdleConns: cfg.History.SQLite.MaxIdleConns,
				BusyTimeout:  cfg.History.SQLite.BusyTimeout,
			})
			if err != nil {
				return cli.NewCommandError("run", fmt.Errorf("failed to open history storage: %w", err))
			}
		case "memory":
			store = storage.NewMemoryStorage(cfg.History.Memory.MaxRecords)
		default:
			return cli.NewConfigError("history.backend", fmt.Sprintf("unsupported backend %q", cfg.History.Backend))
		}
		defer store.Close()

		recorderCfg := recorder.DefaultConfig()
		if cfg.History.BufferSize > 0 {
			recorderCfg.BufferSize = cfg.History.BufferSize
		}
		rec := recorder.NewRecorder(store, recorderCfg)
		defer rec.Close()
		observers = append(observers, rec)

		if cfg.History.Retention.Schedule != "" {
			pruner := retention.NewPruner(store, &retention.Config{
				Days:     cfg.History.Retention.Days,
				Schedule: cfg.History.Retention.Schedule,
			})
			if err := pruner.Start(context.Background()); err != nil {
				slog.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
				if next := pruner.NextPruning(); next != nil {
					slog.Debug("history retention scheduled", "next_pruning", next)
				}
			}
		}

		fmt.Printf("✓ History recording enabled (%s backend)\n", cfg.History.Backend)
	}

	// Router
	router := routing.NewRouter(reg, observers...)

	// Prompt templates, optionally overridden and hot-reloaded
	promptStore := prompts.NewStore()
	if cfg.Analysis.PromptFile != "" {
		if err := promptStore.LoadFile(cfg.Analysis.PromptFile); err != nil {
			return cli.NewConfigError("analysis.prompt_file", err.Error())
		}
		fmt.Printf("✓ Prompt overrides loaded (version %s)\n", promptStore.Version())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Analysis.WatchPrompts && cfg.Analysis.PromptFile != "" {
		go func() {
			if err := promptStore.Watch(ctx); err != nil && ctx.Err() == nil {
				slog.Warn("prompt watcher stopped", "error", err)
			}
		}()
	}

	// Result cache and analyzer
	resultCache := cache.New(&cfg.Cache, cacheMetrics(collector))
	defer resultCache.Close()

	analyzer := analysis.NewAnalyzer(router, promptStore, resultCache)

	// Quota enforcement
	var tracker *quota.Tracker
	if cfg.Quota.Enabled {
		var qstore quota.Store
		switch cfg.Quota.Backend {
		case "sqlite":
			qstore, err = quota.NewSQLiteStore(cfg.Quota.SQLitePath)
			if err != nil {
				return cli.NewCommandError("run", fmt.Errorf("failed to open quota store: %w", err))
			}
		case "memory", "":
			qstore = quota.NewMemoryStore()
		default:
			return cli.NewConfigError("quota.backend", fmt.Sprintf("unsupported backend %q", cfg.Quota.Backend))
		}
		tracker = quota.NewTracker(qstore, cfg.Quota.DailyLimit)
		defer tracker.Close()
		fmt.Printf("✓ Quota enforcement enabled (%d requests/day)\n", cfg.Quota.DailyLimit)
	}

	// HTTP server
	ai := handlers.NewAIHandler(router, analyzer, reg)
	srv := server.New(&cfg.Server, ai, server.Options{
		Collector:   collector,
		MetricsPath: cfg.Metrics.Path,
		Tracker:     tracker,
	})

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/api/ai/health\n", cfg.Server.ListenAddress)
	if collector != nil {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for shutdown signal or server error
	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)

		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("shutdown failed", "error", err)
			return cli.NewCommandError("run", err)
		}

		fmt.Println("✓ Server stopped")
		return nil
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Relay v%s\n", Version)
	if cfgFile != "" {
		fmt.Printf("Loading configuration from: %s\n", cfgFile)
	}
	fmt.Println("✓ Configuration loaded")

	slog.Debug("router configured",
		"default_provider", cfg.Router.DefaultProvider,
	)
}

// cacheMetrics adapts the collector to the cache's metrics interface. A
// plain conversion would hand the cache a non-nil interface wrapping a
// nil pointer.
func cacheMetrics(collector *metrics.Collector) cache.Metrics {
	if collector == nil {
		return nil
	}
	return collector
}
