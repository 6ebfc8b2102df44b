package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"complie-hq/tabula/pkg/cli"
	"complie-hq/tabula/pkg/config"
	"complie-hq/tabula/pkg/export/deliver"
	"complie-hq/tabula/pkg/export/encode"
	"complie-hq/tabula/pkg/export/runner"
	"complie-hq/tabula/pkg/export/scheduler"
	"complie-hq/tabula/pkg/server"
	"complie-hq/tabula/pkg/telemetry/logging"
	"complie-hq/tabula/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	watch         bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the export API server",
	Long: `Start the HTTP server that runs exports on demand.

The server exposes POST /api/export for file downloads, GET /healthz for
liveness checks, and GET /metrics for Prometheus metrics. When a schedule
is configured, recurring exports run in the background.

Examples:
  # Start with default config
  complie serve

  # Start with custom config
  complie serve --config /etc/complie/config.yaml

  # Override listen address
  complie serve --listen 0.0.0.0:8080

  # Reload the schedule when the config file changes
  complie serve --watch`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "reload schedule on config file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}

	logger, err := logging.Init(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	st, err := newStore(cfg)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer st.Close()

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(metrics.DefaultConfig())
	}

	r := runner.New(runner.Deps{
		Store:    st,
		Encoders: encode.DefaultRegistry(),
		Metrics:  collector,
		Logger:   logger,
	})

	ctx := cli.SetupSignalHandler()

	sched := startScheduler(ctx, cfg, r, logger)
	defer stopScheduler(sched)

	if serveFlags.watch {
		if err := watchSchedule(ctx, cfg, r, logger, &sched); err != nil {
			return cli.NewCommandError("serve", err)
		}
	}

	srv := server.NewServer(&cfg.Server, r, server.Options{
		Metrics:      collector,
		MetricsPath:  cfg.Telemetry.Metrics.Path,
		DefaultTitle: cfg.Export.Title,
		Logger:       logger,
	})
	return srv.Start(ctx)
}

// startScheduler starts the recurring export schedule if one is enabled.
// It returns nil when scheduling is disabled.
func startScheduler(ctx context.Context, cfg *config.Config, r *runner.Runner, logger *slog.Logger) *scheduler.Scheduler {
	if !cfg.Schedule.Enabled {
		return nil
	}

	sched := scheduler.New(scheduler.Config{
		Cron:            cfg.Schedule.Cron,
		OwnerID:         cfg.Schedule.OwnerID,
		Format:          cfg.Schedule.Format,
		Kinds:           cfg.Schedule.Kinds,
		IncludeArchived: cfg.Export.IncludeArchived,
		Title:           cfg.Export.Title,
	}, r, deliver.NewFileSink(cfg.Export.OutputDir))

	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start export scheduler", "error", err)
		return nil
	}
	if next := sched.NextRun(); next != nil {
		logger.Info("next scheduled export", "at", next.Format("2006-01-02 15:04:05"))
	}
	return sched
}

func stopScheduler(sched *scheduler.Scheduler) {
	if sched != nil {
		sched.Stop()
	}
}

// watchSchedule restarts the scheduler whenever the config file changes.
// Server settings still require a restart; only the schedule section is
// applied live.
func watchSchedule(ctx context.Context, cfg *config.Config, r *runner.Runner, logger *slog.Logger, sched **scheduler.Scheduler) error {
	if _, err := os.Stat(cfgFile); err != nil {
		logger.Warn("config watch requested but config file is not readable, skipping", "path", cfgFile)
		return nil
	}

	watcher, err := config.NewWatcher(cfgFile, logger)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	go func() {
		err := watcher.Watch(ctx, func(updated *config.Config) {
			mu.Lock()
			defer mu.Unlock()

			stopScheduler(*sched)
			*sched = startScheduler(ctx, updated, r, logger)
			logger.Info("schedule configuration applied",
				"enabled", updated.Schedule.Enabled,
				"cron", updated.Schedule.Cron,
			)
		})
		if err != nil {
			logger.Error("config watcher exited", "error", err)
		}
	}()

	return nil
}
