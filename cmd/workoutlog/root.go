// ABOUTME: Root Cobra command for workoutlog CLI.
// ABOUTME: Loads config and opens storage, cache, and report service via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"time"

	"github.com/harperreed/workoutlog/internal/config"
	"github.com/harperreed/workoutlog/internal/logging"
	"github.com/harperreed/workoutlog/internal/metrics"
	"github.com/harperreed/workoutlog/internal/report"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	repo     storage.Repository
	svc      *report.Service
	registry *prometheus.Registry

	flagBackend  string
	flagDataDir  string
	flagLogLevel string

	// nowFunc is the clock handed to the report service.
	nowFunc = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "workoutlog",
	Short: "Bodyweight workout log with consistency analytics",
	Long: `Workoutlog records bodyweight workouts set by set and tells you how
consistently you train.

WHAT IT TRACKS:

  Exercises   a catalog entry with a category (chest, back, shoulders, arms,
              legs, core, cardio, full_body) and a kind (reps or time)
  Workouts    a timestamped session holding sets in the order you did them

QUICK START:

  $ workoutlog exercise add Push-up -c chest        # Add to the catalog
  $ workoutlog exercise add Plank -c core -k time   # Timed exercise
  $ workoutlog workout add Push-up:20 Push-up:15 Plank:60
  $ workoutlog streak                               # Current and longest streak

ANALYTICS:

  $ workoutlog frequency --period weekly     # Share of days trained
  $ workoutlog consistency Push-up           # Rest gaps and pattern
  $ workoutlog trend --category chest        # Are gaps shrinking?
  $ workoutlog compare Push-up               # This year vs last year
  $ workoutlog categories                    # Every category at once
  $ workoutlog targets Push-up               # Best and average per set position
  $ workoutlog report --format yaml          # Full dashboard

MCP INTEGRATION:

  Run 'workoutlog mcp' to start the Model Context Protocol server for use with
  MCP-compatible AI assistants:

  {
    "mcpServers": {
      "workoutlog": { "command": "workoutlog", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Settings live in ~/.config/workoutlog/config.json. Data is stored in SQLite at
  ~/.local/share/workoutlog/workoutlog.db, or in Badger when backend is "badger".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return openService()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeService()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite or badger (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: trace, debug, info, warn, error")
}

// openService loads config, sets up logging and opens storage behind a report service.
func openService() error {
	// A previous run in the same process may have failed before PostRun.
	if err := closeService(); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	logging.Setup(logging.SetupParams{
		LogLevel:      cfg.GetLogLevel(),
		LogFormatJSON: cfg.LogFormatJSON,
	})
	logger := logrus.WithField("backend", cfg.GetBackend())

	repo, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	setRepoLogger(repo, logger)

	registry = prometheus.NewRegistry()
	m := metrics.NewManager("workoutlog", "cli", registry)

	svc = report.NewService(repo, report.Options{
		Cache:   cfg.NewCache(m, logger),
		Now:     nowFunc,
		Logger:  logger,
		Metrics: m,
	})

	logger.WithField("data_dir", cfg.GetDataDir()).Debug("storage opened")
	return nil
}

// closeService logs collected counters and closes storage.
func closeService() error {
	if registry != nil {
		logCounters(registry)
		registry = nil
	}
	svc = nil
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	if err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}

func setRepoLogger(r storage.Repository, logger logrus.FieldLogger) {
	switch s := r.(type) {
	case *storage.DB:
		s.SetLogger(logger)
	case *storage.KVStore:
		s.SetLogger(logger)
	}
}

// logCounters reports cache and mutation counters at debug level.
func logCounters(reg *prometheus.Registry) {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}

	families, err := reg.Gather()
	if err != nil {
		logrus.WithError(err).Debug("gather metrics")
		return
	}

	fields := logrus.Fields{}
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
		}
		if total > 0 {
			fields[mf.GetName()] = total
		}
	}
	logrus.WithFields(fields).Debug("run counters")
}
