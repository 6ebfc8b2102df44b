package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"complie-hq/tabula/pkg/config"
	"complie-hq/tabula/pkg/export/store"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "complie",
	Short: "Complie - freelancer workspace data exports",
	Long: `Complie exports a freelancer's workspace data to portable files.

It turns the projects, tasks, clients and notes stored for a user into
PDF, CSV or XLSX documents, providing:
  - Per-user data scoping with a denylist for internal fields
  - Identical section ordering across all three formats
  - Scheduled recurring exports via cron expressions
  - Prometheus metrics and structured logging`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is not an error; it is simply absent.
		_ = godotenv.Load()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration file with environment overrides.
// When the default config file does not exist, built-in defaults plus
// environment overrides are used so the CLI works out of the box.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config

	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if rootCmd.PersistentFlags().Changed("config") {
			return nil, fmt.Errorf("config file %q not found", cfgFile)
		}
		cfg = config.DefaultConfig()
		config.ApplyEnvOverrides(cfg)
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return nil, err
		}
	}

	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// newStore opens the configured store backend.
func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		return store.NewSQLiteStore(&store.SQLiteConfig{
			Path:         cfg.Store.SQLite.Path,
			MaxOpenConns: cfg.Store.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Store.SQLite.MaxIdleConns,
			WALMode:      cfg.Store.SQLite.WALMode,
			BusyTimeout:  cfg.Store.SQLite.BusyTimeout,
		})
	case "memory":
		return store.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
}
