package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Store defaults
	DefaultStoreBackend      = "sqlite"
	DefaultSQLitePath        = "data/complie.db"
	DefaultSQLiteMaxOpen     = 10
	DefaultSQLiteMaxIdle     = 5
	DefaultSQLiteWALMode     = true
	DefaultSQLiteBusyTimeout = 5 * time.Second

	// Export defaults
	DefaultExportTitle     = "Complie Data Export"
	DefaultExportOutputDir = "exports"

	// Schedule defaults
	DefaultScheduleCron   = "0 3 * * *"
	DefaultScheduleFormat = "csv"

	// Telemetry defaults
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"
)

// DefaultConfig returns a configuration with every field set to its
// default. LoadConfig unmarshals the YAML file over this value, so
// explicit false settings in the file survive.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress:   DefaultListenAddress,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Store: StoreConfig{
			Backend: DefaultStoreBackend,
			SQLite: SQLiteConfig{
				Path:         DefaultSQLitePath,
				MaxOpenConns: DefaultSQLiteMaxOpen,
				MaxIdleConns: DefaultSQLiteMaxIdle,
				WALMode:      DefaultSQLiteWALMode,
				BusyTimeout:  DefaultSQLiteBusyTimeout,
			},
		},
		Export: ExportConfig{
			Title:     DefaultExportTitle,
			OutputDir: DefaultExportOutputDir,
		},
		Schedule: ScheduleConfig{
			Cron:   DefaultScheduleCron,
			Format: DefaultScheduleFormat,
			Kinds:  []string{"all"},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  DefaultLogLevel,
				Format: DefaultLogFormat,
			},
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
				Path:    DefaultMetricsPath,
			},
		},
	}
}

// ApplyDefaults fills unset (zero) fields with default values. Boolean
// fields are left alone; use DefaultConfig as the base when defaults for
// those are wanted.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Store.SQLite.MaxOpenConns == 0 {
		cfg.Store.SQLite.MaxOpenConns = DefaultSQLiteMaxOpen
	}
	if cfg.Store.SQLite.MaxIdleConns == 0 {
		cfg.Store.SQLite.MaxIdleConns = DefaultSQLiteMaxIdle
	}
	if cfg.Store.SQLite.BusyTimeout == 0 {
		cfg.Store.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}

	if cfg.Export.Title == "" {
		cfg.Export.Title = DefaultExportTitle
	}
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = DefaultExportOutputDir
	}

	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = DefaultScheduleCron
	}
	if cfg.Schedule.Format == "" {
		cfg.Schedule.Format = DefaultScheduleFormat
	}
	if len(cfg.Schedule.Kinds) == 0 {
		cfg.Schedule.Kinds = []string{"all"}
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
