package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"complie-hq/tabula/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load and validate a configuration file, reporting every problem found.

Environment variable overrides (COMPLIE_SECTION_FIELD) are applied before
validation, so the command checks the configuration the server would
actually run with.

Examples:
  # Validate the default config file
  complie validate

  # Validate a specific file
  complie validate --config /etc/complie/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			fmt.Println("Configuration is invalid:")
			for _, fieldErr := range verr.Errors {
				fmt.Printf("  ✗ %s\n", fieldErr.Error())
			}
			return fmt.Errorf("%d validation error(s)", len(verr.Errors))
		}
		return err
	}

	fmt.Println("✓ Configuration valid")
	fmt.Printf("  Listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  Store backend:  %s\n", cfg.Store.Backend)
	if cfg.Store.Backend == "sqlite" {
		fmt.Printf("  Database path:  %s\n", cfg.Store.SQLite.Path)
	}
	fmt.Printf("  Output dir:     %s\n", cfg.Export.OutputDir)
	if cfg.Schedule.Enabled {
		fmt.Printf("  Schedule:       %s (%s, %v)\n", cfg.Schedule.Cron, cfg.Schedule.Format, cfg.Schedule.Kinds)
	} else {
		fmt.Println("  Schedule:       disabled")
	}
	return nil
}
