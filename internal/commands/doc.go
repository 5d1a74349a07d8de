// Package commands provides the command-line interface for the pixcrypt tool.
//
// It implements commands for:
//   - encryption and decryption of bitmap pixel data
//   - batch processing from a manifest
//   - inspecting and exporting stored results
//   - key generation
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/pixcrypt/pixcrypt/internal/config"
)

// readConfigFile merges the file named by --config into the bound flags and environment.
func readConfigFile(_ *cobra.Command, _ []string) error {
	path := viper.GetString("config")
	if path == "" {
		return nil
	}

	viper.SetConfigFile(path)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	return nil
}

// preRun returns a PreRunE handler that stores positional args in cfg.Files
// and validates the configuration.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg.Files = args

		return cobraext.Validate(cfg, cfg) //nolint:wrapcheck
	}
}

// load only unmarshals the configuration, for commands without inputs to validate.
func load(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		return cobraext.Validate(cfg) //nolint:wrapcheck
	}
}
