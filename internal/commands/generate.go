package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/key"

	"github.com/pixcrypt/pixcrypt/internal/config"
	"github.com/pixcrypt/pixcrypt/internal/pipeline"
)

// NewGenerateCommand creates a command printing a random key.
// The key is hex-encoded, so its printable form is exactly one cipher block long.
func NewGenerateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a new encryption key",
		Args:    cobra.NoArgs,
		PreRunE: load(cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := key.New(pipeline.BlockSize / 2) //nolint:mnd // two hex digits per byte
			if err != nil {
				return fmt.Errorf("generating key: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), key.AsHex())

			return nil
		},
	}
}
