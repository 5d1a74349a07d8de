package commands

import (
	"github.com/spf13/cobra"

	"github.com/pixcrypt/pixcrypt/internal/config"
	"github.com/pixcrypt/pixcrypt/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags] files|directories...",
		Aliases: []string{"enc"},
		Short:   "Encrypt bitmap pixel data",
		Long: `Encrypts the pixel data of the given bitmaps. Directories are walked recursively
and every .bmp file not already carrying the encrypt suffix is processed.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.Run(cmd.Context(), cfg)
		},
	}
}
