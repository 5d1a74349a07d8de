package commands

import (
	"github.com/spf13/cobra"

	"github.com/pixcrypt/pixcrypt/internal/config"
	"github.com/pixcrypt/pixcrypt/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] files|directories...",
		Aliases: []string{"dec"},
		Short:   "Decrypt bitmap pixel data",
		Long: `Decrypts the pixel data of the given bitmaps. Directories are walked recursively
and every .bmp file carrying the encrypt suffix is processed.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Decrypt = true

			return preRun(cfg)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.Run(cmd.Context(), cfg)
		},
	}
}
