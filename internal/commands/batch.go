package commands

import (
	"github.com/spf13/cobra"

	"github.com/pixcrypt/pixcrypt/internal/config"
	"github.com/pixcrypt/pixcrypt/internal/logic"
)

// NewBatchCommand creates a new cobra command processing a JSONC manifest of jobs.
func NewBatchCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "batch [flags] manifest.jsonc",
		Short: "Process the jobs listed in a manifest",
		Long: `Processes every job of a JSONC manifest. Each entry names a source, a destination,
an operation (encrypt or decrypt) and a mode (ECB or CBC), and may override the key
and the number of workers given on the command line.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Manifest = args[0]

			return preRun(cfg)(cmd, nil)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunBatch(cmd.Context(), cfg)
		},
	}
}
