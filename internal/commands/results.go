package commands

import (
	"github.com/spf13/cobra"

	"github.com/pixcrypt/pixcrypt/internal/config"
	"github.com/pixcrypt/pixcrypt/internal/logic"
)

// NewResultsCommand creates the results command group for the result store.
func NewResultsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "results",
		Aliases: []string{"res"},
		Short:   "Inspect outputs recorded in the result store",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			PreRunE: load(cfg),
			Short:   "List all stored results",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return logic.ListResults(cfg, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:     "last",
			PreRunE: load(cfg),
			Short:   "Show the most recent result",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return logic.LastResult(cfg, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:     "export id path",
			PreRunE: load(cfg),
			Short:   "Write a stored image to path",
			Args:    cobra.ExactArgs(2), //nolint:mnd
			RunE: func(_ *cobra.Command, args []string) error {
				return logic.ExportResult(cfg, args[0], args[1])
			},
		},
	)

	return cmd
}
