package commands

import (
	"github.com/spf13/cobra"

	"github.com/gridleaf-labs/cellform/internal/backend"
	"github.com/gridleaf-labs/cellform/internal/editor"
	"github.com/gridleaf-labs/cellform/internal/tui"
)

// NewEditCommand creates the edit command.
func NewEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <target-column>",
		Short: "Edit a column formula interactively",
		Long: `Open the interactive formula editor for a target column.

The editor validates as you type, shows signature help for the call under
the cursor, and completes function and column names. Enter applies the
formula via the configured execution service once the full gate passes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			cols, err := cmdCtx.LoadColumns(true)
			if err != nil {
				return err
			}

			session := editor.NewSession(cmdCtx.Catalog, cols, args[0])
			applier := backend.NewClient(cmdCtx.Cfg.BackendURL)
			return tui.Run(session, applier)
		},
	}
}
