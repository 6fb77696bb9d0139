package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/audit"
	"github.com/aikit/nbgov/internal/prompt"
	"github.com/aikit/nbgov/internal/ui"
)

func newDeleteCmd(a *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete a notebook",
		Long: `Delete a notebook after confirmation.

This command does not consult category retention policy. To retire an
exploratory notebook with a migration record, use 'nbgov migrate --delete'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := a.absPath(args[0])
			rel := a.ws.Rel(p)
			if !fileExists(p) {
				return a.handleErrorMsg(ErrFileNotFound, fmt.Sprintf("notebook not found: %s", rel), "")
			}

			if !yes {
				ok, err := a.Prompter.Confirm(ctx, fmt.Sprintf("Delete %s?", ui.FilePath(rel)), false)
				if err != nil {
					return a.promptError(err, "--yes")
				}
				if !ok {
					return prompt.ErrCancelled
				}
			}

			if err := os.Remove(p); err != nil {
				return a.handleError(ErrFileWriteError, fmt.Errorf("failed to delete %s: %w", rel, err), "")
			}

			entry := audit.Entry{Operation: audit.OpDelete, Path: rel}
			if c, err := a.categoryOf(p); err == nil {
				entry.Category = c.String()
			}
			a.record(ctx, entry)

			if a.jsonOutput {
				a.outputSuccess(map[string]interface{}{"deleted": rel}, nil)
				return nil
			}
			a.out.Success("Deleted %s", ui.FilePath(rel))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
