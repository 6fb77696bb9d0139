package cli

import (
	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/audit"
	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/ui"
)

func newAuditCmd(a *App) *cobra.Command {
	var (
		categoryFilter string
		operation      string
		limit          int
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the governance audit log",
		Long: `Show governance events (create, delete, migrate, tag, run, convert)
recorded in the workspace's audit ledger, newest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := audit.Filter{Operation: operation, Limit: limit}
			if categoryFilter != "" {
				c, err := category.Parse(categoryFilter)
				if err != nil {
					return a.handleError(ErrInvalidCategory, err, "")
				}
				filter.Category = c.String()
			}

			ledger := a.ledger()
			if !ledger.Enabled() && !a.jsonOutput {
				a.out.Info("Audit logging is disabled")
				a.out.Hint("Set [audit] enabled = true in nbgov.toml")
				return nil
			}
			entries, err := ledger.List(filter)
			if err != nil {
				return a.handleError(ErrDatabaseError, err, "")
			}

			if a.jsonOutput {
				if entries == nil {
					entries = []audit.Entry{}
				}
				a.outputSuccess(map[string]interface{}{"entries": entries}, &Meta{Count: len(entries)})
				return nil
			}
			if len(entries) == 0 {
				a.out.Info("No audit entries")
				return nil
			}
			tbl := ui.NewTable(5)
			for _, e := range entries {
				tbl.AddRow(
					ui.Hint(e.Timestamp.Local().Format("2006-01-02 15:04")),
					ui.Bold.Render(e.Operation),
					e.Category,
					ui.FilePath(e.Path),
					ui.Hint(e.Actor),
				)
			}
			a.out.Printf("%s", tbl.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&categoryFilter, "category", "", "Only show this category")
	cmd.Flags().StringVar(&operation, "op", "", "Only show this operation")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum entries to show (0 for all)")
	return cmd
}
