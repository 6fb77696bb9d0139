package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/migration"
	"github.com/aikit/nbgov/internal/ui"
)

func newMigrationsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrations [record]",
		Short: "List migration records, or show one",
		Long: `List the migration records in docs/migrations, newest first.

Given a record path, render it in the terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return a.showMigration(args[0])
			}

			records, skipped, err := migration.List(a.ws.MigrationsDir())
			if err != nil {
				return a.handleError(ErrFileReadError, err, "")
			}
			var warnings []Warning
			for _, s := range skipped {
				warnings = append(warnings, Warning{
					Code:    WarnSkippedRecords,
					Message: "not a migration record (no frontmatter)",
					Path:    a.ws.Rel(s),
				})
			}
			for i := range records {
				records[i].Path = a.ws.Rel(records[i].Path)
			}

			if a.jsonOutput {
				if records == nil {
					records = []migration.Record{}
				}
				a.outputSuccessWithWarnings(map[string]interface{}{"records": records}, warnings, &Meta{Count: len(records)})
				return nil
			}

			if len(records) == 0 {
				a.out.Info("No migration records in %s", ui.FilePath(a.ws.Rel(a.ws.MigrationsDir())))
				return nil
			}
			tbl := ui.NewTable(4)
			for _, r := range records {
				state := ""
				if r.Deleted {
					state = ui.Hint("deleted")
				}
				tbl.AddRow(r.Date, ui.FilePath(r.Notebook), "→ "+r.Destination, state)
			}
			a.out.Printf("%s", tbl.String())
			for _, w := range warnings {
				a.out.Warning("%s: %s", w.Path, w.Message)
			}
			return nil
		},
	}
	return cmd
}

func (a *App) showMigration(arg string) error {
	p := a.absPath(arg)
	data, err := os.ReadFile(p)
	if err != nil {
		return a.handleErrorMsg(ErrFileNotFound, fmt.Sprintf("migration record not found: %s", a.ws.Rel(p)), "Run 'nbgov migrations' to list records")
	}
	record, err := migration.Parse(data)
	if err != nil {
		return a.handleError(ErrFileReadError, err, "")
	}

	if a.jsonOutput {
		record.Path = a.ws.Rel(p)
		a.outputSuccess(record, nil)
		return nil
	}

	rendered, err := ui.RenderMarkdown(migration.Body(data), a.Display.AvailableWidth(ui.MarkdownRenderMargin))
	if err != nil {
		return a.handleError(ErrInternal, err, "")
	}
	a.out.Printf("%s", rendered)
	return nil
}
