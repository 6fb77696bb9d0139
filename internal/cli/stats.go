package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/ui"
)

type categoryCount struct {
	Category   string `json:"category"`
	Governance string `json:"governance"`
	Count      int    `json:"count"`
}

func newStatsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show notebook counts per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireNotebooksDir(); err != nil {
				return err
			}
			var counts []categoryCount
			total := 0
			for _, c := range category.All() {
				paths, err := notebooksIn(a.ws.CategoryDir(c))
				if err != nil {
					return a.handleError(ErrFileReadError, err, "")
				}
				counts = append(counts, categoryCount{
					Category:   c.String(),
					Governance: string(c.Policy().Governance),
					Count:      len(paths),
				})
				total += len(paths)
			}

			if a.jsonOutput {
				a.outputSuccess(map[string]interface{}{
					"categories": counts,
					"total":      total,
				}, &Meta{Count: total})
				return nil
			}

			a.out.Println(ui.Header("Notebook statistics"))
			a.out.Println()
			tbl := ui.NewTable(3).AlignRight(1)
			for _, cc := range counts {
				tbl.AddRow("  "+ui.Accent.Render(cc.Category), fmt.Sprintf("%d", cc.Count), ui.Hint(cc.Governance+" governance"))
			}
			tbl.AddRow("  "+ui.Bold.Render("total"), ui.Bold.Render(fmt.Sprintf("%d", total)), "")
			a.out.Printf("%s", tbl.String())
			return nil
		},
	}
}
