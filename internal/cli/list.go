package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/metadata"
	"github.com/aikit/nbgov/internal/notebook"
	"github.com/aikit/nbgov/internal/ui"
	"github.com/aikit/nbgov/internal/validate"
)

type notebookEntry struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Valid    *bool  `json:"valid,omitempty"`
}

func newListCmd(a *App) *cobra.Command {
	var (
		categoryFilter string
		long           bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notebooks by category",
		Long: `List the notebooks in each category directory.

Use --long to also show each notebook's title, author and whether it passes
validation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireNotebooksDir(); err != nil {
				return err
			}
			cats := category.All()
			if categoryFilter != "" {
				c, err := category.Parse(categoryFilter)
				if err != nil {
					return a.handleError(ErrInvalidCategory, err, "")
				}
				cats = []category.Category{c}
			}

			groups := make(map[category.Category][]notebookEntry, len(cats))
			total := 0
			for _, c := range cats {
				paths, err := notebooksIn(a.ws.CategoryDir(c))
				if err != nil {
					return a.handleError(ErrFileReadError, err, "")
				}
				for _, p := range paths {
					entry := notebookEntry{Path: a.ws.Rel(p), Name: stem(p), Category: c.String()}
					if long {
						describeNotebook(p, &entry)
					}
					groups[c] = append(groups[c], entry)
				}
				total += len(paths)
			}

			if a.jsonOutput {
				all := []notebookEntry{}
				for _, c := range cats {
					all = append(all, groups[c]...)
				}
				a.outputSuccess(map[string]interface{}{"notebooks": all}, &Meta{Count: total})
				return nil
			}

			if total == 0 {
				a.out.Info("No notebooks found in %s", ui.FilePath(a.ws.Rel(a.ws.NotebooksDir())))
				a.out.Hint("Create one with 'nbgov create'")
				return nil
			}
			for _, c := range cats {
				entries := groups[c]
				if len(entries) == 0 {
					continue
				}
				a.out.Printf("%s %s\n", ui.AccentBold.Render(c.Policy().DisplayName), ui.Hint(fmt.Sprintf("(%d)", len(entries))))
				cols := 1
				if long {
					cols = 3
				}
				tbl := ui.NewTable(cols)
				for _, e := range entries {
					if !long {
						tbl.AddRow("  " + e.Name)
						continue
					}
					state := ui.SymbolSuccess
					if e.Valid != nil && !*e.Valid {
						state = ui.SymbolError
					}
					tbl.AddRow("  "+state+" "+e.Name, e.Title, ui.Hint(e.Author))
				}
				a.out.Printf("%s", tbl.String())
				a.out.Println()
			}
			a.out.Printf("%s\n", ui.Hint(fmt.Sprintf("%d notebooks", total)))
			return nil
		},
	}
	cmd.Flags().StringVar(&categoryFilter, "category", "", "Only list this category")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show title, author and validation state")
	return cmd
}

// describeNotebook fills in header details; unreadable notebooks are
// reported as invalid.
func describeNotebook(p string, e *notebookEntry) {
	r := validate.Notebook(p)
	valid := r.Passed
	e.Valid = &valid

	nb, err := notebook.Load(p)
	if err != nil {
		return
	}
	first := nb.FirstCell()
	if first == nil || first.CellType != notebook.CellMarkdown {
		return
	}
	md := metadata.Extract(first.Source.String())
	e.Title = md.Title
	e.Author = md.Value(metadata.FieldAuthor)
}
