package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/ui"
)

type categoryInfo struct {
	Name             string   `json:"name"`
	DisplayName      string   `json:"display_name"`
	Description      string   `json:"description"`
	Governance       string   `json:"governance"`
	SpecRequired     bool     `json:"spec_required"`
	Retention        string   `json:"retention"`
	TemplateFile     string   `json:"template_file"`
	AdditionalFields []string `json:"additional_fields"`
	CanDelete        bool     `json:"can_delete"`
	CanTag           bool     `json:"can_tag"`
}

func newCategoriesCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show the category registry and its policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []categoryInfo
			for _, c := range category.All() {
				p := c.Policy()
				fields := p.AdditionalFields
				if fields == nil {
					fields = []string{}
				}
				infos = append(infos, categoryInfo{
					Name:             p.Name,
					DisplayName:      p.DisplayName,
					Description:      p.Description,
					Governance:       string(p.Governance),
					SpecRequired:     p.SpecRequired,
					Retention:        string(p.Retention),
					TemplateFile:     p.TemplateFile,
					AdditionalFields: fields,
					CanDelete:        category.CanDelete(c),
					CanTag:           category.CanTag(c),
				})
			}

			if a.jsonOutput {
				a.outputSuccess(map[string]interface{}{"categories": infos}, &Meta{Count: len(infos)})
				return nil
			}

			for _, info := range infos {
				a.out.Printf("%s %s\n", ui.AccentBold.Render(info.Name), ui.Hint("- "+info.Description))
				tbl := ui.NewTable(2)
				tbl.AddRow("    governance", info.Governance)
				tbl.AddRow("    retention", info.Retention)
				spec := "no"
				if info.SpecRequired {
					spec = "yes"
				}
				tbl.AddRow("    spec required", spec)
				if len(info.AdditionalFields) > 0 {
					tbl.AddRow("    extra fields", strings.Join(info.AdditionalFields, ", "))
				}
				a.out.Printf("%s\n", tbl.String())
			}
			return nil
		},
	}
}
