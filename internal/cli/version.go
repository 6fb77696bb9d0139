package cli

import (
	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/buildinfo"
	"github.com/aikit/nbgov/internal/ui"
)

func newVersionCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show nbgov version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildinfo.Current()
			if a.jsonOutput {
				a.outputSuccess(info, nil)
				return nil
			}

			a.out.Println("nbgov " + info.Version)
			tbl := ui.NewTable(2)
			tbl.AddRow("  module", info.ModulePath)
			if info.Commit != "" {
				commit := info.Commit
				if info.Modified {
					commit += " (modified)"
				}
				tbl.AddRow("  commit", commit)
			}
			if info.CommitTime != "" {
				tbl.AddRow("  built", info.CommitTime)
			}
			tbl.AddRow("  go", info.GoVersion)
			tbl.AddRow("  platform", info.Platform)
			a.out.Printf("%s", tbl.String())
			return nil
		},
	}
}
