package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/atomicfile"
	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/config"
	"github.com/aikit/nbgov/internal/templates"
	"github.com/aikit/nbgov/internal/ui"
)

func newInitCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a governed notebook workspace",
		Long: `Initialize a workspace at path (default: the current directory).

Creates, keeping anything that already exists:
  - nbgov.toml                 (workspace marker and configuration)
  - notebooks/<category>/      (one directory per category)
  - notebooks/templates/       (a default template per category)
  - docs/migrations/           (migration records)
  - .gitignore entry for .nbgov/ (audit ledger)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := a.Cwd
			if len(args) == 1 {
				root = a.absPath(args[0])
			}
			created, err := initWorkspace(root)
			if err != nil {
				return a.handleError(ErrFileWriteError, err, "")
			}

			if a.jsonOutput {
				a.outputSuccess(map[string]interface{}{"root": root, "created": created}, nil)
				return nil
			}
			a.out.Success("Initialized workspace at %s", ui.FilePath(root))
			for _, c := range created {
				a.out.Printf("  %s %s\n", ui.Hint("created"), c)
			}
			a.out.Hint("Next: nbgov create")
			return nil
		},
	}
}

// initWorkspace lays out a workspace under root and returns the paths it
// created, relative to root.
func initWorkspace(root string) ([]string, error) {
	var created []string
	mkdir := func(rel string) error {
		p := filepath.Join(root, rel)
		if _, err := os.Stat(p); err == nil {
			return nil
		}
		if err := os.MkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", rel, err)
		}
		created = append(created, filepath.ToSlash(rel)+"/")
		return nil
	}
	writeNew := func(rel string, data []byte) error {
		err := atomicfile.WriteNew(filepath.Join(root, rel), data, 0o644)
		switch {
		case err == nil:
			created = append(created, filepath.ToSlash(rel))
			return nil
		case errors.Is(err, atomicfile.ErrExists):
			return nil
		default:
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}
	if err := writeNew(config.FileName, []byte(config.DefaultFileContent)); err != nil {
		return nil, err
	}

	for _, c := range category.All() {
		if err := mkdir(filepath.Join(config.DefaultNotebooksDir, c.String())); err != nil {
			return nil, err
		}
	}
	templatesDir := filepath.Join(config.DefaultNotebooksDir, "templates")
	if err := mkdir(templatesDir); err != nil {
		return nil, err
	}
	for _, c := range category.All() {
		data, err := templates.Default(c).Marshal()
		if err != nil {
			return nil, err
		}
		if err := writeNew(filepath.Join(templatesDir, c.Policy().TemplateFile), data); err != nil {
			return nil, err
		}
	}
	if err := mkdir(filepath.FromSlash(config.DefaultMigrationsDir)); err != nil {
		return nil, err
	}

	gitignore := filepath.Join(root, ".gitignore")
	existing, err := os.ReadFile(gitignore)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}
	if !strings.Contains(string(existing), ".nbgov/") {
		content := "# nbgov audit ledger\n.nbgov/\n"
		if len(existing) > 0 {
			content = strings.TrimRight(string(existing), "\n") + "\n\n" + content
		}
		if err := atomicfile.WriteFile(gitignore, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write .gitignore: %w", err)
		}
		created = append(created, ".gitignore")
	}
	return created, nil
}
