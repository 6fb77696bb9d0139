package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/ui"
	"github.com/aikit/nbgov/internal/validate"
)

func newValidateCmd(a *App) *cobra.Command {
	var checkSize bool
	cmd := &cobra.Command{
		Use:   "validate [path...]",
		Short: "Validate notebook metadata",
		Long: `Validate the metadata header of one or more notebooks.

Paths may be notebooks or directories (searched recursively for .ipynb
files, skipping .ipynb_checkpoints). With no paths, every category directory
under the notebooks root is validated.

With --check-size only the file-size rule runs (warn at the configured
warn_mb, block at block_mb); this is the mode used by pre-commit hooks.

Exits 0 when every notebook passes and 1 otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(args, checkSize)
		},
	}
	cmd.Flags().BoolVar(&checkSize, "check-size", false, "Only check file sizes against the configured thresholds")
	return cmd
}

func (a *App) runValidate(args []string, checkSize bool) error {
	paths, err := a.validationTargets(args)
	if err != nil {
		return a.handleError(ErrFileReadError, err, "")
	}
	thresholds := a.ws.Config.Thresholds()

	results := make([]validate.Result, 0, len(paths))
	failures := 0
	for _, p := range paths {
		var r validate.Result
		if checkSize {
			r = validate.FileSize(p, thresholds)
		} else {
			r = validate.Notebook(p)
		}
		r.Path = a.ws.Rel(p)
		if !r.Passed {
			failures++
		}
		results = append(results, r)
	}

	if a.jsonOutput {
		data := map[string]interface{}{
			"results": results,
			"passed":  failures == 0,
			"failed":  failures,
		}
		if failures > 0 {
			a.outputJSON(Response{
				OK:   false,
				Data: data,
				Error: &ErrorInfo{
					Code:    ErrValidationFailed,
					Message: fmt.Sprintf("%d of %d notebooks failed validation", failures, len(results)),
				},
				Meta: &Meta{Count: len(results)},
			})
			return failed()
		}
		a.outputSuccess(data, &Meta{Count: len(results)})
		return nil
	}

	if len(results) == 0 {
		a.out.Info("No notebooks to validate")
		return nil
	}
	for _, r := range results {
		a.printResult(r)
	}
	if len(results) > 1 {
		a.out.Println()
		if failures > 0 {
			a.out.Printf("%s\n", ui.Errorf("%d of %d notebooks failed validation", failures, len(results)))
		} else {
			a.out.Success("All %d notebooks passed", len(results))
		}
	}
	if failures > 0 {
		return failed()
	}
	return nil
}

func (a *App) printResult(r validate.Result) {
	switch {
	case !r.Passed:
		a.out.Printf("%s %s\n", ui.Errorf("%s", ui.FilePath(r.Path)), ui.Hint(ui.ErrorWarningCounts(len(r.Errors), len(r.Warnings))))
	case len(r.Warnings) > 0:
		a.out.Printf("%s %s\n", ui.Warningf("%s", ui.FilePath(r.Path)), ui.Hint(ui.ErrorWarningCounts(0, len(r.Warnings))))
	default:
		a.out.Success("%s", ui.FilePath(r.Path))
	}
	for _, issue := range r.Errors {
		a.out.Printf("  %s %s\n", ui.SymbolError, issue.Message)
		if issue.Suggestion != "" {
			a.out.Printf("    %s\n", ui.Hint(issue.Suggestion))
		}
	}
	for _, issue := range r.Warnings {
		a.out.Printf("  %s %s\n", ui.SymbolWarning, issue.Message)
		if issue.Suggestion != "" {
			a.out.Printf("    %s\n", ui.Hint(issue.Suggestion))
		}
	}
}

// validationTargets expands the command arguments into notebook paths.
// Files are kept as given (a missing file is reported by the validator);
// directories are searched for notebooks.
func (a *App) validationTargets(args []string) ([]string, error) {
	if len(args) == 0 {
		var paths []string
		for _, c := range category.All() {
			found, err := notebooksUnder(a.ws.CategoryDir(c))
			if err != nil {
				return nil, err
			}
			paths = append(paths, found...)
		}
		return paths, nil
	}

	var paths []string
	for _, arg := range args {
		p := a.absPath(arg)
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			paths = append(paths, p)
			continue
		}
		found, err := notebooksUnder(p)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

// notebooksUnder finds notebooks in dir recursively, skipping Jupyter
// checkpoint copies.
func notebooksUnder(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.ipynb")
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, m := range matches {
		if strings.Contains(m, ".ipynb_checkpoints") {
			continue
		}
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	sort.Strings(paths)
	return paths, nil
}
