package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/notebook"
)

// absPath resolves a command-line path against the working directory.
func (a *App) absPath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(a.Cwd, p)
}

// relNotebooks returns p relative to the notebooks root, or ok=false when p
// lies outside it.
func (a *App) relNotebooks(p string) (string, bool) {
	rel, err := filepath.Rel(a.ws.NotebooksDir(), p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// categoryOf resolves the category of a notebook from the directory it
// lives in under the notebooks root.
func (a *App) categoryOf(p string) (category.Category, error) {
	rel, ok := a.relNotebooks(p)
	if !ok {
		return 0, fmt.Errorf("%s is not inside the notebooks directory %s", a.ws.Rel(p), a.ws.Rel(a.ws.NotebooksDir()))
	}
	dir := strings.Split(filepath.ToSlash(rel), "/")[0]
	if dir == rel {
		return 0, fmt.Errorf("%s is not inside a category directory", a.ws.Rel(p))
	}
	return category.Parse(dir)
}

// requireNotebooksDir fails when the notebooks root does not exist.
func (a *App) requireNotebooksDir() error {
	dir := a.ws.NotebooksDir()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return a.handleErrorMsg(ErrFileNotFound,
			fmt.Sprintf("notebooks directory not found: %s", a.ws.Rel(dir)),
			"Run 'nbgov init' or pass --notebooks-dir")
	}
	return nil
}

// notebooksIn lists the notebooks directly inside a category directory,
// sorted by name. A missing directory yields none.
func notebooksIn(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(dir), "*"+notebook.Extension)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, m))
	}
	return paths, nil
}

// stem returns a notebook's file name without its extension.
func stem(p string) string {
	return strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
