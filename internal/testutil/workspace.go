// Package testutil provides reusable fixtures for nbgov tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aikit/nbgov/internal/notebook"
)

// TestWorkspace is a temporary governed workspace: a root holding the
// nbgov.toml marker and a notebooks/ tree.
type TestWorkspace struct {
	Path   string
	t      *testing.T
	config string
	files  map[string]string
}

// NewTestWorkspace creates a new workspace builder.
// Call Build() to create the directory.
func NewTestWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{
		t:      t,
		config: "",
		files:  make(map[string]string),
	}
}

// WithConfig sets the nbgov.toml content.
func (w *TestWorkspace) WithConfig(toml string) *TestWorkspace {
	w.config = toml
	return w
}

// WithFile adds a file relative to the workspace root.
func (w *TestWorkspace) WithFile(path, content string) *TestWorkspace {
	w.files[path] = content
	return w
}

// WithNotebook adds a notebook whose first markdown cell is header.
func (w *TestWorkspace) WithNotebook(path, header string) *TestWorkspace {
	w.files[path] = NotebookJSON(w.t, header)
	return w
}

// WithTemplates writes a minimal template for every category under
// notebooks/templates/.
func (w *TestWorkspace) WithTemplates(names ...string) *TestWorkspace {
	for _, name := range names {
		w.files[filepath.Join("notebooks", "templates", name)] = NotebookJSON(w.t, "# Template\n\n**Category**: placeholder", "import pandas as pd")
	}
	return w
}

// Build creates the workspace directory and all configured files.
func (w *TestWorkspace) Build() *TestWorkspace {
	w.t.Helper()

	w.Path = w.t.TempDir()
	w.writeFile("nbgov.toml", w.config)
	if err := os.MkdirAll(filepath.Join(w.Path, "notebooks"), 0o755); err != nil {
		w.t.Fatalf("failed to create notebooks dir: %v", err)
	}
	for path, content := range w.files {
		w.writeFile(path, content)
	}
	return w
}

// BuildBare creates an empty directory with no workspace marker, for
// commands that lay out a workspace themselves.
func (w *TestWorkspace) BuildBare() *TestWorkspace {
	w.t.Helper()
	w.Path = w.t.TempDir()
	return w
}

func (w *TestWorkspace) writeFile(relPath, content string) {
	w.t.Helper()
	fullPath := filepath.Join(w.Path, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		w.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		w.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// Abs returns the absolute path of a workspace-relative path.
func (w *TestWorkspace) Abs(relPath string) string {
	return filepath.Join(w.Path, relPath)
}

// ReadFile reads a file from the workspace.
func (w *TestWorkspace) ReadFile(relPath string) string {
	w.t.Helper()
	content, err := os.ReadFile(w.Abs(relPath))
	if err != nil {
		w.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the workspace.
func (w *TestWorkspace) FileExists(relPath string) bool {
	w.t.Helper()
	_, err := os.Stat(w.Abs(relPath))
	return err == nil
}

// NotebookJSON renders a notebook with a markdown header cell followed by
// code cells.
func NotebookJSON(t *testing.T, header string, code ...string) string {
	t.Helper()
	nb := notebook.New()
	nb.Cells = append(nb.Cells, notebook.NewMarkdownCell(header))
	for _, c := range code {
		nb.Cells = append(nb.Cells, notebook.NewCodeCell(c))
	}
	data, err := nb.Marshal()
	if err != nil {
		t.Fatalf("failed to encode notebook: %v", err)
	}
	return string(data)
}

// Header renders a metadata header for the given fields, in the layout the
// templates use.
func Header(category, purpose, author, created string) string {
	return "# Test Notebook\n\n" +
		"**Category**: " + category + "\n" +
		"**Purpose**: " + purpose + "\n" +
		"**Author**: " + author + "\n" +
		"**Created**: " + created + "\n" +
		"**Data Sources**: \n- warehouse.table\n\n" +
		"**Dependencies**:\n- pandas\n"
}
