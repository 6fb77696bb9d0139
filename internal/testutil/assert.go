package testutil

import (
	"strings"

	"github.com/aikit/nbgov/internal/metadata"
	"github.com/aikit/nbgov/internal/notebook"
)

// Header loads a workspace notebook and extracts its metadata header.
func (w *TestWorkspace) Header(relPath string) *metadata.Metadata {
	w.t.Helper()
	nb, err := notebook.Load(w.Abs(relPath))
	if err != nil {
		w.t.Fatalf("failed to load notebook %s: %v", relPath, err)
	}
	first := nb.FirstCell()
	if first == nil || first.CellType != notebook.CellMarkdown {
		w.t.Fatalf("notebook %s has no markdown header cell", relPath)
	}
	return metadata.Extract(first.Source.String())
}

// AssertFileContains fails the test if the file does not contain substr.
func (w *TestWorkspace) AssertFileContains(relPath, substr string) {
	w.t.Helper()
	content := w.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		w.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}
