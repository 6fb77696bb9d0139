package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownNormalizesTrailingNewline(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("# Migration\n\n## Rationale\n\nMoved to src.", 80)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Errorf("output should end in exactly one newline: %q", out)
	}
	if !strings.Contains(out, "Rationale") {
		t.Errorf("output missing heading: %q", out)
	}
}

func TestRenderMarkdownDefaultWidth(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("- a\n- b", 0)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(out, "•") {
		t.Errorf("expected bullet glyph in %q", out)
	}
}
