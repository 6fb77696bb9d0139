package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)

func sample() Record {
	return NewRecord(Record{
		Notebook:       "notebooks/exploratory/churn.ipynb",
		Category:       "exploratory",
		Destination:    "src/churn/features.py",
		Rationale:      "Feature engineering moved into the pipeline.",
		Commit:         "abc123",
		NotebookCommit: "def456",
		Author:         "alex",
	}, day)
}

func TestNewRecord(t *testing.T) {
	t.Parallel()
	r := sample()
	_, err := uuid.Parse(r.ID)
	assert.NoError(t, err)
	assert.Equal(t, "2024-10-15", r.Date)
	assert.Equal(t, "2024-10-15-churn.md", r.FileName())
}

func TestRenderParse(t *testing.T) {
	t.Parallel()
	r := sample()
	data, err := Render(r)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "# Migration: notebooks/exploratory/churn.ipynb")
	assert.Contains(t, text, "## Rationale\n\nFeature engineering moved into the pipeline.")
	assert.Contains(t, text, "Repository commit: `abc123`")

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestRenderUnknownCommit(t *testing.T) {
	t.Parallel()
	r := sample()
	r.Commit, r.NotebookCommit = "", ""
	data, err := Render(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Repository commit: `unknown`")
}

func TestParseWithoutFrontmatter(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte("# Notes\n"))
	assert.ErrorIs(t, err, ErrNoFrontmatter)
	_, err = Parse([]byte("---\nid: x\n"))
	assert.ErrorIs(t, err, ErrNoFrontmatter)
}

func TestWriteKeepsEarlierRecords(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "docs", "migrations")

	first, err := Write(dir, sample())
	require.NoError(t, err)
	assert.Equal(t, "2024-10-15-churn.md", filepath.Base(first))

	second, err := Write(dir, sample())
	require.NoError(t, err)
	assert.Equal(t, "2024-10-15-churn-2.md", filepath.Base(second))
}

func TestList(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	older := sample()
	older.Date = "2024-01-02"
	_, err := Write(dir, older)
	require.NoError(t, err)
	_, err = Write(dir, sample())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Migrations\n"), 0o644))

	records, skipped, err := List(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-10-15", records[0].Date)
	assert.Equal(t, "2024-01-02", records[1].Date)
	assert.NotEmpty(t, records[0].Path)
	assert.Equal(t, []string{filepath.Join(dir, "README.md")}, skipped)
}

func TestListMissingDir(t *testing.T) {
	t.Parallel()
	records, skipped, err := List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, skipped)
}

func TestBody(t *testing.T) {
	t.Parallel()
	data, err := Render(sample())
	require.NoError(t, err)
	body := Body(data)
	assert.True(t, strings.HasPrefix(body, "# Migration: "), body)
	assert.Equal(t, "plain", Body([]byte("plain")))
}
