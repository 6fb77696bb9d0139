// Package templates creates notebooks from category templates.
package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aikit/nbgov/internal/atomicfile"
	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/config"
	"github.com/aikit/nbgov/internal/metadata"
	"github.com/aikit/nbgov/internal/notebook"
	"github.com/aikit/nbgov/internal/slugs"
)

var (
	// ErrTemplateNotFound is returned when a category's template file is missing.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrNotebookExists is returned when the target notebook already exists.
	ErrNotebookExists = errors.New("notebook already exists")
	// ErrInvalidTemplate is returned when a template's first cell is not markdown.
	ErrInvalidTemplate = errors.New("template must have a markdown cell as first cell")
	// ErrInvalidName is returned for names that cannot be used as file stems.
	ErrInvalidName = errors.New("invalid notebook name")
)

// Placeholder bullets written under the list headers of a new notebook.
const (
	DataSourcesPlaceholder  = "[List your data sources]"
	DependenciesPlaceholder = "[List key dependencies]"
)

// CreatedLayout is the date layout of the Created field.
const CreatedLayout = "2006-01-02"

// Field is an additional metadata key/value written after the list fields.
type Field struct {
	Key   string
	Value string
}

// CreateOptions configures notebook creation.
type CreateOptions struct {
	Workspace *config.Workspace
	Category  category.Category

	// Name is the file stem; ".ipynb" is appended when missing.
	Name string

	// Title is the level-1 heading. If empty, derived from Name.
	Title string

	Purpose string
	Author  string

	// Fields are the category's additional fields, written in order.
	Fields []Field

	// Now stamps the Created field. Defaults to time.Now.
	Now func() time.Time
}

// CreateResult describes the created notebook.
type CreateResult struct {
	// FilePath is the absolute path of the new notebook.
	FilePath string
	// RelativePath is FilePath relative to the workspace root.
	RelativePath string
	Created      string
}

// Load reads the template notebook for c.
func Load(ws *config.Workspace, c category.Category) (*notebook.Notebook, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", category.ErrInvalidCategory, c)
	}
	path := ws.TemplatePath(c)
	nb, err := notebook.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, fmt.Errorf("load template %s: %w", path, err)
	}
	return nb, nil
}

// HeaderOptions are the values written into a notebook's metadata cell.
type HeaderOptions struct {
	Category category.Category
	Title    string
	Purpose  string
	Author   string
	Created  string
	Fields   []Field
}

// RenderHeader renders the metadata cell text.
func RenderHeader(h HeaderOptions) string {
	lines := []string{
		"# " + h.Title,
		"",
		"**Category**: " + h.Category.String(),
		"**Purpose**: " + h.Purpose,
		"**Author**: " + h.Author,
		"**Created**: " + h.Created,
		"**Data Sources**: ",
		"- " + DataSourcesPlaceholder,
		"",
		"**Dependencies**:",
		"- " + DependenciesPlaceholder,
		"",
	}
	if len(h.Fields) > 0 {
		for _, f := range h.Fields {
			lines = append(lines, fmt.Sprintf("**%s**: %s", metadata.Label(f.Key), f.Value))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// PopulateMetadata replaces the first cell of nb with the metadata header.
func PopulateMetadata(nb *notebook.Notebook, h HeaderOptions) error {
	first := nb.FirstCell()
	if first == nil || first.CellType != notebook.CellMarkdown {
		return ErrInvalidTemplate
	}
	first.Source = notebook.Source(RenderHeader(h))
	return nil
}

// Create writes a new notebook for opts.Category from its template. The
// target is never overwritten: if it exists, nothing is written and
// ErrNotebookExists is returned.
func Create(opts CreateOptions) (*CreateResult, error) {
	if opts.Workspace == nil {
		return nil, fmt.Errorf("workspace is required")
	}
	name := strings.TrimSuffix(opts.Name, notebook.Extension)
	if !slugs.ValidNotebookName(name) {
		return nil, fmt.Errorf("%w: %q (use letters, numbers, hyphens and underscores)", ErrInvalidName, opts.Name)
	}

	dir := opts.Workspace.CategoryDir(opts.Category)
	target := filepath.Join(dir, name+notebook.Extension)
	if _, err := os.Stat(target); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotebookExists, opts.Workspace.Rel(target))
	}

	nb, err := Load(opts.Workspace, opts.Category)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	title := opts.Title
	if title == "" {
		title = slugs.TitleFromName(name)
	}
	created := now().Format(CreatedLayout)

	if err := PopulateMetadata(nb, HeaderOptions{
		Category: opts.Category,
		Title:    title,
		Purpose:  opts.Purpose,
		Author:   opts.Author,
		Created:  created,
		Fields:   opts.Fields,
	}); err != nil {
		return nil, err
	}

	data, err := nb.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode notebook: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	if err := atomicfile.WriteNew(target, data, 0o644); err != nil {
		if errors.Is(err, atomicfile.ErrExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotebookExists, opts.Workspace.Rel(target))
		}
		return nil, fmt.Errorf("write notebook: %w", err)
	}

	return &CreateResult{
		FilePath:     target,
		RelativePath: opts.Workspace.Rel(target),
		Created:      created,
	}, nil
}

// Default returns the built-in template for c: a metadata header cell with
// placeholders, a setup cell, and for reporting a papermill parameters cell.
func Default(c category.Category) *notebook.Notebook {
	pol := c.Policy()
	fields := make([]Field, 0, len(pol.AdditionalFields))
	for _, key := range pol.AdditionalFields {
		fields = append(fields, Field{Key: key, Value: "[" + metadata.Label(key) + "]"})
	}

	nb := notebook.New()
	kernel, _ := json.Marshal(map[string]string{
		"display_name": "Python 3",
		"language":     "python",
		"name":         "python3",
	})
	nb.Metadata["kernelspec"] = kernel

	nb.Cells = append(nb.Cells, notebook.NewMarkdownCell(RenderHeader(HeaderOptions{
		Category: c,
		Title:    pol.DisplayName + " Notebook",
		Purpose:  "[What question does this notebook answer?]",
		Author:   "[Your name]",
		Created:  "YYYY-MM-DD",
		Fields:   fields,
	})))

	if c == category.Reporting {
		params := notebook.NewCodeCell("# Parameters (papermill injects values after this cell)\nstart_date = \"2024-01-01\"\nend_date = \"2024-12-31\"")
		params.SetTags("parameters")
		nb.Cells = append(nb.Cells, params)
	}
	nb.Cells = append(nb.Cells,
		notebook.NewCodeCell("import pandas as pd"),
		notebook.NewMarkdownCell("## "+pol.Description),
	)
	return nb
}
