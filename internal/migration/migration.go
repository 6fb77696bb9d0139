// Package migration writes and reads migration records: markdown documents
// with YAML frontmatter that log where a notebook's work moved to.
package migration

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/aikit/nbgov/internal/atomicfile"
)

// DateLayout is the date prefix layout of record file names.
const DateLayout = "2006-01-02"

// ErrNoFrontmatter is returned when a record has no closed frontmatter block.
var ErrNoFrontmatter = errors.New("migration record has no frontmatter")

// Record is one migration event.
type Record struct {
	ID          string `yaml:"id" json:"id"`
	Notebook    string `yaml:"notebook" json:"notebook"`
	Category    string `yaml:"category" json:"category"`
	Destination string `yaml:"destination" json:"destination"`
	Rationale   string `yaml:"rationale" json:"rationale"`
	// Commit is HEAD when the migration was recorded.
	Commit string `yaml:"commit" json:"commit"`
	// NotebookCommit is the last commit that touched the notebook.
	NotebookCommit string `yaml:"notebook_commit" json:"notebook_commit"`
	Date           string `yaml:"date" json:"date"`
	Author         string `yaml:"author,omitempty" json:"author,omitempty"`
	Deleted        bool   `yaml:"deleted" json:"deleted"`

	// Path is where the record was read from or written to.
	Path string `yaml:"-" json:"path,omitempty"`
}

// NewRecord fills in the ID and date of a record.
func NewRecord(r Record, now time.Time) Record {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Date == "" {
		r.Date = now.Format(DateLayout)
	}
	return r
}

// FileName returns the record file name for a notebook stem.
func (r Record) FileName() string {
	stem := strings.TrimSuffix(filepath.Base(r.Notebook), filepath.Ext(r.Notebook))
	return fmt.Sprintf("%s-%s.md", r.Date, stem)
}

// Render returns the record document.
func Render(r Record) ([]byte, error) {
	fm, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "# Migration: %s\n\n", r.Notebook)
	fmt.Fprintf(&buf, "- **Category**: %s\n", r.Category)
	fmt.Fprintf(&buf, "- **Destination**: %s\n", r.Destination)
	fmt.Fprintf(&buf, "- **Date**: %s\n", r.Date)
	if r.Author != "" {
		fmt.Fprintf(&buf, "- **Author**: %s\n", r.Author)
	}
	buf.WriteString("\n## Rationale\n\n")
	buf.WriteString(strings.TrimSpace(r.Rationale))
	buf.WriteString("\n\n## Provenance\n\n")
	fmt.Fprintf(&buf, "- Repository commit: `%s`\n", orUnknown(r.Commit))
	fmt.Fprintf(&buf, "- Last notebook commit: `%s`\n", orUnknown(r.NotebookCommit))
	return buf.Bytes(), nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// Write stores r under dir and returns the written path. A record for the
// same notebook on the same day gets a numeric suffix rather than replacing
// the earlier one.
func Write(dir string, r Record) (string, error) {
	data, err := Render(r)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	name := r.FileName()
	base := strings.TrimSuffix(name, ".md")
	for i := 1; ; i++ {
		if i > 1 {
			name = fmt.Sprintf("%s-%d.md", base, i)
		}
		path := filepath.Join(dir, name)
		err := atomicfile.WriteNew(path, data, 0o644)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, atomicfile.ErrExists) {
			return "", fmt.Errorf("write migration record: %w", err)
		}
	}
}

// splitFrontmatter separates the YAML frontmatter from the body.
func splitFrontmatter(content []byte) (frontmatter, body string, ok bool) {
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", "", false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", "", false
}

// Parse reads a record from its document content.
func Parse(content []byte) (Record, error) {
	fm, _, ok := splitFrontmatter(content)
	if !ok {
		return Record{}, ErrNoFrontmatter
	}
	var r Record
	if err := yaml.Unmarshal([]byte(fm), &r); err != nil {
		return Record{}, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
	}
	return r, nil
}

// Body returns the markdown after the frontmatter, or the whole content
// when there is none.
func Body(content []byte) string {
	_, body, ok := splitFrontmatter(content)
	if !ok {
		return string(content)
	}
	return strings.TrimLeft(body, "\n")
}

// List reads every record in dir, newest first. Files that are not records
// are skipped and reported in the second return value. A missing directory
// yields no records.
func List(dir string) ([]Record, []string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "*.md")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var records []Record
	var skipped []string
	for _, m := range matches {
		path := filepath.Join(dir, m)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		r, err := Parse(data)
		if err != nil {
			skipped = append(skipped, path)
			continue
		}
		r.Path = path
		records = append(records, r)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].Path > records[j].Path
	})
	return records, skipped, nil
}
