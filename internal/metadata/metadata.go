// Package metadata extracts governance metadata from the free-text
// header cell of a notebook.
//
// The header is markdown holding "**Key**: value" lines plus two bulleted
// list fields, Data Sources and Dependencies. Extraction is purely
// structural: it never fails, it only reports what it found.
package metadata

import (
	"regexp"
	"strings"
)

// Well-known field keys.
const (
	FieldCategory     = "category"
	FieldPurpose      = "purpose"
	FieldAuthor       = "author"
	FieldCreated      = "created"
	FieldDataSources  = "data_sources"
	FieldDependencies = "dependencies"
)

// RequiredFields are the scalar fields every notebook must declare.
var RequiredFields = []string{FieldCategory, FieldPurpose, FieldAuthor, FieldCreated}

// Metadata is the result of extracting a header cell.
type Metadata struct {
	fields map[string]string
	order  []string

	// DataSources and Dependencies are never nil.
	DataSources  []string
	Dependencies []string

	// Title is the text of the first level-1 heading, if any.
	Title string
}

func newMetadata() *Metadata {
	return &Metadata{
		fields:       make(map[string]string),
		DataSources:  []string{},
		Dependencies: []string{},
	}
}

func (m *Metadata) set(key, value string) {
	if _, ok := m.fields[key]; !ok {
		m.order = append(m.order, key)
	}
	m.fields[key] = value
}

func (m *Metadata) remove(key string) {
	if _, ok := m.fields[key]; !ok {
		return
	}
	delete(m.fields, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Get returns a scalar field and whether it was declared at all.
func (m *Metadata) Get(key string) (string, bool) {
	v, ok := m.fields[key]
	return v, ok
}

// Value returns a scalar field or "" if it is absent.
func (m *Metadata) Value(key string) string {
	return m.fields[key]
}

// Has reports whether key was declared with a non-empty value.
func (m *Metadata) Has(key string) bool {
	return m.fields[key] != ""
}

// Keys returns the scalar field keys in first-declaration order.
func (m *Metadata) Keys() []string {
	return append([]string(nil), m.order...)
}

// Fields returns a copy of the scalar fields.
func (m *Metadata) Fields() map[string]string {
	out := make(map[string]string, len(m.fields))
	for k, v := range m.fields {
		out[k] = v
	}
	return out
}

// NormalizeKey turns a header label such as "Model Version" into its
// field key ("model_version").
func NormalizeKey(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}

// Label turns a field key back into the header label used in templates,
// e.g. "risk_level" -> "Risk Level".
func Label(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

var fieldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*:[ \t]*(.+)`)

// Extract parses a header cell. Each line is scanned for "**Key**: value";
// later duplicates overwrite earlier ones. The Data Sources and
// Dependencies lists are extracted separately and are authoritative: their
// header lines never appear among the scalar fields.
func Extract(text string) *Metadata {
	m := newMetadata()
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		for _, match := range fieldPattern.FindAllStringSubmatch(line, -1) {
			m.set(NormalizeKey(match[1]), strings.TrimSpace(match[2]))
		}
	}

	m.DataSources = extractList(lines, "Data Sources")
	m.Dependencies = extractList(lines, "Dependencies")
	m.remove(FieldDataSources)
	m.remove(FieldDependencies)

	m.Title = extractTitle(text)
	return m
}

var bulletPattern = regexp.MustCompile(`^-\s+(.+)$`)

// extractList finds the first "**<header>**:" line with nothing after the
// colon that is followed by bullet lines, and collects those bullets. Blank
// lines between the header and the first bullet are skipped.
func extractList(lines []string, header string) []string {
	marker := "**" + header + "**:"
	for i, line := range lines {
		idx := strings.Index(line, marker)
		if idx < 0 || strings.TrimSpace(line[idx+len(marker):]) != "" {
			continue
		}
		if items := bulletsAfter(lines, i+1); len(items) > 0 {
			return items
		}
	}
	return []string{}
}

func bulletsAfter(lines []string, i int) []string {
	var items []string
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	for ; i < len(lines); i++ {
		match := bulletPattern.FindStringSubmatch(strings.TrimRight(lines[i], " \t"))
		if match == nil {
			break
		}
		items = append(items, strings.TrimSpace(match[1]))
	}
	return items
}
