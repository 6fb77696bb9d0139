package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Format is an nbconvert output format.
type Format string

const (
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
	FormatScript   Format = "script"
	FormatSlides   Format = "slides"
)

var formatExtensions = map[Format]string{
	FormatHTML:     ".html",
	FormatPDF:      ".pdf",
	FormatMarkdown: ".md",
	FormatScript:   ".py",
	FormatSlides:   ".slides.html",
}

// Formats returns the supported format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(formatExtensions))
	for f := range formatExtensions {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := formatExtensions[f]; !ok {
		return "", fmt.Errorf("unsupported format %q (supported: %s)", s, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Extension returns the file extension nbconvert produces for f.
func (f Format) Extension() string {
	return formatExtensions[f]
}

// DefaultOutput derives the output path by replacing the input's extension.
func DefaultOutput(input string, f Format) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + f.Extension()
}

// Converter converts a notebook to another format.
type Converter interface {
	Convert(ctx context.Context, input string, format Format, output string) error
}

// NBConvert converts with "jupyter nbconvert".
type NBConvert struct {
	Binary string
	Runner Runner
}

// Convert implements Converter.
func (n *NBConvert) Convert(ctx context.Context, input string, format Format, output string) error {
	return n.Runner.Run(ctx, n.Binary, n.Args(input, format, output)...)
}

// Args builds the nbconvert command line. nbconvert appends its own
// extension, so the format's extension is stripped from the output name.
func (n *NBConvert) Args(input string, format Format, output string) []string {
	if output == "" {
		output = DefaultOutput(input, format)
	}
	name := strings.TrimSuffix(filepath.Base(output), format.Extension())
	return []string{
		"nbconvert",
		"--to", string(format),
		input,
		"--output", name,
		"--output-dir", filepath.Dir(output),
	}
}
