// Package validate checks notebooks against the governance metadata policy.
//
// Rule failures are data, not errors: every check returns a Result whose
// Errors block a notebook and whose Warnings are advisory.
package validate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aikit/nbgov/internal/category"
	"github.com/aikit/nbgov/internal/metadata"
	"github.com/aikit/nbgov/internal/notebook"
)

// Issue codes. These are stable and appear in JSON output.
const (
	CodeFileNotFound         = "FILE_NOT_FOUND"
	CodeInvalidFormat        = "INVALID_FORMAT"
	CodeReadError            = "READ_ERROR"
	CodeNoCells              = "NO_CELLS"
	CodeFirstCellNotMarkdown = "FIRST_CELL_NOT_MARKDOWN"
	CodeMissingMetadata      = "MISSING_METADATA"
	CodeInvalidCategory      = "INVALID_CATEGORY"
	CodeCategoryMismatch     = "CATEGORY_MISMATCH"
	CodePurposeTooShort      = "PURPOSE_TOO_SHORT"
	CodeInvalidDate          = "INVALID_DATE"
	CodeSizeExceeded         = "SIZE_EXCEEDED"
	CodeSizeWarning          = "SIZE_WARNING"
)

// MinPurposeLength is the shortest accepted purpose statement.
const MinPurposeLength = 10

// Issue is one problem found in a notebook.
type Issue struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Result is the outcome of validating one notebook.
type Result struct {
	Path     string  `json:"path"`
	Passed   bool    `json:"passed"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func newResult(path string) *Result {
	return &Result{Path: path, Errors: []Issue{}, Warnings: []Issue{}}
}

func (r *Result) addError(issue Issue) {
	r.Errors = append(r.Errors, issue)
}

func (r *Result) addWarning(issue Issue) {
	r.Warnings = append(r.Warnings, issue)
}

func (r *Result) finish() Result {
	r.Passed = len(r.Errors) == 0
	return *r
}

// HasError reports whether the result contains an error with code.
func (r Result) HasError(code string) bool {
	for _, issue := range r.Errors {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// Notebook validates the metadata header of the notebook at path.
//
// Structural problems (missing file, unparseable document, no cells, a
// non-markdown first cell) end validation with a single error. Once the
// header is available every metadata rule runs and all violations are
// reported.
func Notebook(path string) Result {
	r := newResult(path)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.addError(Issue{
				Code:       CodeFileNotFound,
				Message:    fmt.Sprintf("Notebook not found: %s", path),
				Suggestion: "Check the file path",
			})
		} else {
			r.addError(readError(err))
		}
		return r.finish()
	}

	nb, err := notebook.Load(path)
	if err != nil {
		if errors.Is(err, notebook.ErrInvalidFormat) {
			r.addError(Issue{
				Code:       CodeInvalidFormat,
				Message:    "Notebook is not valid notebook JSON",
				Suggestion: "Check notebook file format",
			})
		} else {
			r.addError(readError(err))
		}
		return r.finish()
	}

	first := nb.FirstCell()
	if first == nil {
		r.addError(Issue{
			Code:       CodeNoCells,
			Message:    "Notebook has no cells",
			Suggestion: "Add a markdown cell with metadata",
		})
		return r.finish()
	}
	if first.CellType != notebook.CellMarkdown {
		r.addError(Issue{
			Code:       CodeFirstCellNotMarkdown,
			Message:    "First cell must be markdown with metadata",
			Suggestion: "Add a markdown cell at the beginning with metadata",
		})
		return r.finish()
	}

	md := metadata.Extract(first.Source.String())
	for _, issue := range CheckMetadata(md, filepath.Base(filepath.Dir(path))) {
		r.addError(issue)
	}
	return r.finish()
}

func readError(err error) Issue {
	return Issue{
		Code:       CodeReadError,
		Message:    fmt.Sprintf("Failed to read notebook: %v", err),
		Suggestion: "Check file permissions",
	}
}

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// CheckMetadata applies the metadata rules to an extracted header.
// actualDir is the name of the directory containing the notebook. Rules are
// independent of each other; the returned order is for display only.
func CheckMetadata(md *metadata.Metadata, actualDir string) []Issue {
	issues := []Issue{}

	for _, field := range metadata.RequiredFields {
		if md.Has(field) {
			continue
		}
		issues = append(issues, Issue{
			Code:       CodeMissingMetadata,
			Message:    fmt.Sprintf("Missing required field: '%s'", field),
			Field:      field,
			Suggestion: fmt.Sprintf("Add **%s**: value to first cell", metadata.Label(field)),
		})
	}

	if md.Has(metadata.FieldCategory) {
		declared := md.Value(metadata.FieldCategory)
		if !category.IsValid(declared) {
			issues = append(issues, Issue{
				Code:       CodeInvalidCategory,
				Message:    fmt.Sprintf("Invalid category: '%s'", declared),
				Field:      metadata.FieldCategory,
				Suggestion: fmt.Sprintf("Use one of: %s", strings.Join(category.Names(), ", ")),
			})
		} else if actualDir != declared {
			issues = append(issues, Issue{
				Code:       CodeCategoryMismatch,
				Message:    fmt.Sprintf("Category mismatch: metadata says '%s' but file is in '%s/'", declared, actualDir),
				Field:      metadata.FieldCategory,
				Suggestion: fmt.Sprintf("Move notebook to notebooks/%s/ or update category metadata", declared),
			})
		}
	}

	if purpose := md.Value(metadata.FieldPurpose); purpose != "" && len([]rune(purpose)) < MinPurposeLength {
		issues = append(issues, Issue{
			Code:       CodePurposeTooShort,
			Message:    fmt.Sprintf("Purpose must be at least %d characters", MinPurposeLength),
			Field:      metadata.FieldPurpose,
			Suggestion: "Provide a more detailed description of the notebook's purpose",
		})
	}

	if created := md.Value(metadata.FieldCreated); created != "" && !datePrefix.MatchString(created) {
		issues = append(issues, Issue{
			Code:       CodeInvalidDate,
			Message:    fmt.Sprintf("Invalid date format: '%s'", created),
			Field:      metadata.FieldCreated,
			Suggestion: "Use ISO 8601 format: YYYY-MM-DD",
		})
	}

	return issues
}
