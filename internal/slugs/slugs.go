// Package slugs holds the naming rules for notebook files and tag
// identifiers.
//
// Notebook names are used verbatim as file stems, so they are validated
// rather than rewritten. Free-form text (a title, a tag identifier) is
// slugified with gosimple/slug when a suggestion is needed.
package slugs

import (
	"regexp"
	"strings"
	"unicode"

	goslug "github.com/gosimple/slug"
)

var notebookNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidNotebookName reports whether name is usable as a notebook file stem:
// letters, digits, underscores and hyphens only.
func ValidNotebookName(name string) bool {
	return notebookNameRe.MatchString(name)
}

// Suggest turns free-form text into a notebook name or tag identifier
// candidate: lowercase ASCII words joined by hyphens.
func Suggest(text string) string {
	text = strings.TrimSuffix(strings.TrimSpace(text), ".ipynb")
	s := strings.ReplaceAll(goslug.Make(text), "_", "-")
	if s == "" {
		s = strings.ToLower(strings.ReplaceAll(text, " ", "-"))
	}
	return s
}

// TitleFromName derives a display title from a notebook name:
// separators become spaces and each word is capitalized.
//
//	"churn_model-v2" -> "Churn Model V2"
func TitleFromName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
