package category

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidTagName is returned when a constructed tag name does not match
// the archival tag pattern.
var ErrInvalidTagName = errors.New("invalid tag name")

// TagDateLayout is the date suffix layout of archival tags.
const TagDateLayout = "2006-01-02"

// tagNamePattern only checks the digit shape of the date suffix, so
// calendar-impossible dates such as 2024-13-40 are accepted. Dots are
// allowed in the identifier for version strings like "v1.0".
var tagNamePattern = regexp.MustCompile(`^[a-z]+/[a-z0-9.-]+-\d{4}-\d{2}-\d{2}$`)

// ValidTagName reports whether name has the shape "{category}/{identifier}-{YYYY-MM-DD}".
func ValidTagName(name string) bool {
	return tagNamePattern.MatchString(name)
}

// BuildTagName constructs the archival tag for a notebook in c.
func BuildTagName(c Category, identifier string, date time.Time) (string, error) {
	if !c.Valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidCategory, int(c))
	}
	name := fmt.Sprintf("%s/%s-%s", c, identifier, date.Format(TagDateLayout))
	if !ValidTagName(name) {
		return "", fmt.Errorf("%w: '%s' (identifiers may only contain lower-case letters, digits, dots and hyphens)", ErrInvalidTagName, name)
	}
	return name, nil
}

// TagPattern returns the git glob listing archival tags, optionally for a
// single category.
func TagPattern(key string) string {
	if key == "" {
		return "*/*"
	}
	return key + "/*"
}

// SplitTagName returns the category prefix of a tag, or "" if the tag has none.
func SplitTagName(tag string) (prefix, rest string) {
	prefix, rest, ok := strings.Cut(tag, "/")
	if !ok {
		return "", tag
	}
	return prefix, rest
}
