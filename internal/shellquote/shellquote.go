// Package shellquote renders command lines that can be pasted into a shell.
package shellquote

import "strings"

// Quote wraps s in single quotes, escaping any internal single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// QuoteIfNeeded quotes strings that are likely to be interpreted by a shell.
func QuoteIfNeeded(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n#[]()|!\"'$`;&<>*?{}~\\") {
		return Quote(s)
	}
	return s
}

// Join renders name and args as a single command line.
func Join(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, QuoteIfNeeded(name))
	for _, a := range args {
		parts = append(parts, QuoteIfNeeded(a))
	}
	return strings.Join(parts, " ")
}
