package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// keyValueFlag is a repeatable "key=value" flag.
type keyValueFlag struct {
	values []string
}

var _ pflag.Value = (*keyValueFlag)(nil)

func (f *keyValueFlag) String() string {
	return strings.Join(f.values, ",")
}

func (f *keyValueFlag) Set(s string) error {
	key, _, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	f.values = append(f.values, s)
	return nil
}

func (f *keyValueFlag) Type() string {
	return "key=value"
}

// Map returns the pairs keyed by their trimmed key. Later values win.
func (f *keyValueFlag) Map() map[string]string {
	m := make(map[string]string, len(f.values))
	for _, s := range f.values {
		key, value, _ := strings.Cut(s, "=")
		m[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return m
}

// Values returns the raw "key=value" strings in order.
func (f *keyValueFlag) Values() []string {
	return append([]string(nil), f.values...)
}
