package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Parameter is one name=value pair passed to a parameterized run.
type Parameter struct {
	Name  string
	Value any
}

// ParseParameter splits "key=value" and coerces the value with Coerce.
func ParseParameter(s string) (Parameter, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Parameter{}, fmt.Errorf("invalid parameter %q: expected key=value", s)
	}
	return Parameter{Name: name, Value: Coerce(raw)}, nil
}

// ParseParameters parses every "key=value" string. Later duplicates win.
func ParseParameters(raw []string) ([]Parameter, error) {
	params := make([]Parameter, 0, len(raw))
	index := map[string]int{}
	for _, s := range raw {
		p, err := ParseParameter(s)
		if err != nil {
			return nil, err
		}
		if i, ok := index[p.Name]; ok {
			params[i] = p
			continue
		}
		index[p.Name] = len(params)
		params = append(params, p)
	}
	return params, nil
}

// Coerce types a raw parameter value: "true"/"false" become booleans, an
// all-digit string an integer, anything float-parseable a float, and
// everything else stays a string.
func Coerce(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if isDigits(raw) {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
