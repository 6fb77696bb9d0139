// Package sqlutil holds small helpers shared by SQLite-backed stores.
package sqlutil

import (
	"database/sql"
	"strings"
)

// Where accumulates "column = ?" conditions for optional filters.
type Where struct {
	clauses []string
	args    []any
}

// Eq adds "column = value" when value is non-empty.
func (w *Where) Eq(column, value string) {
	if value == "" {
		return
	}
	w.clauses = append(w.clauses, column+" = ?")
	w.args = append(w.args, value)
}

// SQL returns the WHERE clause (empty when there are no conditions) and
// its arguments.
func (w *Where) SQL() (string, []any) {
	if len(w.clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(w.clauses, " AND "), w.args
}

// ScanRows scans all rows into a slice using the provided scanner.
func ScanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
