// Package diagnose inspects schema state over a direct Postgres connection:
// which expected tables, columns, and functions are actually present.
package diagnose

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Check is one pass/fail observation about the schema.
type Check struct {
	Kind   string // "table", "column", "function"
	Name   string
	OK     bool
	Detail string
}

// Report collects checks for one diagnosis run.
type Report struct {
	Checks []Check
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.OK {
			out = append(out, c)
		}
	}
	return out
}

// OK reports whether every check passed.
func (r *Report) OK() bool { return len(r.Failed()) == 0 }

func (r *Report) add(kind, name string, ok bool, detail string) {
	r.Checks = append(r.Checks, Check{Kind: kind, Name: name, OK: ok, Detail: detail})
}

// Tables checks that each named table exists in the public schema.
func Tables(ctx context.Context, database *sql.DB, report *Report, names ...string) error {
	const q = `SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1)`
	for _, name := range names {
		var exists bool
		if err := database.QueryRowContext(ctx, q, name).Scan(&exists); err != nil {
			return fmt.Errorf("check table %s: %w", name, err)
		}
		detail := ""
		if !exists {
			detail = "table missing from public schema"
		}
		report.add("table", name, exists, detail)
	}
	return nil
}

// Columns checks that the table carries every expected column.
func Columns(ctx context.Context, database *sql.DB, report *Report, table string, expected ...string) error {
	const q = `SELECT column_name FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1`
	rows, err := database.QueryContext(ctx, q, table)
	if err != nil {
		return fmt.Errorf("list columns of %s: %w", table, err)
	}
	defer rows.Close()

	present := map[string]bool{}
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return fmt.Errorf("scan column of %s: %w", table, err)
		}
		present[col] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list columns of %s: %w", table, err)
	}

	var missing []string
	for _, col := range expected {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)

	ok := len(missing) == 0
	detail := ""
	if !ok {
		detail = "missing columns: " + strings.Join(missing, ", ")
	}
	report.add("column", table, ok, detail)
	return nil
}

// Functions checks that each named function exists in the public schema.
func Functions(ctx context.Context, database *sql.DB, report *Report, names ...string) error {
	const q = `SELECT EXISTS (
		SELECT 1 FROM pg_proc p
		JOIN pg_namespace n ON n.oid = p.pronamespace
		WHERE n.nspname = 'public' AND p.proname = $1)`
	for _, name := range names {
		var exists bool
		if err := database.QueryRowContext(ctx, q, name).Scan(&exists); err != nil {
			return fmt.Errorf("check function %s: %w", name, err)
		}
		detail := ""
		if !exists {
			detail = "function missing from public schema"
		}
		report.add("function", name, exists, detail)
	}
	return nil
}
