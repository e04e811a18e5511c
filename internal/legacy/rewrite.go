// Package legacy migrates database functions off the retired family_tree
// table by textually rewriting their bodies to reference profiles instead,
// then re-applying the rewritten definitions.
//
// The rewrite is plain identifier replacement on the output of
// pg_get_functiondef, not SQL-aware. That matches how these functions were
// originally migrated and is good enough because the legacy name only ever
// appears as a table reference.
package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
)

const (
	// LegacyTable is the retired table name still referenced by old
	// function bodies.
	LegacyTable = "family_tree"
	// CurrentTable is its replacement.
	CurrentTable = "profiles"
)

// Rewrite is one function definition and its updated form.
type Rewrite struct {
	Function   string
	Definition string
	Updated    string
}

// ScanFunctions returns every public-schema function whose definition still
// mentions the legacy table, paired with the rewritten definition.
func ScanFunctions(ctx context.Context, database *sql.DB) ([]Rewrite, error) {
	const q = `SELECT p.proname, pg_get_functiondef(p.oid)
		FROM pg_proc p
		JOIN pg_namespace n ON n.oid = p.pronamespace
		WHERE n.nspname = 'public'
		  AND pg_get_functiondef(p.oid) ILIKE '%' || $1 || '%'
		ORDER BY p.proname`

	rows, err := database.QueryContext(ctx, q, LegacyTable)
	if err != nil {
		return nil, fmt.Errorf("scan function definitions: %w", err)
	}
	defer rows.Close()

	var rewrites []Rewrite
	for rows.Next() {
		var name, def string
		if err := rows.Scan(&name, &def); err != nil {
			return nil, fmt.Errorf("scan function row: %w", err)
		}
		updated, changed := RewriteDefinition(def, LegacyTable, CurrentTable)
		if !changed {
			continue
		}
		rewrites = append(rewrites, Rewrite{Function: name, Definition: def, Updated: updated})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan function definitions: %w", err)
	}
	return rewrites, nil
}

// RewriteDefinition replaces whole-identifier occurrences of oldTable with
// newTable and reports whether anything changed.
func RewriteDefinition(def, oldTable, newTable string) (string, bool) {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(oldTable) + `\b`)
	updated := re.ReplaceAllString(def, newTable)
	return updated, updated != def
}
