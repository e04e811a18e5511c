// Package sqlbatch turns a multi-statement SQL text blob into an ordered
// sequence of independently executable statements.
//
// The splitter is a heuristic, not a SQL parser. A semicolon ends a statement
// only when the text that follows it (after whitespace) starts a new top-level
// statement: one of the known statement-leading keywords, a comment, or end of
// input. Semicolons inside plpgsql function bodies are usually followed by
// body tokens (END, IF, $$, RETURN) that are not in the keyword list, so whole
// CREATE FUNCTION statements survive as one piece. Bodies that themselves
// start a line with a leading keyword (a nested UPDATE, say) will be split
// incorrectly; that is a known limitation.
package sqlbatch

import (
	"regexp"
	"strings"
)

// Statement-leading keywords that mark the start of a new top-level statement.
var leadingKeywords = []string{
	"CREATE", "DROP", "ALTER", "GRANT", "INSERT",
	"UPDATE", "DELETE", "BEGIN", "COMMIT", "ROLLBACK",
}

var blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

// Split breaks raw SQL text into trimmed, non-empty statements. Comment-only
// fragments are discarded. Trailing semicolons are stripped from each
// statement; interior semicolons (function bodies) are preserved.
func Split(text string) []string {
	var stmts []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != ';' {
			continue
		}
		if !boundaryFollows(text[i+1:]) {
			continue
		}
		if s, ok := cleanStatement(text[start:i]); ok {
			stmts = append(stmts, s)
		}
		start = i + 1
	}
	if s, ok := cleanStatement(text[start:]); ok {
		stmts = append(stmts, s)
	}
	return stmts
}

// boundaryFollows reports whether the text after a semicolon begins a new
// top-level statement: a leading keyword, a comment, or end of input.
func boundaryFollows(rest string) bool {
	trimmed := strings.TrimLeft(rest, " \t\r\n")
	if trimmed == "" {
		return true
	}
	if strings.HasPrefix(trimmed, "--") || strings.HasPrefix(trimmed, "/*") {
		return true
	}
	upper := strings.ToUpper(trimmed)
	for _, kw := range leadingKeywords {
		if strings.HasPrefix(upper, kw) && (len(upper) == len(kw) || !isIdentChar(upper[len(kw)])) {
			return true
		}
	}
	return false
}

func cleanStatement(raw string) (string, bool) {
	s := strings.Trim(raw, "; \t\r\n")
	if s == "" || commentOnly(s) {
		return "", false
	}
	return s, true
}

// commentOnly reports whether the fragment contains nothing but SQL comments.
func commentOnly(s string) bool {
	s = blockCommentRe.ReplaceAllString(s, "")
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		return false
	}
	return true
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
