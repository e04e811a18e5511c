// Package patch applies ad-hoc SQL patch files through the remote executor,
// one statement at a time.
package patch

import (
	"context"
	"fmt"
	"strings"

	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/telemetry"
	"github.com/Qefaraki/alqefari-backend-ops/internal/sqlbatch"
)

// Executor submits a single SQL statement remotely.
type Executor interface {
	ExecSQL(ctx context.Context, stmt string) error
}

// ApplyError reports a failed statement along with everything that was not
// applied. Statements before the failing one have already run; there is no
// rollback. The operator applies the remainder manually.
type ApplyError struct {
	Patch     string
	Statement int // 1-based index of the failing statement
	Total     int
	Remaining []string // failing statement onward
	Err       error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("patch %s: statement %d/%d failed: %v", e.Patch, e.Statement, e.Total, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// RemainingSQL renders the unapplied statements as pasteable SQL.
func (e *ApplyError) RemainingSQL() string {
	if len(e.Remaining) == 0 {
		return ""
	}
	return strings.Join(e.Remaining, ";\n\n") + ";"
}

// Runner splits patch files and submits their statements in order.
type Runner struct {
	Exec Executor
}

// Apply splits sqlText and submits each statement sequentially. It returns
// the number of statements applied. On failure the batch aborts immediately:
// earlier statements stay applied and the error carries the remainder.
func (r *Runner) Apply(ctx context.Context, name, sqlText string) (int, error) {
	stmts := sqlbatch.Split(sqlText)
	if len(stmts) == 0 {
		return 0, nil
	}

	for i, stmt := range stmts {
		if err := r.Exec.ExecSQL(ctx, stmt); err != nil {
			telemetry.Error("patch statement failed", map[string]any{
				"patch":     name,
				"statement": i + 1,
				"total":     len(stmts),
			})
			return i, &ApplyError{
				Patch:     name,
				Statement: i + 1,
				Total:     len(stmts),
				Remaining: stmts[i:],
				Err:       err,
			}
		}
		telemetry.Info("patch statement applied", map[string]any{
			"patch":     name,
			"statement": i + 1,
			"total":     len(stmts),
		})
	}
	return len(stmts), nil
}
