// Package verify determines whether named remote functions exist by invoking
// them with sentinel arguments and inspecting the error text.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Qefaraki/alqefari-backend-ops/internal/supabase"
)

// Status classifies one probe.
type Status int

const (
	// Exists means the call succeeded, or failed for any reason other than
	// the gateway's not-found phrase. A wrong-arguments error still proves
	// the function is there.
	Exists Status = iota
	// Missing means the error text contained the not-found phrase.
	Missing
	// Inconclusive means the probe never reached the gateway (transport
	// failure), so nothing can be said either way.
	Inconclusive
)

func (s Status) String() string {
	switch s {
	case Exists:
		return "exists"
	case Missing:
		return "NOT FOUND"
	case Inconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// The gateway's wordings for a missing function: the schema-cache phrase and
// Postgres's own "function ... does not exist". Both must name a function —
// a "relation ... does not exist" failure inside an existing function body
// must not read as missing. Matching error text is fragile on purpose: if the
// platform rewords its errors this check degrades to reporting everything as
// existing. Known trade-off, kept as designed.
const schemaCachePhrase = "could not find the function"

// Caller is the one client method a probe needs.
type Caller interface {
	RPC(ctx context.Context, fn string, args map[string]any) (json.RawMessage, error)
}

// Probe names a function and the sentinel arguments used to poke it.
type Probe struct {
	Function string
	Args     map[string]any
}

// Result is the classification of one probe.
type Result struct {
	Function string
	Status   Status
	Detail   string
}

// Run probes a single function.
func Run(ctx context.Context, c Caller, p Probe) Result {
	_, err := c.RPC(ctx, p.Function, p.Args)
	if err == nil {
		return Result{Function: p.Function, Status: Exists}
	}

	var apiErr *supabase.APIError
	if !errors.As(err, &apiErr) {
		return Result{Function: p.Function, Status: Inconclusive, Detail: err.Error()}
	}

	if isNotFound(apiErr.Message) {
		return Result{Function: p.Function, Status: Missing, Detail: apiErr.Message}
	}
	return Result{Function: p.Function, Status: Exists, Detail: apiErr.Message}
}

// All probes every function in order and reports whether none came back
// missing. Inconclusive results do not fail the batch; they are surfaced for
// the operator to judge.
func All(ctx context.Context, c Caller, probes []Probe) ([]Result, bool) {
	results := make([]Result, 0, len(probes))
	ok := true
	for _, p := range probes {
		r := Run(ctx, c, p)
		if r.Status == Missing {
			ok = false
		}
		results = append(results, r)
	}
	return results, ok
}

func isNotFound(message string) bool {
	lower := strings.ToLower(message)
	if strings.Contains(lower, schemaCachePhrase) {
		return true
	}
	return strings.Contains(lower, "function") && strings.Contains(lower, "does not exist")
}
