package engine

import (
	"context"
	"time"
)

// Executor runs compiled queries against one search backend.
type Executor interface {
	// CompileExpression turns a search expression into the backend's native
	// query form. Suite queries that carry only an expression go through
	// this; per-engine overrides bypass it.
	CompileExpression(expression string) (string, []any, error)
	Execute(ctx context.Context, query string, params []any) (*Execution, error)
	Name() string
	Close() error
}

// Execution is one timed query run. RankedDocIDs carries primary keys in
// result order; MygramDB reports string keys, so every backend normalizes
// to strings for cross-engine comparison.
type Execution struct {
	RankedDocIDs []string
	TotalMatches int64
	Latency      time.Duration
}
