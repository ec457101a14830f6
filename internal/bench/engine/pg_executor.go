package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mygramdb/mygram-go/internal/storage"
	"github.com/mygramdb/mygram-go/internal/storage/pg"
	"github.com/mygramdb/mygram-go/pkg/query"
)

type PgExecutor struct {
	name     string
	executor storage.RawExecutor
	table    string
	maxK     int
}

func NewPgExecutor(name string, pool *pg.ConnectionPool, table string, maxK int) *PgExecutor {
	return &PgExecutor{
		name:     name,
		executor: pg.NewRawExecutor(pool),
		table:    table,
		maxK:     maxK,
	}
}

// CompileExpression renders the expression as ranked FTS SQL. Simple
// expressions become a to_tsquery built from the term buckets; complex ones
// fall back to websearch_to_tsquery, whose grammar covers OR and quoted
// phrases without raising syntax errors on user input.
func (e *PgExecutor) CompileExpression(expression string) (string, []any, error) {
	expr, err := query.Parse(expression)
	if err != nil {
		return "", nil, fmt.Errorf("pg compile: %w", err)
	}

	fn := "to_tsquery"
	arg := ""
	if expr.IsComplex() {
		fn = "websearch_to_tsquery"
		arg = expr.Raw
	} else {
		arg, err = tsqueryFromExpression(expr)
		if err != nil {
			return "", nil, fmt.Errorf("pg compile: %w", err)
		}
	}

	// id DESC breaks rank ties the same way MygramDB's default ordering does.
	sql := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE search_vector @@ %s('simple', $1)
		ORDER BY ts_rank(search_vector, %s('simple', $1)) DESC, id DESC
		LIMIT %d`, e.table, fn, fn, e.maxK)

	return sql, []any{arg}, nil
}

func (e *PgExecutor) Execute(ctx context.Context, rawQuery string, params []any) (*Execution, error) {
	start := time.Now()

	result, err := e.executor.Exec(ctx, rawQuery, params, nil)
	if err != nil {
		return nil, fmt.Errorf("pg exec: %w", err)
	}

	latency := time.Since(start)

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := extractDocID(hit["id"])
		if err != nil {
			return nil, fmt.Errorf("pg extract id: %w", err)
		}
		ids = append(ids, id)
	}

	return &Execution{
		RankedDocIDs: ids,
		TotalMatches: int64(result.TotalHits),
		Latency:      latency,
	}, nil
}

func (e *PgExecutor) Name() string { return e.name }
func (e *PgExecutor) Close() error { return nil }

func extractDocID(val interface{}) (string, error) {
	switch v := val.(type) {
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("unsupported id type %T", val)
	}
}
