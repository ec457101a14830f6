package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/mygramdb/mygram-go/pkg/mygram"
	"github.com/mygramdb/mygram-go/pkg/query"
)

// MygramExecutor benches a MygramDB server through the line-protocol client.
// The client compiles expressions on its own, so CompileExpression only
// validates syntax and hands the expression through unchanged.
type MygramExecutor struct {
	name   string
	client *mygram.Client
	table  string
	maxK   int
}

func NewMygramExecutor(name string, client *mygram.Client, table string, maxK int) *MygramExecutor {
	return &MygramExecutor{
		name:   name,
		client: client,
		table:  table,
		maxK:   maxK,
	}
}

func (e *MygramExecutor) CompileExpression(expression string) (string, []any, error) {
	if _, err := query.Parse(expression); err != nil {
		return "", nil, fmt.Errorf("mygram compile: %w", err)
	}
	return expression, nil, nil
}

func (e *MygramExecutor) Execute(ctx context.Context, expression string, _ []any) (*Execution, error) {
	start := time.Now()

	result, err := e.client.Search(ctx, e.table, expression, mygram.WithLimit(e.maxK))
	if err != nil {
		return nil, fmt.Errorf("mygram search: %w", err)
	}

	return &Execution{
		RankedDocIDs: result.IDs,
		TotalMatches: int64(result.Total),
		Latency:      time.Since(start),
	}, nil
}

func (e *MygramExecutor) Name() string { return e.name }

// Close is a no-op; the factory owns the client connection.
func (e *MygramExecutor) Close() error { return nil }
