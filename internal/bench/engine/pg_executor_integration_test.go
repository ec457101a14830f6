package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mygramdb/mygram-go/internal/domain"
	"github.com/mygramdb/mygram-go/internal/storage/pg"
	pkgtesting "github.com/mygramdb/mygram-go/pkg/testing"
)

func TestPgExecutor_Integration(t *testing.T) {
	pkgtesting.SkipUnlessIntegration(t)

	ctx := context.Background()
	pgc := pkgtesting.NewPGContainerWithCleanup(ctx, t)

	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: pgc.ConnString})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	storer, err := pg.NewStorer(pool)
	require.NoError(t, err)
	require.NoError(t, storer.SaveBulk(ctx, []domain.Document{
		{ID: 1, Title: "Go Concurrency Patterns", Content: "Goroutines and channels in practice."},
		{ID: 2, Title: "Intro to Channels", Content: "Concurrency primitives for pipelines."},
		{ID: 3, Title: "Legacy Monolith Migration", Content: "Carving services out of the old codebase."},
	}))

	exec := NewPgExecutor("pg-fts", pool, "documents", 10)

	t.Run("ranked search", func(t *testing.T) {
		compiled, params, err := exec.CompileExpression("+concurrency")
		require.NoError(t, err)

		execution, err := exec.Execute(ctx, compiled, params)
		require.NoError(t, err)

		// title matches carry weight A, so doc 1 outranks the content-only hit
		assert.Equal(t, []string{"1", "2"}, execution.RankedDocIDs)
		assert.Equal(t, int64(2), execution.TotalMatches)
		assert.Positive(t, execution.Latency)
	})

	t.Run("exclusion narrows hits", func(t *testing.T) {
		compiled, params, err := exec.CompileExpression("+concurrency -pipelines")
		require.NoError(t, err)

		execution, err := exec.Execute(ctx, compiled, params)
		require.NoError(t, err)

		assert.Equal(t, []string{"1"}, execution.RankedDocIDs)
	})

	t.Run("no matches", func(t *testing.T) {
		compiled, params, err := exec.CompileExpression("+kubernetes")
		require.NoError(t, err)

		execution, err := exec.Execute(ctx, compiled, params)
		require.NoError(t, err)

		assert.Empty(t, execution.RankedDocIDs)
		assert.Zero(t, execution.TotalMatches)
	})
}
