package judgment

import (
	"path/filepath"
	"testing"

	"github.com/mygramdb/mygram-go/internal/bench/pool"
	"github.com/mygramdb/mygram-go/internal/bench/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportForAnnotation_RoundTrip(t *testing.T) {
	pf := &pool.PoolFile{
		SuiteName: "engine-comparison",
		Queries: []pool.PoolEntry{
			{
				QueryID:   "q1",
				QueryDesc: "required terms",
				Docs: []pool.PooledDoc{
					{DocID: "7", Sources: []string{"mygram"}},
					{DocID: "3", Sources: []string{"mygram", "pg-fts"}},
				},
			},
			{
				QueryID: "q2",
				Docs: []pool.PooledDoc{
					{DocID: "12", Sources: []string{"pg-fts"}},
				},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "judgments.yaml")
	require.NoError(t, ExportForAnnotation(pf, path))

	jf, err := ImportAnnotations(path)
	require.NoError(t, err)

	assert.Equal(t, "manual", jf.Strategy)
	require.Len(t, jf.Queries, 2)
	assert.Equal(t, "q1", jf.Queries[0].QueryID)
	require.Len(t, jf.Queries[0].Docs, 2)
	assert.Equal(t, GradedDoc{DocID: "7", Grade: -1}, jf.Queries[0].Docs[0])
	assert.Equal(t, GradedDoc{DocID: "3", Grade: -1}, jf.Queries[0].Docs[1])
	assert.Equal(t, "q2", jf.Queries[1].QueryID)
}

func TestImportAnnotations_MissingFile(t *testing.T) {
	_, err := ImportAnnotations(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMergeIntoSuite(t *testing.T) {
	s := &suite.TestSuite{
		Name: "engine-comparison",
		Queries: []suite.Query{
			{
				ID:         "q1",
				Expression: "+golang +tutorial",
				Judgments: []suite.RelevanceJudgment{
					{DocID: "1", Relevance: 1},
				},
			},
			{ID: "q2", Expression: "database"},
		},
	}

	jf := &JudgmentFile{
		Strategy: "manual",
		Queries: []JudgmentEntry{
			{
				QueryID: "q1",
				Docs: []GradedDoc{
					{DocID: "7", Grade: 2},
					{DocID: "9", Grade: -1},
					{DocID: "3", Grade: 0},
				},
			},
		},
	}

	merged := MergeIntoSuite(jf, s)

	require.Len(t, merged.Queries, 2)
	assert.Equal(t, []suite.RelevanceJudgment{
		{DocID: "7", Relevance: 2},
		{DocID: "3", Relevance: 0},
	}, merged.Queries[0].Judgments, "graded docs replace old judgments, ungraded are dropped")

	assert.Empty(t, merged.Queries[1].Judgments, "queries without annotations keep their judgments")

	assert.Equal(t, []suite.RelevanceJudgment{{DocID: "1", Relevance: 1}}, s.Queries[0].Judgments,
		"the input suite is not mutated")
}
