package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mygramdb/mygram-go/pkg/mygram"
	"github.com/mygramdb/mygram-go/pkg/query"
	pkgtesting "github.com/mygramdb/mygram-go/pkg/testing"
)

func TestPgExecutor_CompileExpression(t *testing.T) {
	exec := &PgExecutor{name: "pg-fts", table: "documents", maxK: 50}

	t.Run("simple expression uses to_tsquery", func(t *testing.T) {
		sql, params, err := exec.CompileExpression("+golang -legacy")
		require.NoError(t, err)

		assert.Equal(t, []any{"golang & !legacy"}, params)
		assert.Contains(t, sql, "FROM documents")
		assert.Contains(t, sql, "to_tsquery('simple', $1)")
		assert.Contains(t, sql, "LIMIT 50")
		assert.NotContains(t, sql, "websearch_to_tsquery")
	})

	t.Run("complex expression falls back to websearch", func(t *testing.T) {
		sql, params, err := exec.CompileExpression("golang OR rust")
		require.NoError(t, err)

		assert.Equal(t, []any{"golang OR rust"}, params)
		assert.Contains(t, sql, "websearch_to_tsquery('simple', $1)")
	})

	t.Run("syntax error surfaces", func(t *testing.T) {
		_, _, err := exec.CompileExpression("+")
		require.Error(t, err)

		var synErr *query.SyntaxError
		assert.ErrorAs(t, err, &synErr)
	})
}

func TestEsExecutor_CompileExpression(t *testing.T) {
	exec := NewEsExecutor("es", "http://localhost:9200", "documents", 25)

	t.Run("simple expression builds bool query", func(t *testing.T) {
		raw, params, err := exec.CompileExpression(`+golang +"web server" -legacy optional`)
		require.NoError(t, err)
		assert.Nil(t, params)

		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &body))

		assert.Equal(t, float64(25), body["size"])
		assert.Equal(t, []any{"id"}, body["_source"])

		boolQ := body["query"].(map[string]any)["bool"].(map[string]any)
		// optional next to required terms joins the must clause
		assert.Len(t, boolQ["must"], 3)
		assert.Len(t, boolQ["must_not"], 1)
		assert.NotContains(t, boolQ, "should")

		phrase := boolQ["must"].([]any)[1].(map[string]any)["multi_match"].(map[string]any)
		assert.Equal(t, "web server", phrase["query"])
		assert.Equal(t, "phrase", phrase["type"])
	})

	t.Run("pure optional terms become should", func(t *testing.T) {
		raw, _, err := exec.CompileExpression("golang rust")
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &body))

		boolQ := body["query"].(map[string]any)["bool"].(map[string]any)
		assert.Len(t, boolQ["should"], 2)
		assert.Equal(t, float64(1), boolQ["minimum_should_match"])
		assert.NotContains(t, boolQ, "must")
	})

	t.Run("complex expression uses query_string", func(t *testing.T) {
		raw, _, err := exec.CompileExpression("(golang OR rust) +tutorial")
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &body))

		qs := body["query"].(map[string]any)["query_string"].(map[string]any)
		assert.Equal(t, "(golang OR rust) +tutorial", qs["query"])
		assert.Equal(t, "AND", qs["default_operator"])
	})
}

func TestEsExecutor_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/documents/_search", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[{"_id":"7","_source":{"id":"7"}},{"_id":"3","_source":{}}]}}`))
	}))
	defer srv.Close()

	exec := NewEsExecutor("es", srv.URL, "documents", 10)

	execution, err := exec.Execute(context.Background(), `{"query":{"match_all":{}}}`, nil)
	require.NoError(t, err)

	// second hit has no _source.id and falls back to _id
	assert.Equal(t, []string{"7", "3"}, execution.RankedDocIDs)
	assert.Equal(t, int64(2), execution.TotalMatches)
	assert.Positive(t, execution.Latency)
}

func TestEsExecutor_Execute_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"index_not_found_exception"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	exec := NewEsExecutor("es", srv.URL, "missing", 10)

	_, err := exec.Execute(context.Background(), `{}`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "es status 404")
}

func TestAPIExecutor_CompileExpression(t *testing.T) {
	exec := NewAPIExecutor("api", "http://localhost:8080", 10)

	raw, params, err := exec.CompileExpression("+golang -legacy")
	require.NoError(t, err)
	assert.Nil(t, params)

	var req apiRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/v1/search", req.Path)
	assert.Equal(t, "+golang -legacy", req.Params["q"])
	assert.Equal(t, "10", req.Params["size"])
}

func TestAPIExecutor_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/search", r.URL.Path)
		assert.Equal(t, "+golang", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":42,"items":[{"id":"7"},{"id":"3"}],"page":1,"size":10,"has_more":true}`))
	}))
	defer srv.Close()

	exec := NewAPIExecutor("api", srv.URL, 10)

	compiled, params, err := exec.CompileExpression("+golang")
	require.NoError(t, err)

	execution, err := exec.Execute(context.Background(), compiled, params)
	require.NoError(t, err)

	assert.Equal(t, []string{"7", "3"}, execution.RankedDocIDs)
	assert.Equal(t, int64(42), execution.TotalMatches)
}

func TestMygramExecutor(t *testing.T) {
	server := pkgtesting.NewMygramServer(t)
	server.Respond("SEARCH documents golang AND tutorial LIMIT 10", "OK RESULTS 42 7 3 9")

	client := mygram.New(mygram.Config{
		Host:    server.Host(),
		Port:    server.Port(),
		Timeout: 2 * time.Second,
	})
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(func() { _ = client.Close() })

	exec := NewMygramExecutor("mygram", client, "documents", 10)

	compiled, params, err := exec.CompileExpression("+golang +tutorial")
	require.NoError(t, err)
	assert.Equal(t, "+golang +tutorial", compiled)

	execution, err := exec.Execute(context.Background(), compiled, params)
	require.NoError(t, err)

	assert.Equal(t, []string{"7", "3", "9"}, execution.RankedDocIDs)
	assert.Equal(t, int64(42), execution.TotalMatches)
	assert.Positive(t, execution.Latency)
}

func TestMygramExecutor_CompileExpression_SyntaxError(t *testing.T) {
	exec := NewMygramExecutor("mygram", mygram.New(mygram.Config{}), "documents", 10)

	_, _, err := exec.CompileExpression("-")
	require.Error(t, err)

	var synErr *query.SyntaxError
	assert.ErrorAs(t, err, &synErr)
}
