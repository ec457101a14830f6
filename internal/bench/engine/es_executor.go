package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mygramdb/mygram-go/pkg/query"
)

var esSearchFields = []string{"title^2", "content"}

type EsExecutor struct {
	name    string
	baseURL string
	index   string
	maxK    int
	client  *http.Client
}

func NewEsExecutor(name, baseURL, index string, maxK int) *EsExecutor {
	return &EsExecutor{
		name:    name,
		baseURL: baseURL,
		index:   index,
		maxK:    maxK,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// CompileExpression renders the expression as a _search request body. Simple
// expressions map bucket by bucket onto a bool query; complex ones go through
// query_string, whose grammar covers OR, grouping and quoted phrases.
func (e *EsExecutor) CompileExpression(expression string) (string, []any, error) {
	expr, err := query.Parse(expression)
	if err != nil {
		return "", nil, fmt.Errorf("es compile: %w", err)
	}

	var q map[string]any
	if expr.IsComplex() {
		q = map[string]any{
			"query_string": map[string]any{
				"query":            expr.Raw,
				"fields":           esSearchFields,
				"default_operator": "AND",
			},
		}
	} else {
		q = boolQueryFromExpression(expr)
	}

	body, err := json.Marshal(map[string]any{
		"size":    e.maxK,
		"_source": []string{"id"},
		"query":   q,
	})
	if err != nil {
		return "", nil, fmt.Errorf("es compile: %w", err)
	}
	return string(body), nil, nil
}

func boolQueryFromExpression(expr *query.Expression) map[string]any {
	boolQ := map[string]any{}

	var must []any
	for _, t := range expr.Required {
		must = append(must, esMatchClause(t))
	}

	if len(expr.Optional) > 0 {
		// Optional terms next to required ones are effectively required,
		// mirroring the boolean render; alone they keep OR semantics.
		if len(expr.Required) > 0 {
			for _, t := range expr.Optional {
				must = append(must, esMatchClause(t))
			}
		} else {
			var should []any
			for _, t := range expr.Optional {
				should = append(should, esMatchClause(t))
			}
			boolQ["should"] = should
			boolQ["minimum_should_match"] = 1
		}
	}
	if len(must) > 0 {
		boolQ["must"] = must
	}

	if len(expr.Excluded) > 0 {
		var mustNot []any
		for _, t := range expr.Excluded {
			mustNot = append(mustNot, esMatchClause(t))
		}
		boolQ["must_not"] = mustNot
	}

	return map[string]any{"bool": boolQ}
}

func esMatchClause(term string) map[string]any {
	m := map[string]any{
		"query":  term,
		"fields": esSearchFields,
	}
	if strings.Contains(term, " ") {
		m["type"] = "phrase"
	}
	return map[string]any{"multi_match": m}
}

func (e *EsExecutor) Execute(ctx context.Context, rawQuery string, _ []any) (*Execution, error) {
	url := fmt.Sprintf("%s/%s/_search", e.baseURL, e.index)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(rawQuery))
	if err != nil {
		return nil, fmt.Errorf("es create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("es request: %w", err)
	}
	defer resp.Body.Close()
	latency := time.Since(start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("es read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("es status %d: %s", resp.StatusCode, string(body))
	}

	var esResp esSearchResponse
	if err := json.Unmarshal(body, &esResp); err != nil {
		return nil, fmt.Errorf("es parse response: %w", err)
	}

	ids := make([]string, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		id := hit.Source.ID
		if id == "" {
			id = hit.ID
		}
		if id == "" {
			return nil, fmt.Errorf("es hit missing id")
		}
		ids = append(ids, id)
	}

	return &Execution{
		RankedDocIDs: ids,
		TotalMatches: esResp.Hits.Total.Value,
		Latency:      latency,
	}, nil
}

func (e *EsExecutor) Name() string { return e.name }
func (e *EsExecutor) Close() error { return nil }

type esSearchResponse struct {
	Hits esHits `json:"hits"`
}

type esHits struct {
	Total esTotal `json:"total"`
	Hits  []esHit `json:"hits"`
}

type esTotal struct {
	Value int64 `json:"value"`
}

type esHit struct {
	ID     string   `json:"_id"`
	Source esSource `json:"_source"`
}

type esSource struct {
	ID string `json:"id"`
}
