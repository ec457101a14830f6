package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mygramdb/mygram-go/internal/dto"
)

// APIExecutor benches the HTTP gateway, so a run measures the full stack:
// JSON surface, cache layer and the MygramDB hop behind it.
type APIExecutor struct {
	name    string
	baseURL string
	maxK    int
	client  *http.Client
}

func NewAPIExecutor(name, baseURL string, maxK int) *APIExecutor {
	return &APIExecutor{
		name:    name,
		baseURL: baseURL,
		maxK:    maxK,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type apiRequest struct {
	Method string            `json:"method"`
	Path   string            `json:"path"`
	Params map[string]string `json:"params,omitempty"`
	Body   string            `json:"body,omitempty"`
}

func (e *APIExecutor) CompileExpression(expression string) (string, []any, error) {
	req := apiRequest{
		Method: http.MethodGet,
		Path:   "/api/v1/search",
		Params: map[string]string{
			"q":    expression,
			"size": strconv.Itoa(e.maxK),
		},
	}
	raw, err := json.Marshal(req)
	if err != nil {
		return "", nil, fmt.Errorf("api compile: %w", err)
	}
	return string(raw), nil, nil
}

func (e *APIExecutor) Execute(ctx context.Context, rawQuery string, _ []any) (*Execution, error) {
	var req apiRequest
	if err := json.Unmarshal([]byte(rawQuery), &req); err != nil {
		return nil, fmt.Errorf("api parse request descriptor: %w", err)
	}

	reqURL := e.baseURL + req.Path

	if len(req.Params) > 0 {
		params := url.Values{}
		for k, v := range req.Params {
			params.Set(k, v)
		}
		reqURL += "?" + params.Encode()
	}

	var bodyReader io.Reader
	if req.Body != "" {
		bodyReader = bytes.NewBufferString(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("api create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("api request: %w", err)
	}
	defer resp.Body.Close()
	latency := time.Since(start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api status %d: %s", resp.StatusCode, string(body))
	}

	// The gateway's own response type, so the harness breaks loudly if the
	// JSON surface changes shape.
	var searchResp dto.SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("api parse response: %w", err)
	}

	ids := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		ids = append(ids, item.ID)
	}

	return &Execution{
		RankedDocIDs: ids,
		TotalMatches: int64(searchResp.Total),
		Latency:      latency,
	}, nil
}

func (e *APIExecutor) Name() string { return e.name }
func (e *APIExecutor) Close() error { return nil }
