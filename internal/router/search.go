package router

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mygramdb/mygram-go/internal/apperr"
	"github.com/mygramdb/mygram-go/internal/cache"
	"github.com/mygramdb/mygram-go/internal/dto"
	"github.com/mygramdb/mygram-go/pkg/metrics"
	"github.com/mygramdb/mygram-go/pkg/mygram"
	"github.com/mygramdb/mygram-go/pkg/pagination"
	"github.com/mygramdb/mygram-go/pkg/query"
)

const (
	kindSimple  = "simple"
	kindComplex = "complex"
	kindInvalid = "invalid"

	outcomeOK            = "ok"
	outcomeSyntaxError   = "syntax_error"
	outcomeUpstreamError = "upstream_error"

	cacheHit    = "hit"
	cacheMiss   = "miss"
	cacheBypass = "bypass"
)

// Searcher is the slice of the search client the routes need.
type Searcher interface {
	Search(ctx context.Context, table, expression string, opts ...mygram.SearchOption) (*mygram.SearchResult, error)
	Count(ctx context.Context, table, expression string, opts ...mygram.SearchOption) (*mygram.CountResult, error)
	Get(ctx context.Context, table, primaryKey string) (*mygram.Document, error)
	Info(ctx context.Context) (*mygram.ServerInfo, error)
}

type SearchRouter struct {
	e            *echo.Echo
	searcher     Searcher
	cache        *cache.QueryCache
	metrics      *metrics.Metrics
	defaultTable string
}

type SearchRouterOption func(*SearchRouter)

func WithQueryCache(qc *cache.QueryCache) SearchRouterOption {
	return func(r *SearchRouter) {
		r.cache = qc
	}
}

func WithMetrics(m *metrics.Metrics) SearchRouterOption {
	return func(r *SearchRouter) {
		r.metrics = m
	}
}

func WithDefaultTable(table string) SearchRouterOption {
	return func(r *SearchRouter) {
		r.defaultTable = table
	}
}

func NewSearchRouter(e *echo.Echo, searcher Searcher, opts ...SearchRouterOption) *SearchRouter {
	r := &SearchRouter{
		e:            e,
		searcher:     searcher,
		defaultTable: "documents",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SearchRouter) Bind() {
	g := r.e.Group("/api/v1")
	g.GET("/search", r.searchHandler)
	g.GET("/count", r.countHandler)
	g.GET("/documents/:table/:pk", r.documentHandler)
	g.GET("/compile", r.compileHandler)
	g.GET("/info", r.infoHandler)
}

// @Summary Search documents
// @Description Runs a search expression against a table and returns the matching document IDs in server rank order.
// @Tags search
// @Produce json
// @Param q query string true "search expression"
// @Param table query string false "table to search" default(documents)
// @Param page query int false "1-based page" default(1)
// @Param size query int false "page size" default(100)
// @Param filter query []string false "column filter as key=value, repeatable"
// @Param sort query string false "sort column"
// @Param order query string false "sort order" Enums(asc, desc)
// @Param debug query bool false "bypass the query cache"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/search [get]
func (r *SearchRouter) searchHandler(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return apperr.NewValidation("q parameter is required")
	}
	table := r.tableParam(c)

	expr, err := query.Parse(q)
	if err != nil {
		r.countQuery(kindInvalid, outcomeSyntaxError)
		return err
	}
	kind := kindSimple
	if expr.IsComplex() {
		kind = kindComplex
	}

	var pr pagination.OffsetRequest
	if err := c.Bind(&pr); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}
	_ = pr.Validate()

	filters, err := parseFilterParams(c.QueryParams()["filter"])
	if err != nil {
		return err
	}
	sortBy := c.QueryParam("sort")
	order := c.QueryParam("order")

	opts := []mygram.SearchOption{mygram.WithLimit(pr.Size)}
	if off := pr.Offset(); off > 0 {
		opts = append(opts, mygram.WithOffset(off))
	}
	for _, f := range filters {
		opts = append(opts, mygram.WithFilter(f.Key, f.Value))
	}
	switch {
	case sortBy != "":
		opts = append(opts, mygram.WithSort(sortBy, order != "asc"))
	case order == "asc":
		opts = append(opts, mygram.WithAscendingOrder())
	}

	// The key uses the compiled form so whitespace variants of the same
	// expression share an entry. The raw expression still goes to the
	// client, which compiles it itself.
	compiled := expr.Raw
	if !expr.IsComplex() {
		compiled = expr.BooleanString()
	}
	keyOpts := []string{strconv.Itoa(pr.Page), strconv.Itoa(pr.Size), sortBy, order}
	for _, f := range filters {
		keyOpts = append(keyOpts, f.Key+"="+f.Value)
	}
	key := cache.Key(table, compiled, keyOpts...)

	qc := r.cache
	if c.QueryParam("debug") == "true" {
		qc = nil
	}

	start := time.Now()
	result, hit, err := qc.GetOrCompute(c.Request().Context(), key, func(ctx context.Context) (*mygram.SearchResult, error) {
		return r.searcher.Search(ctx, table, q, opts...)
	})
	if err != nil {
		r.countQuery(kind, outcomeUpstreamError)
		r.countUpstreamError("search")
		return err
	}

	r.countQuery(kind, outcomeOK)
	r.observeSearch(qc != nil, hit, time.Since(start), len(result.IDs))

	hits := make([]dto.SearchHit, 0, len(result.IDs))
	for _, id := range result.IDs {
		hits = append(hits, dto.SearchHit{ID: id})
	}
	return c.JSON(http.StatusOK, pagination.NewOffsetResult(hits, result.Total, pr.Page, pr.Size))
}

// @Summary Count matches
// @Description Returns the number of documents matching an expression without fetching IDs.
// @Tags search
// @Produce json
// @Param q query string true "search expression"
// @Param table query string false "table to search" default(documents)
// @Param filter query []string false "column filter as key=value, repeatable"
// @Success 200 {object} dto.CountResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/count [get]
func (r *SearchRouter) countHandler(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return apperr.NewValidation("q parameter is required")
	}
	table := r.tableParam(c)

	filters, err := parseFilterParams(c.QueryParams()["filter"])
	if err != nil {
		return err
	}
	opts := make([]mygram.SearchOption, 0, len(filters))
	for _, f := range filters {
		opts = append(opts, mygram.WithFilter(f.Key, f.Value))
	}

	result, err := r.searcher.Count(c.Request().Context(), table, q, opts...)
	if err != nil {
		r.countUpstreamError("count")
		return err
	}

	return c.JSON(http.StatusOK, dto.CountResponse{
		Table:      table,
		Expression: q,
		Count:      result.Count,
	})
}

// @Summary Fetch a document
// @Description Fetches a single document by primary key.
// @Tags documents
// @Produce json
// @Param table path string true "table name"
// @Param pk path string true "primary key"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/documents/{table}/{pk} [get]
func (r *SearchRouter) documentHandler(c echo.Context) error {
	table := c.Param("table")
	pk := c.Param("pk")

	doc, err := r.searcher.Get(c.Request().Context(), table, pk)
	if err != nil {
		if mygram.IsNotFound(err) {
			return apperr.NewNotFound("document " + table + "/" + pk)
		}
		r.countUpstreamError("get")
		return err
	}

	return c.JSON(http.StatusOK, dto.DocumentResponse{
		Table:      table,
		PrimaryKey: doc.PrimaryKey,
		Fields:     doc.Fields,
	})
}

// @Summary Compile an expression
// @Description Shows what an expression compiles to without running it: the boolean form sent to the server plus the term buckets.
// @Tags search
// @Produce json
// @Param q query string true "search expression"
// @Success 200 {object} dto.CompileResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/compile [get]
func (r *SearchRouter) compileHandler(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return apperr.NewValidation("q parameter is required")
	}

	expr, err := query.Parse(q)
	if err != nil {
		return err
	}

	compiled := expr.Raw
	if !expr.IsComplex() {
		compiled = expr.BooleanString()
	}

	return c.JSON(http.StatusOK, dto.CompileResponse{
		Expression: q,
		Compiled:   compiled,
		Complex:    expr.IsComplex(),
		Required:   expr.Required,
		Optional:   expr.Optional,
		Excluded:   expr.Excluded,
	})
}

// @Summary Server info
// @Description Returns version, uptime, and index statistics of the search server.
// @Tags server
// @Produce json
// @Success 200 {object} mygram.ServerInfo
// @Failure 502 {object} map[string]string
// @Router /api/v1/info [get]
func (r *SearchRouter) infoHandler(c echo.Context) error {
	info, err := r.searcher.Info(c.Request().Context())
	if err != nil {
		r.countUpstreamError("info")
		return err
	}
	return c.JSON(http.StatusOK, info)
}

func (r *SearchRouter) tableParam(c echo.Context) string {
	if table := c.QueryParam("table"); table != "" {
		return table
	}
	return r.defaultTable
}

func parseFilterParams(raw []string) ([]mygram.Filter, error) {
	filters := make([]mygram.Filter, 0, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || v == "" {
			return nil, apperr.NewValidation(fmt.Sprintf("filter %q must be key=value", kv))
		}
		filters = append(filters, mygram.Filter{Key: k, Value: v})
	}
	return filters, nil
}

func (r *SearchRouter) countQuery(kind, outcome string) {
	if r.metrics == nil {
		return
	}
	r.metrics.SearchQueriesTotal.WithLabelValues(kind, outcome).Inc()
}

func (r *SearchRouter) countUpstreamError(command string) {
	if r.metrics == nil {
		return
	}
	r.metrics.UpstreamErrorsTotal.WithLabelValues(command).Inc()
}

func (r *SearchRouter) observeSearch(cached, hit bool, elapsed time.Duration, results int) {
	if r.metrics == nil {
		return
	}

	status := cacheBypass
	if cached {
		if hit {
			status = cacheHit
			r.metrics.CacheHitsTotal.Inc()
		} else {
			status = cacheMiss
			r.metrics.CacheMissesTotal.Inc()
		}
	}

	r.metrics.SearchLatency.WithLabelValues(status).Observe(elapsed.Seconds())
	r.metrics.SearchResultsCount.Observe(float64(results))
}
