package dto

import (
	"github.com/mygramdb/mygram-go/pkg/pagination"
)

// SearchHit is one search result row. The server returns primary keys only,
// so a hit is just the key; callers fetch document bodies by key when they
// need them.
type SearchHit struct {
	ID string `json:"id"`
}

// SearchResponse is the offset pagination envelope for /search.
type SearchResponse = pagination.OffsetResult[SearchHit]

type CountResponse struct {
	Table      string `json:"table"`
	Expression string `json:"expression"`
	Count      uint64 `json:"count"`
}

type DocumentResponse struct {
	Table      string            `json:"table"`
	PrimaryKey string            `json:"primary_key"`
	Fields     map[string]string `json:"fields"`
}

// CompileResponse shows what an expression compiles to without running it.
type CompileResponse struct {
	Expression string   `json:"expression"`
	Compiled   string   `json:"compiled"`
	Complex    bool     `json:"complex"`
	Required   []string `json:"required,omitempty"`
	Optional   []string `json:"optional,omitempty"`
	Excluded   []string `json:"excluded,omitempty"`
}
