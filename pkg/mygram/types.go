package mygram

// SearchResult holds the outcome of a SEARCH command. IDs are the matching
// primary keys in server result order; Total is the match count before LIMIT.
type SearchResult struct {
	Total uint64      `json:"total"`
	IDs   []string    `json:"ids"`
	Debug *DebugStats `json:"debug,omitempty"`
}

// CountResult holds the outcome of a COUNT command.
type CountResult struct {
	Count uint64      `json:"count"`
	Debug *DebugStats `json:"debug,omitempty"`
}

// Document is a single row fetched by primary key. Fields holds the column
// values the server chose to return; value tokens cannot contain whitespace
// on the wire, so what arrives is what was stored minus any spaces the
// server's own encoding rules handle.
type Document struct {
	PrimaryKey string            `json:"primary_key"`
	Fields     map[string]string `json:"fields"`
}

// ServerInfo is the parsed Redis-style INFO response.
type ServerInfo struct {
	Version           string   `json:"version"`
	UptimeSeconds     uint64   `json:"uptime_seconds"`
	TotalRequests     uint64   `json:"total_requests"`
	ActiveConnections uint64   `json:"active_connections"`
	IndexSizeBytes    uint64   `json:"index_size_bytes"`
	DocCount          uint64   `json:"doc_count"`
	Tables            []string `json:"tables"`
}

// ReplicationStatus reports the server's MySQL replication state. Raw keeps
// the full response text for fields this struct does not model.
type ReplicationStatus struct {
	Running bool   `json:"running"`
	GTID    string `json:"gtid"`
	Raw     string `json:"raw"`
}

// DebugStats is the optional DEBUG k=v tail the server appends to SEARCH and
// COUNT responses when debug mode is on. Times are milliseconds.
type DebugStats struct {
	QueryTimeMs       float64 `json:"query_time_ms"`
	IndexTimeMs       float64 `json:"index_time_ms"`
	FilterTimeMs      float64 `json:"filter_time_ms"`
	Terms             uint32  `json:"terms"`
	Ngrams            uint32  `json:"ngrams"`
	Candidates        uint64  `json:"candidates"`
	AfterIntersection uint64  `json:"after_intersection"`
	AfterNot          uint64  `json:"after_not"`
	AfterFilters      uint64  `json:"after_filters"`
	Final             uint64  `json:"final"`
	Optimization      string  `json:"optimization,omitempty"`
}

// Filter is a FILTER key = value clause; filters apply in the order given.
type Filter struct {
	Key   string
	Value string
}
