package mygram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mygramdb/mygram-go/pkg/stringsutil"
)

func parseSearchResponse(resp string) (*SearchResult, error) {
	if !strings.HasPrefix(resp, "OK RESULTS") {
		return nil, &ProtocolError{Response: resp}
	}

	fields := strings.Fields(resp)
	if len(fields) < 3 {
		return nil, &ProtocolError{Response: resp}
	}

	total, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse result count %q: %w", fields[2], err)
	}

	result := &SearchResult{Total: total}

	rest := fields[3:]
	debugIndex := len(rest)
	for i, f := range rest {
		if f == "DEBUG" {
			debugIndex = i
			break
		}
	}

	if debugIndex > 0 {
		result.IDs = append(result.IDs, rest[:debugIndex]...)
	}
	if debugIndex < len(rest) {
		result.Debug = parseDebugStats(rest[debugIndex+1:])
	}

	return result, nil
}

func parseCountResponse(resp string) (*CountResult, error) {
	if !strings.HasPrefix(resp, "OK COUNT") {
		return nil, &ProtocolError{Response: resp}
	}

	fields := strings.Fields(resp)
	if len(fields) < 3 {
		return nil, &ProtocolError{Response: resp}
	}

	count, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse count %q: %w", fields[2], err)
	}

	result := &CountResult{Count: count}
	if len(fields) > 3 && fields[3] == "DEBUG" {
		result.Debug = parseDebugStats(fields[4:])
	}

	return result, nil
}

func parseDocResponse(resp string) (*Document, error) {
	if !strings.HasPrefix(resp, "OK DOC") {
		return nil, &ProtocolError{Response: resp}
	}

	// Fields live on the first line only.
	line := resp
	if i := strings.IndexByte(resp, '\n'); i >= 0 {
		line = strings.TrimSuffix(resp[:i], "\r")
	}

	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, &ProtocolError{Response: resp}
	}

	doc := &Document{
		PrimaryKey: fields[2],
		Fields:     make(map[string]string),
	}
	for _, kv := range parseKeyValuePairs(fields[3:]) {
		doc.Fields[kv.key] = kv.value
	}

	return doc, nil
}

func parseInfoResponse(resp string) (*ServerInfo, error) {
	if !strings.HasPrefix(resp, "OK INFO") {
		return nil, &ProtocolError{Response: resp}
	}

	info := &ServerInfo{}
	lines := strings.Split(resp, "\n")

	// First line is the "OK INFO" status; the rest is Redis-style
	// "key: value" with blank lines and "# section" headers interleaved.
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || line[0] == '#' {
			continue
		}

		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		key := line[:colon]
		value := strings.TrimSpace(line[colon+1:])

		var err error
		switch key {
		case "version":
			info.Version = value
		case "uptime_seconds":
			info.UptimeSeconds, err = strconv.ParseUint(value, 10, 64)
		case "total_requests":
			info.TotalRequests, err = strconv.ParseUint(value, 10, 64)
		case "active_connections":
			info.ActiveConnections, err = strconv.ParseUint(value, 10, 64)
		case "index_size_bytes":
			info.IndexSizeBytes, err = strconv.ParseUint(value, 10, 64)
		case "doc_count", "total_documents":
			info.DocCount, err = strconv.ParseUint(value, 10, 64)
		case "tables":
			info.Tables = stringsutil.RemoveEmptyStrings(strings.Split(value, ","))
		}
		if err != nil {
			return nil, fmt.Errorf("parse info field %s=%q: %w", key, value, err)
		}
	}

	return info, nil
}

func parseReplicationStatus(resp string) (*ReplicationStatus, error) {
	if !strings.HasPrefix(resp, "OK REPLICATION") {
		return nil, &ProtocolError{Response: resp}
	}

	status := &ReplicationStatus{Raw: resp}
	for _, kv := range parseKeyValuePairs(strings.Fields(resp)) {
		switch kv.key {
		case "status":
			status.Running = kv.value == "running"
		case "gtid":
			status.GTID = kv.value
		}
	}

	return status, nil
}

// parseDebugStats reads the k=v tokens after a DEBUG marker. Unknown keys and
// unparsable values are skipped; debug output is diagnostic, not load-bearing.
func parseDebugStats(fields []string) *DebugStats {
	stats := &DebugStats{}
	for _, kv := range parseKeyValuePairs(fields) {
		switch kv.key {
		case "query_time":
			stats.QueryTimeMs, _ = strconv.ParseFloat(kv.value, 64)
		case "index_time":
			stats.IndexTimeMs, _ = strconv.ParseFloat(kv.value, 64)
		case "filter_time":
			stats.FilterTimeMs, _ = strconv.ParseFloat(kv.value, 64)
		case "terms":
			v, _ := strconv.ParseUint(kv.value, 10, 32)
			stats.Terms = uint32(v)
		case "ngrams":
			v, _ := strconv.ParseUint(kv.value, 10, 32)
			stats.Ngrams = uint32(v)
		case "candidates":
			stats.Candidates, _ = strconv.ParseUint(kv.value, 10, 64)
		case "after_intersection":
			stats.AfterIntersection, _ = strconv.ParseUint(kv.value, 10, 64)
		case "after_not":
			stats.AfterNot, _ = strconv.ParseUint(kv.value, 10, 64)
		case "after_filters":
			stats.AfterFilters, _ = strconv.ParseUint(kv.value, 10, 64)
		case "final":
			stats.Final, _ = strconv.ParseUint(kv.value, 10, 64)
		case "optimization":
			stats.Optimization = kv.value
		}
	}
	return stats
}

type kvPair struct {
	key   string
	value string
}

func parseKeyValuePairs(fields []string) []kvPair {
	var pairs []kvPair
	for _, f := range fields {
		eq := strings.IndexByte(f, '=')
		if eq < 0 {
			continue
		}
		pairs = append(pairs, kvPair{key: f[:eq], value: f[eq+1:]})
	}
	return pairs
}
