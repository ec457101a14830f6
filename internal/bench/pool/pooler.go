package pool

import (
	"sort"

	"github.com/mygramdb/mygram-go/internal/bench/engine"
)

type PoolFile struct {
	SuiteName string      `yaml:"suite_name"`
	Queries   []PoolEntry `yaml:"queries"`
}

type PoolEntry struct {
	QueryID   string      `yaml:"query_id"`
	QueryDesc string      `yaml:"query_desc"`
	Docs      []PooledDoc `yaml:"docs"`
}

type PooledDoc struct {
	DocID   string   `yaml:"doc_id"`
	Sources []string `yaml:"sources"`
}

// PoolResults merges the top results of every engine into one deduplicated
// list for annotation. Engines are visited in name order so pool files diff
// cleanly between runs.
func PoolResults(results map[string]*engine.Execution, depth int) []PooledDoc {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]*PooledDoc)
	var order []string

	for _, engineName := range names {
		exec := results[engineName]
		if exec == nil {
			continue
		}
		limit := depth
		if limit > len(exec.RankedDocIDs) {
			limit = len(exec.RankedDocIDs)
		}
		for _, docID := range exec.RankedDocIDs[:limit] {
			if pd, ok := seen[docID]; ok {
				pd.Sources = append(pd.Sources, engineName)
			} else {
				seen[docID] = &PooledDoc{
					DocID:   docID,
					Sources: []string{engineName},
				}
				order = append(order, docID)
			}
		}
	}

	docs := make([]PooledDoc, 0, len(order))
	for _, id := range order {
		docs = append(docs, *seen[id])
	}
	return docs
}
