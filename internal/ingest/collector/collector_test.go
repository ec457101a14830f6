package collector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mygramdb/mygram-go/internal/ingest/reader"
)

func TestDocumentCollector_Collect(t *testing.T) {
	csvData := `id,title,category
1,Go Concurrency Patterns,tech
2,,tech
3,Intro to Channels,tech`

	c := NewDocumentCollector(
		reader.NewCSVReader(strings.NewReader(csvData)),
		reader.NewDocumentMapper(),
	)

	results, err := c.Collect(t.Context())
	require.NoError(t, err)

	var titles []string
	var errorCount int
	for res := range results {
		if res.Err != nil {
			errorCount++
			continue
		}
		titles = append(titles, res.Result.Title)
	}

	assert.Equal(t, 1, errorCount)
	assert.ElementsMatch(t, []string{"Go Concurrency Patterns", "Intro to Channels"}, titles)
}
