package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mygramdb/mygram-go/internal/bench/metrics"
	"github.com/mygramdb/mygram-go/internal/bench/runner"
)

func benchResult() *runner.BenchmarkResult {
	mkLatency := func(ds ...time.Duration) runner.LatencyStats {
		return runner.ComputeLatencyStats(ds)
	}

	jr := &runner.JobResult{
		JobName:     "engine-comparison",
		EngineNames: []string{"mygram", "pg-fts"},
		QueryOrder:  []string{"q1", "q2"},
		Results: map[string]map[string]runner.QueryResult{
			"q1": {
				"mygram": {
					QueryID: "q1", JobName: "engine-comparison", EngineName: "mygram",
					Scores: metrics.ScoreSet{
						NDCG:      map[int]float64{3: 1.0},
						Precision: map[int]float64{3: 1.0},
						Recall:    map[int]float64{3: 0.5},
						F1:        map[int]float64{3: 0.6667},
						AP:        1.0,
						RR:        1.0,
					},
					TotalMatches: 5,
					Latency:      mkLatency(10*time.Millisecond, 20*time.Millisecond),
				},
				"pg-fts": {
					QueryID: "q1", JobName: "engine-comparison", EngineName: "pg-fts",
					Error: errors.New("connection refused"),
				},
			},
			"q2": {
				"mygram": {
					QueryID: "q2", JobName: "engine-comparison", EngineName: "mygram",
					Scores: metrics.ScoreSet{
						NDCG:      map[int]float64{3: 0.5},
						Precision: map[int]float64{3: 0.5},
						Recall:    map[int]float64{3: 0.5},
						F1:        map[int]float64{3: 0.5},
						AP:        0.5,
						RR:        0.5,
					},
					TotalMatches: 2,
					Latency:      mkLatency(30*time.Millisecond, 40*time.Millisecond),
				},
				"pg-fts": {
					QueryID: "q2", JobName: "engine-comparison", EngineName: "pg-fts",
					Scores: metrics.ScoreSet{
						NDCG:      map[int]float64{3: 1.0},
						Precision: map[int]float64{3: 1.0},
						Recall:    map[int]float64{3: 1.0},
						F1:        map[int]float64{3: 1.0},
						AP:        1.0,
						RR:        1.0,
					},
					TotalMatches: 3,
					Latency:      mkLatency(5 * time.Millisecond),
				},
			},
		},
	}

	return &runner.BenchmarkResult{
		Jobs:   []*runner.JobResult{jr},
		Config: runner.Config{KValues: []int{3}, RelevanceThreshold: 1, Runs: 2},
	}
}

func TestGenerate(t *testing.T) {
	rpt := Generate(benchResult())

	require.Len(t, rpt.Jobs, 1)
	jr := rpt.Jobs[0]
	assert.Equal(t, "engine-comparison", jr.JobName)

	require.Len(t, jr.PerQuery, 4)
	assert.Equal(t, "q1", jr.PerQuery[0].QueryID)
	assert.Equal(t, "mygram", jr.PerQuery[0].EngineName)
	assert.Equal(t, "pg-fts", jr.PerQuery[1].EngineName)
	assert.Equal(t, "connection refused", jr.PerQuery[1].Error)
	assert.Equal(t, "q2", jr.PerQuery[2].QueryID)

	require.Len(t, jr.Aggregated, 2)

	mg := jr.Aggregated[0]
	assert.Equal(t, "mygram", mg.EngineName)
	assert.Equal(t, 2, mg.QueryCount)
	assert.Zero(t, mg.ErrorCount)
	assert.InDelta(t, 0.75, mg.MAP, 1e-9)
	assert.InDelta(t, 0.75, mg.NDCG[3], 1e-9)
	// pooled latency samples, not averaged averages
	assert.Equal(t, 4, mg.Latency.SampleCount)
	assert.Equal(t, 10*time.Millisecond, mg.Latency.Min)
	assert.Equal(t, 40*time.Millisecond, mg.Latency.Max)

	pg := jr.Aggregated[1]
	assert.Equal(t, "pg-fts", pg.EngineName)
	assert.Equal(t, 2, pg.QueryCount)
	assert.Equal(t, 1, pg.ErrorCount)
	assert.InDelta(t, 1.0, pg.MAP, 1e-9)
	assert.Equal(t, 1, pg.Latency.SampleCount)

	assert.Equal(t, []int{3}, rpt.Config.KValues)
}

func TestWriteTable(t *testing.T) {
	rpt := Generate(benchResult())
	rpt.Meta = NewBenchMeta("test", map[string]EngineInfo{
		"mygram": {Type: "mygram", Connection: "127.0.0.1:11016"},
	})

	var buf bytes.Buffer
	WriteTable(rpt, &buf)

	out := buf.String()
	assert.Contains(t, out, "Search Engine Benchmark")
	assert.Contains(t, out, "engine-comparison")
	assert.Contains(t, out, "mygram")
	assert.Contains(t, out, "pg-fts")
	assert.Contains(t, out, "q1")
	assert.Contains(t, out, "ERR")
}

func TestWriteJSON(t *testing.T) {
	rpt := Generate(benchResult())
	rpt.Meta = NewBenchMeta("test", nil)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(rpt, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rpt.Meta.RunID, decoded.Meta.RunID)
	require.Len(t, decoded.Jobs, 1)
	assert.Len(t, decoded.Jobs[0].PerQuery, 4)
}
