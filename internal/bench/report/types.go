package report

import (
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/mygramdb/mygram-go/internal/bench/runner"
)

type Report struct {
	Meta   BenchMeta    `json:"meta"`
	Jobs   []JobReport  `json:"jobs"`
	Config ReportConfig `json:"config"`
}

type BenchMeta struct {
	Version     string                `json:"version"`
	RunID       uuid.UUID             `json:"run_id"`
	Timestamp   time.Time             `json:"timestamp"`
	Engines     map[string]EngineInfo `json:"engines"`
	Corpus      CorpusInfo            `json:"corpus,omitempty"`
	Environment EnvironmentInfo       `json:"environment"`
}

func NewBenchMeta(version string, engines map[string]EngineInfo) BenchMeta {
	return BenchMeta{
		Version:     version,
		RunID:       uuid.New(),
		Timestamp:   time.Now(),
		Engines:     engines,
		Environment: NewEnvironmentInfo(),
	}
}

type EngineInfo struct {
	Type       string `json:"type"`
	Connection string `json:"connection"`
	Version    string `json:"version,omitempty"`
}

type CorpusInfo struct {
	Name      string `json:"name,omitempty"`
	DocCount  int64  `json:"doc_count,omitempty"`
	IndexName string `json:"index_name,omitempty"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

type JobReport struct {
	JobName    string            `json:"job_name"`
	Aggregated []AggregatedEntry `json:"aggregated"`
	PerQuery   []Entry           `json:"per_query"`
}

type ReportConfig struct {
	KValues            []int `json:"k_values"`
	RelevanceThreshold int   `json:"relevance_threshold"`
}

type Entry struct {
	QueryID      string          `json:"query_id"`
	JobName      string          `json:"job_name"`
	EngineName   string          `json:"engine_name"`
	NDCG         map[int]float64 `json:"ndcg,omitempty"`
	Precision    map[int]float64 `json:"precision,omitempty"`
	Recall       map[int]float64 `json:"recall,omitempty"`
	F1           map[int]float64 `json:"f1,omitempty"`
	AP           float64         `json:"ap"`
	RR           float64         `json:"rr"`
	TotalMatches int64           `json:"total_matches"`
	Latency      LatencyStats    `json:"latency"`
	Error        string          `json:"error,omitempty"`
}

type AggregatedEntry struct {
	EngineName string          `json:"engine_name"`
	NDCG       map[int]float64 `json:"ndcg"`
	Precision  map[int]float64 `json:"precision"`
	Recall     map[int]float64 `json:"recall"`
	F1         map[int]float64 `json:"f1"`
	MAP        float64         `json:"map"`
	MRR        float64         `json:"mrr"`
	Latency    LatencyStats    `json:"latency"`
	QueryCount int             `json:"query_count"`
	ErrorCount int             `json:"error_count"`
}

type LatencyStats struct {
	Min         time.Duration         `json:"min"`
	Max         time.Duration         `json:"max"`
	Mean        time.Duration         `json:"mean"`
	Median      time.Duration         `json:"median"`
	Stddev      time.Duration         `json:"stddev"`
	Percentiles map[int]time.Duration `json:"percentiles"`
	SampleCount int                   `json:"sample_count"`
}

func fromRunnerLatencyStats(s runner.LatencyStats) LatencyStats {
	return LatencyStats{
		Min:         s.Min,
		Max:         s.Max,
		Mean:        s.Mean,
		Median:      s.Median,
		Stddev:      s.Stddev,
		Percentiles: s.Percentiles,
		SampleCount: s.SampleCount,
	}
}

func (s LatencyStats) P50() time.Duration { return s.Percentiles[50] }
func (s LatencyStats) P75() time.Duration { return s.Percentiles[75] }
func (s LatencyStats) P90() time.Duration { return s.Percentiles[90] }
func (s LatencyStats) P95() time.Duration { return s.Percentiles[95] }
func (s LatencyStats) P99() time.Duration { return s.Percentiles[99] }
