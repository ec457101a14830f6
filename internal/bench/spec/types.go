package spec

type BenchSpec struct {
	Jobs    []Job             `yaml:"jobs"`
	Engines map[string]Engine `yaml:"engines"`
	Metrics MetricsConfig     `yaml:"metrics"`
	Runs    RunsConfig        `yaml:"runs"`
}

type Job struct {
	Name    string   `yaml:"name"`
	Suite   string   `yaml:"suite"`
	Engines []string `yaml:"engines"`
}

// Engine describes one search backend under test. Table applies to mygram
// engines, Index to elasticsearch.
type Engine struct {
	Type       string `yaml:"type"`
	Connection string `yaml:"connection"`
	Table      string `yaml:"table,omitempty"`
	Index      string `yaml:"index,omitempty"`
}

type MetricsConfig struct {
	KValues            []int `yaml:"k_values"`
	MaxK               int   `yaml:"max_k"`
	RelevanceThreshold int   `yaml:"relevance_threshold"`
}

type RunsConfig struct {
	Warmup     int `yaml:"warmup"`
	Iterations int `yaml:"iterations"`
}
