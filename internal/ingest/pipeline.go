package ingest

import "context"

// Pipeline is the common surface of the corpus seeding pipelines. A pipeline
// drains a collector and persists every document into one backend.
type Pipeline interface {
	// Run drains the source until it is exhausted or ctx is cancelled.
	Run(ctx context.Context) error

	// Stop gracefully stops the pipeline
	Stop()
}

// BulkOptions defines common bulk processing options
type BulkOptions struct {
	Enabled bool
	Size    int
}

// PipelineConfig defines common configuration for all pipelines
type PipelineConfig struct {
	Name string
	Bulk *BulkOptions
}
