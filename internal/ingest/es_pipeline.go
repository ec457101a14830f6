package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/mygramdb/mygram-go/internal/domain"
	"github.com/mygramdb/mygram-go/internal/ingest/collector"
)

const defaultESBatchSize = 500

// IndexStorer persists corpus documents into the Elasticsearch index the
// benchmarks run against.
type IndexStorer interface {
	Save(ctx context.Context, doc domain.Document) error
	SaveBulk(ctx context.Context, docs []domain.Document) error
}

type EsPipeline struct {
	collector collector.Collector[domain.Document]
	storer    IndexStorer
	config    *PipelineConfig
}

type EsPipelineOption func(pipeline *EsPipeline)

func WithESBulk(size int) EsPipelineOption {
	return func(pipeline *EsPipeline) {
		if pipeline.config.Bulk == nil {
			pipeline.config.Bulk = &BulkOptions{}
		}
		pipeline.config.Bulk.Enabled = true
		pipeline.config.Bulk.Size = size
	}
}

func WithESConfig(config *PipelineConfig) EsPipelineOption {
	return func(pipeline *EsPipeline) {
		pipeline.config = config
	}
}

func NewEsPipeline(c collector.Collector[domain.Document], storer IndexStorer, opts ...EsPipelineOption) *EsPipeline {
	p := &EsPipeline{
		collector: c,
		storer:    storer,
		config: &PipelineConfig{
			Name: "elasticsearch-pipeline",
			Bulk: &BulkOptions{
				Enabled: false,
				Size:    defaultESBatchSize,
			},
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *EsPipeline) Run(ctx context.Context) error {
	start := time.Now()
	slog.Info("Starting EsPipeline run",
		"pipeline", p.config.Name,
		"bulk_enabled", p.config.Bulk.Enabled,
		"batch_size", p.config.Bulk.Size,
	)

	results, err := p.collector.Collect(ctx)
	if err != nil {
		slog.Error("Error collecting documents", "error", err, "pipeline", p.config.Name)
		return err
	}

	var runErr error
	if p.config.Bulk.Enabled {
		runErr = p.importBatch(ctx, results)
	} else {
		runErr = p.importBasic(ctx, results)
	}

	slog.Info("EsPipeline run completed",
		"pipeline", p.config.Name,
		"duration", time.Since(start),
		"error", runErr,
	)

	return runErr
}

func (p *EsPipeline) importBasic(ctx context.Context, results <-chan collector.Result[domain.Document]) error {
	processedCount := 0
	errorCount := 0

	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping collection",
				"pipeline", p.config.Name,
				"processed", processedCount,
				"errors", errorCount,
			)
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				slog.Info("Collection channel closed, stopping collection",
					"pipeline", p.config.Name,
					"processed", processedCount,
					"errors", errorCount,
				)
				return nil
			}

			if res.Err != nil {
				slog.Error("Error collecting document", "error", res.Err, "pipeline", p.config.Name)
				errorCount++
				continue
			}

			if err := p.storer.Save(ctx, res.Result); err != nil {
				slog.Error("Error indexing document",
					"error", err,
					"pipeline", p.config.Name,
					"title", res.Result.Title,
				)
				errorCount++
			} else {
				slog.Debug("Document indexed",
					"id", res.Result.ID,
					"pipeline", p.config.Name,
				)
				processedCount++
			}
		}
	}
}

func (p *EsPipeline) importBatch(ctx context.Context, results <-chan collector.Result[domain.Document]) error {
	var docs []domain.Document
	processedCount := 0
	errorCount := 0
	batchCount := 0

	defer func() {
		if len(docs) > 0 {
			if err := p.storer.SaveBulk(ctx, docs); err != nil {
				slog.Error("Error saving final bulk of documents",
					"error", err,
					"count", len(docs),
					"pipeline", p.config.Name,
				)
			} else {
				slog.Info("Final bulk saved successfully",
					"count", len(docs),
					"pipeline", p.config.Name,
				)
				processedCount += len(docs)
				batchCount++
			}
		}

		slog.Info("Elasticsearch pipeline batch processing completed",
			"pipeline", p.config.Name,
			"total_processed", processedCount,
			"total_errors", errorCount,
			"total_batches", batchCount,
		)
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping collection",
				"pipeline", p.config.Name,
				"processed", processedCount,
				"errors", errorCount,
				"pending_batch", len(docs),
			)
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				slog.Info("Collection channel closed, stopping collection",
					"pipeline", p.config.Name,
					"processed", processedCount,
					"errors", errorCount,
					"pending_batch", len(docs),
				)
				return nil
			}

			if res.Err != nil {
				slog.Error("Error collecting document", "error", res.Err, "pipeline", p.config.Name)
				errorCount++
				continue
			}

			docs = append(docs, res.Result)

			if len(docs) >= p.config.Bulk.Size {
				if err := p.storer.SaveBulk(ctx, docs); err != nil {
					slog.Error("Error saving bulk documents",
						"error", err,
						"count", len(docs),
						"pipeline", p.config.Name,
					)
					errorCount += len(docs)
				} else {
					slog.Info("Bulk documents saved",
						"count", len(docs),
						"pipeline", p.config.Name,
						"batch", batchCount+1,
					)
					processedCount += len(docs)
					batchCount++
				}
				docs = docs[:0]
			}
		}
	}
}

func (p *EsPipeline) Stop() {
	slog.Info("Stopping Elasticsearch pipeline", "pipeline", p.config.Name)
}
