package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/mygramdb/mygram-go/internal/domain"
	"github.com/mygramdb/mygram-go/internal/ingest/collector"
)

const defaultBatchSize = 1000

// RowStorer persists corpus documents into the relational table Postgres
// benchmarks run against.
type RowStorer interface {
	Save(ctx context.Context, doc domain.Document) (int64, error)
	SaveBulk(ctx context.Context, docs []domain.Document) error
}

type PipelineBulkOptions struct {
	enabled bool
	Size    int
}

type PgPipeline struct {
	collector collector.Collector[domain.Document]
	storer    RowStorer
	bulk      *PipelineBulkOptions
}

type PgPipelineOption func(pipeline *PgPipeline)

func WithPgBulk(size int) PgPipelineOption {
	return func(pipeline *PgPipeline) {
		pipeline.bulk = &PipelineBulkOptions{
			enabled: true,
			Size:    size,
		}
	}
}

func NewPgPipeline(c collector.Collector[domain.Document], storer RowStorer, opts ...PgPipelineOption) *PgPipeline {
	p := &PgPipeline{
		collector: c,
		storer:    storer,
		bulk: &PipelineBulkOptions{
			enabled: false,
			Size:    defaultBatchSize,
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *PgPipeline) Run(ctx context.Context) error {
	start := time.Now()

	results, err := p.collector.Collect(ctx)
	if err != nil {
		slog.Error("Error collecting documents", "error", err)
		return err
	}

	var runErr error
	if p.bulk.enabled {
		runErr = p.importBatch(ctx, results)
	} else {
		runErr = p.importBasic(ctx, results)
	}

	slog.Info("PgPipeline run completed", "duration", time.Since(start))

	return runErr
}

func (p *PgPipeline) importBasic(ctx context.Context, results <-chan collector.Result[domain.Document]) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping collection")
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				slog.Info("Collection channel closed, stopping collection")
				return nil
			}
			if res.Err != nil {
				slog.Error("Error collecting document", "error", res.Err)
				continue
			}

			if id, err := p.storer.Save(ctx, res.Result); err != nil {
				slog.Error("Error saving document", "error", err)
			} else {
				slog.Debug("Document saved", "id", id, "title", res.Result.Title)
			}
		}
	}
}

func (p *PgPipeline) importBatch(ctx context.Context, results <-chan collector.Result[domain.Document]) error {
	var docs []domain.Document
	defer func() {
		if len(docs) > 0 {
			if err := p.storer.SaveBulk(ctx, docs); err != nil {
				slog.Error("Error saving final bulk of documents", "error", err, "count", len(docs))
			} else {
				slog.Info("Final bulk saved successfully", "count", len(docs))
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping collection")
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				slog.Info("Collection channel closed, stopping collection")
				return nil
			}
			if res.Err != nil {
				slog.Error("Error collecting document", "error", res.Err)
				continue
			}

			docs = append(docs, res.Result)

			if len(docs) >= p.bulk.Size {
				if err := p.storer.SaveBulk(ctx, docs); err != nil {
					slog.Error("Error saving bulk documents", "error", err, "count", len(docs))
				} else {
					slog.Info("Bulk documents saved successfully", "count", len(docs))
				}
				docs = docs[:0]
			}
		}
	}
}

func (p *PgPipeline) Stop() {
	slog.Info("Stopping Postgres pipeline")
}
