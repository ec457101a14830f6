package main

import (
	"context"
	"log/slog"
	"os"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/mygramdb/mygram-go/internal/domain"
	"github.com/mygramdb/mygram-go/internal/ingest"
	"github.com/mygramdb/mygram-go/internal/ingest/collector"
	"github.com/mygramdb/mygram-go/internal/ingest/reader"
	"github.com/mygramdb/mygram-go/internal/storage/es"
	"github.com/mygramdb/mygram-go/internal/storage/pg"
)

func main() {
	appSettings := NewAppConfig()

	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if slices.Contains(cfg.Targets, "pg") {
		pipeline, err := newPgPipeline(ctx, cfg)
		if err != nil {
			slog.Error("failed to create Postgres pipeline", "error", err)
			os.Exit(1)
		}
		g.Go(func() error { return pipeline.Run(ctx) })
	}

	if slices.Contains(cfg.Targets, "es") {
		pipeline, err := newEsPipeline(ctx, cfg)
		if err != nil {
			slog.Error("failed to create Elasticsearch pipeline", "error", err)
			os.Exit(1)
		}
		g.Go(func() error { return pipeline.Run(ctx) })
	}

	if err := g.Wait(); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Seeding completed", "targets", cfg.Targets, "dataset", cfg.DatasetPath)
}

func newPgPipeline(ctx context.Context, cfg *SeedConfig) (ingest.Pipeline, error) {
	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.DatabaseURL})
	if err != nil {
		return nil, err
	}

	storer, err := pg.NewStorer(pool)
	if err != nil {
		return nil, err
	}

	c, err := newCollector(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}

	return ingest.NewPgPipeline(c, storer, ingest.WithPgBulk(cfg.BulkSize)), nil
}

func newEsPipeline(ctx context.Context, cfg *SeedConfig) (ingest.Pipeline, error) {
	storer, err := es.NewStorer(ctx, es.ClientConfig{
		Addresses: []string{cfg.ElasticsearchURL},
		IndexName: cfg.EsIndex,
		Username:  cfg.EsUsername,
		Password:  cfg.EsPassword,
	})
	if err != nil {
		return nil, err
	}

	c, err := newCollector(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}

	return ingest.NewEsPipeline(c, storer, ingest.WithESBulk(cfg.BulkSize)), nil
}

// newCollector opens its own file handle so the two pipelines never share a
// reader position.
func newCollector(path string) (collector.Collector[domain.Document], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return collector.NewDocumentCollector(reader.NewCSVReader(file), reader.NewDocumentMapper()), nil
}
