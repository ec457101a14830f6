package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/mygramdb/mygram-go/pkg/config/env"
	"github.com/mygramdb/mygram-go/pkg/stringsutil"
)

const defaultBulkSize = 5_000

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

// SeedConfig drives the corpus seeding run. Targets picks which backends get
// the dataset; every target reads the same CSV.
type SeedConfig struct {
	DatasetPath string
	Targets     []string
	BulkSize    int

	DatabaseURL string

	ElasticsearchURL string
	EsIndex          string
	EsUsername       string
	EsPassword       string
}

func (as *AppConfig) Load() (*SeedConfig, error) {
	if err := env.LoadDotEnv(as.ENV, "cmd/data_seed/.env"); err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	dsPath := os.Getenv("DATASET_PATH")
	if dsPath == "" {
		return nil, fmt.Errorf("DATASET_PATH environment variable is not set")
	}

	cfg := &SeedConfig{
		DatasetPath:      dsPath,
		Targets:          stringsutil.SplitAndTrim(envOr("SEED_TARGETS", "pg,es"), ","),
		BulkSize:         defaultBulkSize,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ElasticsearchURL: envOr("ELASTICSEARCH_URL", "http://localhost:9200"),
		EsIndex:          envOr("ES_INDEX", "documents"),
		EsUsername:       os.Getenv("ES_USERNAME"),
		EsPassword:       os.Getenv("ES_PASSWORD"),
	}

	if raw := os.Getenv("BULK_SIZE"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid BULK_SIZE %q", raw)
		}
		cfg.BulkSize = size
	}

	for _, target := range cfg.Targets {
		if target != "pg" && target != "es" {
			return nil, fmt.Errorf("unknown seed target %q (want pg or es)", target)
		}
	}
	if slices.Contains(cfg.Targets, "pg") && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
