package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/mygramdb/mygram-go/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type GatewayConfig struct {
	MygramHost    string
	MygramPort    int
	MygramTimeout time.Duration
	DefaultTable  string
	RedisAddr     string
	CacheTTL      time.Duration
}

func (as *AppConfig) Load() (*GatewayConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/gateway/.env")
	if err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

	cfg := &GatewayConfig{
		MygramHost:    envOr("MYGRAM_HOST", "127.0.0.1"),
		MygramPort:    11016,
		MygramTimeout: 5 * time.Second,
		DefaultTable:  envOr("MYGRAM_TABLE", "documents"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		CacheTTL:      30 * time.Second,
	}

	if v := os.Getenv("MYGRAM_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MYGRAM_PORT %q: %w", v, err)
		}
		cfg.MygramPort = port
	}
	if v := os.Getenv("MYGRAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MYGRAM_TIMEOUT %q: %w", v, err)
		}
		cfg.MygramTimeout = d
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
		cfg.CacheTTL = d
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
