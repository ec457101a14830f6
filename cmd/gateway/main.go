// Package main MygramDB Gateway API
// @title MygramDB Gateway API
// @version 1.0
// @description HTTP search gateway in front of a MygramDB full-text search server
// @BasePath /
package main

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	_ "github.com/mygramdb/mygram-go/docs"
	"github.com/mygramdb/mygram-go/internal/cache"
	"github.com/mygramdb/mygram-go/internal/router"
	"github.com/mygramdb/mygram-go/internal/server"
	"github.com/mygramdb/mygram-go/pkg/metrics"
	"github.com/mygramdb/mygram-go/pkg/mygram"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	client := mygram.New(mygram.Config{
		Host:    cfg.MygramHost,
		Port:    cfg.MygramPort,
		Timeout: cfg.MygramTimeout,
	})

	m := metrics.New()

	s := server.New(sCfg, mygram.NewHealthChecker(client)).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupMetrics(m, "/metrics").
		SetupHealthChecks("/healthz", "/readyz").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "MygramDB gateway is running")
	})

	if err := client.Connect(s.Context()); err != nil {
		slog.Error("Failed to connect to MygramDB", "addr", client.Addr(), "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to MygramDB", "addr", client.Addr())

	var qc *cache.QueryCache
	if cfg.RedisAddr != "" {
		qc, err = cache.New(cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			slog.Warn("Query cache disabled", "error", err)
			qc = nil
		} else {
			slog.Info("Query cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		}
	}

	searchrouter := router.NewSearchRouter(s.Echo, client,
		router.WithQueryCache(qc),
		router.WithMetrics(m),
		router.WithDefaultTable(cfg.DefaultTable),
	)
	searchrouter.Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	startErr := s.Start()

	if err := client.Close(); err != nil {
		slog.Warn("Failed to close client", "error", err)
	}
	if err := qc.Close(); err != nil {
		slog.Warn("Failed to close cache", "error", err)
	}

	if startErr != nil {
		slog.Error("Server exited with error", "error", startErr)
		os.Exit(1)
	}
}
