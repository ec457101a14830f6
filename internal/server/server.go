package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/mygramdb/mygram-go/internal/apperr"
	"github.com/mygramdb/mygram-go/pkg/metrics"
	mw "github.com/mygramdb/mygram-go/pkg/middleware"
	pkgserver "github.com/mygramdb/mygram-go/pkg/server"
)

const (
	GracefulShutdownTimeout = 10 * time.Second
	readinessProbeTimeout   = 2 * time.Second
)

// Server wraps echo with signal handling and chainable setup steps, so main
// reads as a single pipeline from config to Start.
type Server struct {
	Echo *echo.Echo

	cfg     *Config
	checker pkgserver.HealthChecker
	ctx     context.Context
	stop    context.CancelFunc
}

func New(cfg *Config, checker pkgserver.HealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.DisableHTTP2 = !cfg.UseHttp2

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &Server{
		Echo:    e,
		cfg:     cfg,
		checker: checker,
		ctx:     ctx,
		stop:    stop,
	}
}

func (s *Server) SetupMiddlewares() *Server {
	s.Echo.Use(mw.Logger())
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
	return s
}

func (s *Server) SetupErrorHandler() *Server {
	s.Echo.HTTPErrorHandler = apperr.GlobalErrorHandler()
	return s
}

// SetupMetrics instruments every route with the request collectors and
// mounts the Prometheus scrape endpoint.
func (s *Server) SetupMetrics(m *metrics.Metrics, path string) *Server {
	s.Echo.Use(mw.Metrics(m))
	s.Echo.GET(path, echo.WrapHandler(metrics.Handler()))
	return s
}

// SetupHealthChecks registers liveness and readiness probes. Liveness answers
// as long as the process serves HTTP; readiness consults the health checker
// with a short deadline.
func (s *Server) SetupHealthChecks(livePath, readyPath string) *Server {
	s.Echo.GET(livePath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.Echo.GET(readyPath, func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readinessProbeTimeout)
		defer cancel()
		if !s.checker.Healthy(ctx) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})
	return s
}

func (s *Server) SetupOpenApi(path string) *Server {
	s.Echo.GET(path, echoSwagger.WrapHandler)
	return s
}

// Context is canceled on the first termination signal. Resources created in
// main should hang off it.
func (s *Server) Context() context.Context {
	return s.ctx
}

// ShutdownSignal closes when a termination signal arrives.
func (s *Server) ShutdownSignal() <-chan struct{} {
	return s.ctx.Done()
}

// Start serves until a termination signal, then drains in-flight requests
// within GracefulShutdownTimeout. A failed bind returns immediately.
func (s *Server) Start() error {
	defer s.stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-s.ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()
	return s.Echo.Shutdown(ctx)
}
