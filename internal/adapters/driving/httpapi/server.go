package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

// Defaults for Options.
const (
	DefaultBodyLimit       = "10M"
	DefaultShutdownTimeout = 10 * time.Second
)

// Options configures the HTTP server.
type Options struct {
	// Metrics records requests and serves /metrics. Optional.
	Metrics Metrics

	// Backend names the scan cache backend shown in the banner.
	Backend string

	// Version is shown in the banner.
	Version string

	// BodyLimit bounds request bodies, e.g. "10M".
	BodyLimit string
}

// Server serves the JSON API.
type Server struct {
	ports *Ports
	opts  Options
	echo  *echo.Echo
}

// NewServer creates the server and registers every route.
func NewServer(ports *Ports, opts Options) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if opts.BodyLimit == "" {
		opts.BodyLimit = DefaultBodyLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	e.Use(middleware.Recover())
	e.Use(requestID())
	e.Use(observe(opts.Metrics))
	e.Use(middleware.BodyLimit(opts.BodyLimit))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderXRequestID},
	}))

	s := &Server{ports: ports, opts: opts, echo: e}
	s.registerRoutes()
	return s, nil
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.WithComponent("http").Info("listening", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.home)
	s.echo.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if s.opts.Metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.opts.Metrics.Handler()))
	}

	s.echo.POST("/analyze", s.analyze)
	s.echo.POST("/chat", s.chat)
	s.echo.GET("/status", s.status)
	s.echo.GET("/scans", s.scans)
	s.echo.DELETE("/cache", s.clearCache)

	s.echo.POST("/risks", s.reportHandler(reportRisks))
	s.echo.POST("/permissions", s.reportHandler(reportPermissions))
	s.echo.POST("/hidden-clauses", s.reportHandler(reportHiddenClauses))
	s.echo.POST("/full-analysis", s.fullAnalysis)
}
