// Package server exposes the lunch dashboard and the JSON API over HTTP.
package server

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/cache"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/config"
	apperrors "github.com/lauraqiu/clio-lunch-analyzer/internal/errors"
)

// pinger checks a backing store for readiness probes.
type pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo              *echo.Echo
	config            *config.Config
	snapshots         *cache.Service
	store             pinger
	dashboardTemplate *template.Template
	startTime         time.Time
}

// NewServer wires the HTTP layer around the snapshot cache. store may be nil
// when no persistence backend is configured.
func NewServer(cfg *config.Config, snapshots *cache.Service, store pinger) (*Server, error) {
	// Parse templates once at startup
	dashboardTmpl, err := template.ParseFiles("web/templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:              e,
		config:            cfg,
		snapshots:         snapshots,
		store:             store,
		dashboardTemplate: dashboardTmpl,
		startTime:         time.Now(),
	}

	e.HTTPErrorHandler = srv.handleError

	// Register routes
	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleError maps structured errors onto their status codes and keeps
// echo's own HTTP errors intact.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if httpErr, ok := err.(*echo.HTTPError); ok {
		_ = c.JSON(httpErr.Code, map[string]any{"error": fmt.Sprintf("%v", httpErr.Message)})
		return
	}

	structured := apperrors.AsStructuredError(err)
	if structured.Type == apperrors.TypeInternal {
		slog.Error("request failed", "path", c.Request().URL.Path, "error", err)
	}
	_ = c.JSON(structured.HTTPStatus(), structured.ToResponse())
}
