// Package httpapi serves a read-only status API over the pipeline's persisted
// state: source health, dedup history, and the audit run ledger. It renders
// nothing and mutates nothing.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/kgrajski/neurotech-newshound/internal/audit"
	"github.com/kgrajski/neurotech-newshound/internal/dedup"
	"github.com/kgrajski/neurotech-newshound/internal/globaltime"
	"github.com/kgrajski/neurotech-newshound/internal/score"
	"github.com/kgrajski/neurotech-newshound/internal/sources"
)

type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	historyStore  *dedup.Store
	registryStore *sources.Store
	ledger        *audit.Ledger
	logger        zerolog.Logger
	opts          Options
}

type sourceSnapshot struct {
	sources.Source
	Health sources.Health `json:"health"`
}

type historySnapshot struct {
	Entries    int    `json:"entries"`
	AlertTier  int    `json:"alert_tier"`
	ReviewTier int    `json:"review_tier"`
	Summary    string `json:"summary"`
}

func NewServer(historyStore *dedup.Store, registryStore *sources.Store, ledger *audit.Ledger, logger zerolog.Logger, opts Options) *Server {
	if strings.TrimSpace(opts.Addr) == "" {
		opts.Addr = ":8710"
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		historyStore:  historyStore,
		registryStore: registryStore,
		ledger:        ledger,
		logger:        logger,
		opts:          opts,
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	e := s.router()

	httpServer := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", s.opts.Addr).Msg("status server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("status server stopped")
	return nil
}

func (s *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/healthz", s.handleHealth)
	e.GET("/api/sources", s.handleSources)
	e.GET("/api/history", s.handleHistory)
	e.GET("/api/runs", s.handleRuns)
	e.GET("/api/runs/latest", s.handleLatestRun)

	return e
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if text, ok := he.Message.(string); ok && strings.TrimSpace(text) != "" {
			message = text
		} else if text := http.StatusText(status); text != "" {
			message = text
		}
	} else if err != nil {
		message = err.Error()
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message)
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "newshound",
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleSources(c echo.Context) error {
	registry, err := s.registryStore.Load()
	if err != nil {
		s.logger.Error().Err(err).Msg("load registry failed")
		return internalError(c, "Failed to load source registry")
	}

	items := make([]sourceSnapshot, 0, len(registry.Sources))
	for _, src := range registry.Sources {
		items = append(items, sourceSnapshot{Source: src, Health: sources.Classify(src)})
	}
	return success(c, map[string]any{
		"max_sources": registry.MaxSources,
		"last_pruned": registry.LastPruned,
		"items":       items,
	})
}

func (s *Server) handleHistory(c echo.Context) error {
	history, err := s.historyStore.Load()
	if err != nil {
		s.logger.Error().Err(err).Msg("load history failed")
		return internalError(c, "Failed to load dedup history")
	}

	snapshot := historySnapshot{
		Entries: len(history),
		Summary: dedup.Summary(history),
	}
	for _, entry := range history {
		if entry.Score >= score.AlertThreshold {
			snapshot.AlertTier++
		} else if entry.Score >= dedup.ReevaluateThreshold {
			snapshot.ReviewTier++
		}
	}
	return success(c, snapshot)
}

func (s *Server) handleRuns(c echo.Context) error {
	if s.ledger == nil {
		return fail(c, http.StatusNotFound, "Audit ledger not configured")
	}

	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil || limit < 1 || limit > 200 {
			return fail(c, http.StatusBadRequest, "limit must be an integer between 1 and 200")
		}
	}

	runs, err := s.ledger.Runs(limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("list runs failed")
		return internalError(c, "Failed to load runs")
	}
	return success(c, map[string]any{"items": runs})
}

func (s *Server) handleLatestRun(c echo.Context) error {
	if s.ledger == nil {
		return fail(c, http.StatusNotFound, "Audit ledger not configured")
	}

	run, err := s.ledger.LatestRun()
	if err != nil {
		s.logger.Error().Err(err).Msg("load latest run failed")
		return internalError(c, "Failed to load latest run")
	}
	if run == nil {
		return fail(c, http.StatusNotFound, "No runs recorded yet")
	}
	return success(c, run)
}
