package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/solace/internal/models"
)

type sentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (models.SentimentResult, error)
}

type Server struct {
	echo         *echo.Echo
	addr         string
	analyzer     sentimentAnalyzer
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(addr string, analyzer sentimentAnalyzer, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		addr:         addr,
		analyzer:     analyzer,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

// Start blocks until the server stops. A clean shutdown returns nil.
func (s *Server) Start() error {
	slog.Info("[Server] Starting server", slog.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
