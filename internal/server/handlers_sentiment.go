package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/solace/internal/models"
)

const sentimentPath = "/analyze-sentiment/"

func (s *Server) registerSentimentRoutes() {
	s.echo.POST(sentimentPath, s.handleAnalyzeSentiment)
	s.echo.POST("/analyze-sentiment", s.handleAnalyzeSentiment)
}

// analyzeRequest distinguishes a missing text field from an empty one.
type analyzeRequest struct {
	Text *string `json:"text"`
}

func (s *Server) handleAnalyzeSentiment(c echo.Context) error {
	var req analyzeRequest
	dec := json.NewDecoder(c.Request().Body)
	if err := dec.Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "request body must be a JSON object with a string field \"text\"")
	}
	// Only trailing whitespace may follow the object.
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "request body must contain a single JSON object")
	}
	if req.Text == nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "field \"text\" is required")
	}

	result, err := s.analyzer.Analyze(c.Request().Context(), *req.Text)
	if err != nil {
		return fmt.Errorf("analyze sentiment: %w", err)
	}

	if err := c.JSON(http.StatusOK, models.SentimentResult{Label: result.Label, Score: result.Score}); err != nil {
		return fmt.Errorf("failed to write sentiment response: %w", err)
	}
	return nil
}
