package server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spacesedan/solace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAnalyzer struct {
	mu     sync.Mutex
	result models.SentimentResult
	err    error
	panics bool
	texts  []string
}

func (m *mockAnalyzer) Analyze(_ context.Context, text string) (models.SentimentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panics {
		panic("classifier blew up")
	}
	m.texts = append(m.texts, text)
	return m.result, m.err
}

func positiveAnalyzer() *mockAnalyzer {
	return &mockAnalyzer{result: models.SentimentResult{Label: "POSITIVE", Score: 0.9998656511306763}}
}

func postSentiment(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeSentiment(t *testing.T) {
	analyzer := positiveAnalyzer()
	srv := NewServer(":0", analyzer, nil)

	rec := postSentiment(t, srv, "/analyze-sentiment/", `{"text": "I love this!"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"label":"POSITIVE","score":0.9998656511306763}`, rec.Body.String())
	assert.Equal(t, []string{"I love this!"}, analyzer.texts)
}

func TestAnalyzeSentiment_ExactlyLabelAndScore(t *testing.T) {
	srv := NewServer(":0", positiveAnalyzer(), nil)

	rec := postSentiment(t, srv, "/analyze-sentiment/", `{"text": "I love this!"}`)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 2)
	assert.IsType(t, "", body["label"])
	score, ok := body["score"].(float64)
	require.True(t, ok)
	assert.False(t, math.IsNaN(score) || math.IsInf(score, 0))
}

func TestAnalyzeSentiment_WithoutTrailingSlash(t *testing.T) {
	srv := NewServer(":0", positiveAnalyzer(), nil)

	rec := postSentiment(t, srv, "/analyze-sentiment", `{"text": "I love this!"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeSentiment_EmptyTextPassedThrough(t *testing.T) {
	analyzer := positiveAnalyzer()
	srv := NewServer(":0", analyzer, nil)

	rec := postSentiment(t, srv, "/analyze-sentiment/", `{"text": ""}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{""}, analyzer.texts)
}

func TestAnalyzeSentiment_ExtraFieldsIgnored(t *testing.T) {
	analyzer := positiveAnalyzer()
	srv := NewServer(":0", analyzer, nil)

	rec := postSentiment(t, srv, "/analyze-sentiment/", `{"text": "ok", "lang": "en"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ok"}, analyzer.texts)
}

func TestAnalyzeSentiment_TrailingWhitespaceAccepted(t *testing.T) {
	analyzer := positiveAnalyzer()
	srv := NewServer(":0", analyzer, nil)

	rec := postSentiment(t, srv, "/analyze-sentiment/", "{\"text\": \"ok\"}\n\t ")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ok"}, analyzer.texts)
}

func TestAnalyzeSentiment_Idempotent(t *testing.T) {
	srv := NewServer(":0", positiveAnalyzer(), nil)

	first := postSentiment(t, srv, "/analyze-sentiment/", `{"text": "I love this!"}`)
	second := postSentiment(t, srv, "/analyze-sentiment/", `{"text": "I love this!"}`)

	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestAnalyzeSentiment_MalformedRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{}`},
		{"null text", `{"text": null}`},
		{"number text", `{"text": 42}`},
		{"not json", `text=hello`},
		{"array body", `["hello"]`},
		{"empty body", ``},
		{"trailing junk", `{"text": "hi"} trailing-junk`},
		{"two objects", `{"text": "hi"}{"text": "again"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := positiveAnalyzer()
			srv := NewServer(":0", analyzer, nil)

			rec := postSentiment(t, srv, "/analyze-sentiment/", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Empty(t, analyzer.texts)
		})
	}
}

func TestAnalyzeSentiment_ClassifierFailure(t *testing.T) {
	analyzer := &mockAnalyzer{err: errors.New("model error")}
	srv := NewServer(":0", analyzer, nil)

	rec := postSentiment(t, srv, "/analyze-sentiment/", `{"text": "I love this!"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "model error")
}

func TestAnalyzeSentiment_ClassifierPanic(t *testing.T) {
	srv := NewServer(":0", &mockAnalyzer{panics: true}, nil)

	rec := postSentiment(t, srv, "/analyze-sentiment/", `{"text": "I love this!"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAnalyzeSentiment_MethodNotAllowed(t *testing.T) {
	srv := NewServer(":0", positiveAnalyzer(), nil)

	req := httptest.NewRequest(http.MethodGet, "/analyze-sentiment/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
