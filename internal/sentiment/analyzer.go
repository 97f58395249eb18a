package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/solace/internal/models"
)

// ResultCache stores results by input text.
type ResultCache interface {
	Lookup(ctx context.Context, text string) (models.SentimentResult, bool, error)
	Store(ctx context.Context, text string, result models.SentimentResult) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.SentimentEvent) error
}

// Analyzer is built once at startup and shared read-only by every request.
type Analyzer struct {
	classifier Classifier
	backend    string
	cache      ResultCache
	publisher  EventPublisher
	now        func() time.Time
}

type Option func(*Analyzer)

func WithCache(cache ResultCache) Option {
	return func(a *Analyzer) { a.cache = cache }
}

func WithPublisher(publisher EventPublisher) Option {
	return func(a *Analyzer) { a.publisher = publisher }
}

func NewAnalyzer(classifier Classifier, backend string, opts ...Option) *Analyzer {
	a := &Analyzer{
		classifier: classifier,
		backend:    backend,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze classifies text and returns the top-ranked label and score. Cache
// and publish failures are logged and never change the outcome.
func (a *Analyzer) Analyze(ctx context.Context, text string) (models.SentimentResult, error) {
	if result, ok := a.lookup(ctx, text); ok {
		a.publish(ctx, text, result, true)
		return result, nil
	}

	predictions, err := a.classifier.Classify(ctx, text)
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("classify with %s: %w", a.backend, err)
	}

	top, err := Top(predictions)
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("classify with %s: %w", a.backend, err)
	}

	result := models.SentimentResult{Label: top.Label, Score: top.Score}

	if a.cache != nil {
		if err := a.cache.Store(ctx, text, result); err != nil {
			slog.Warn("[Analyzer] Failed to cache result",
				slog.String("error", err.Error()))
		}
	}
	a.publish(ctx, text, result, false)

	return result, nil
}

func (a *Analyzer) lookup(ctx context.Context, text string) (models.SentimentResult, bool) {
	if a.cache == nil {
		return models.SentimentResult{}, false
	}

	result, ok, err := a.cache.Lookup(ctx, text)
	if err != nil {
		slog.Warn("[Analyzer] Cache lookup failed, classifying directly",
			slog.String("error", err.Error()))
		return models.SentimentResult{}, false
	}
	return result, ok
}

func (a *Analyzer) publish(ctx context.Context, text string, result models.SentimentResult, cached bool) {
	if a.publisher == nil {
		return
	}

	event := models.SentimentEvent{
		SentimentResult: result,
		Text:            text,
		Backend:         a.backend,
		Cached:          cached,
		AnalyzedAt:      a.now().UTC(),
	}
	if err := a.publisher.Publish(ctx, event); err != nil {
		slog.Warn("[Analyzer] Failed to publish sentiment event",
			slog.String("error", err.Error()))
	}
}

// HealthCheck reports the classifier's health when it depends on a remote
// service and nil otherwise.
func (a *Analyzer) HealthCheck(ctx context.Context) error {
	if hc, ok := a.classifier.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (a *Analyzer) Backend() string {
	return a.backend
}
