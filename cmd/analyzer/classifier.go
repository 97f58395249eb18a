package main

import (
	"fmt"
	"time"

	"github.com/spacesedan/solace/config"
	"github.com/spacesedan/solace/internal/clients"
	"github.com/spacesedan/solace/internal/sentiment"
)

const inferenceTimeout = 30 * time.Second

// newClassifier builds the configured backend. The returned cleanup func is
// never nil.
func newClassifier(cfg config.AnalyzerConfig) (sentiment.Classifier, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BACKEND_HUGOT:
		classifier, err := sentiment.NewHugotClassifier(cfg.HugotModel, cfg.HugotModelDir)
		if err != nil {
			return nil, noop, err
		}
		return classifier, func() { _ = classifier.Close() }, nil

	case config.BACKEND_REMOTE:
		client := clients.NewHuggingFaceClient(cfg.InferenceURL, cfg.InferenceToken, inferenceTimeout)
		return sentiment.NewRemoteClassifier(client), noop, nil

	case config.BACKEND_OPENAI:
		client, err := clients.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, noop, err
		}
		return sentiment.NewOpenAIClassifier(client), noop, nil

	case config.BACKEND_VADER:
		return sentiment.NewVaderClassifier(), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown CLASSIFIER_BACKEND %q", cfg.Backend)
	}
}
