package sentiment

import (
	"context"
	"fmt"

	"github.com/spacesedan/solace/internal/models"
)

type completionClient interface {
	Classify(ctx context.Context, text string) (models.OpenAISentimentResponse, error)
	HealthCheck(ctx context.Context) error
}

// OpenAIClassifier asks a chat model for a single label and confidence.
type OpenAIClassifier struct {
	client completionClient
}

func NewOpenAIClassifier(client completionClient) *OpenAIClassifier {
	return &OpenAIClassifier{client: client}
}

func (o *OpenAIClassifier) Classify(ctx context.Context, text string) ([]Prediction, error) {
	resp, err := o.client.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassification, err)
	}
	if resp.Label == "" {
		return nil, ErrNoPrediction
	}
	return []Prediction{{Label: resp.Label, Score: resp.Score}}, nil
}

func (o *OpenAIClassifier) HealthCheck(ctx context.Context) error {
	return o.client.HealthCheck(ctx)
}
