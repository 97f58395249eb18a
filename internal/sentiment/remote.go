package sentiment

import (
	"context"
	"fmt"

	"github.com/spacesedan/solace/internal/models"
)

type inferenceClient interface {
	Classify(ctx context.Context, text string) (models.InferenceResponse, error)
	HealthCheck(ctx context.Context) error
}

// RemoteClassifier delegates to a hosted inference endpoint.
type RemoteClassifier struct {
	client inferenceClient
}

func NewRemoteClassifier(client inferenceClient) *RemoteClassifier {
	return &RemoteClassifier{client: client}
}

func (r *RemoteClassifier) Classify(ctx context.Context, text string) ([]Prediction, error) {
	labels, err := r.client.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassification, err)
	}

	predictions := make([]Prediction, 0, len(labels))
	for _, l := range labels {
		predictions = append(predictions, Prediction{Label: l.Label, Score: l.Score})
	}
	return rank(predictions), nil
}

func (r *RemoteClassifier) HealthCheck(ctx context.Context) error {
	return r.client.HealthCheck(ctx)
}
