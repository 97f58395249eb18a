package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/spacesedan/solace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompletionClient struct {
	resp models.OpenAISentimentResponse
	err  error
}

func (f *fakeCompletionClient) Classify(_ context.Context, _ string) (models.OpenAISentimentResponse, error) {
	return f.resp, f.err
}

func (f *fakeCompletionClient) HealthCheck(_ context.Context) error { return nil }

func TestOpenAIClassifier_Classify(t *testing.T) {
	client := &fakeCompletionClient{resp: models.OpenAISentimentResponse{Label: "POSITIVE", Score: 0.91}}

	predictions, err := NewOpenAIClassifier(client).Classify(context.Background(), "I love this!")

	require.NoError(t, err)
	assert.Equal(t, []Prediction{{Label: "POSITIVE", Score: 0.91}}, predictions)
}

func TestOpenAIClassifier_EmptyLabel(t *testing.T) {
	client := &fakeCompletionClient{resp: models.OpenAISentimentResponse{Score: 0.5}}

	_, err := NewOpenAIClassifier(client).Classify(context.Background(), "x")

	assert.ErrorIs(t, err, ErrNoPrediction)
}

func TestOpenAIClassifier_WrapsErrors(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("rate limited")}

	_, err := NewOpenAIClassifier(client).Classify(context.Background(), "x")

	assert.ErrorIs(t, err, ErrClassification)
	assert.Contains(t, err.Error(), "rate limited")
}
