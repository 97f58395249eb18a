package sentiment

import (
	"context"
	"errors"
	"sort"
)

var (
	ErrClassification = errors.New("classification failed")
	ErrNoPrediction   = errors.New("classifier returned no prediction")
)

type Prediction struct {
	Label string
	Score float64
}

// Classifier maps text to predictions ranked by descending score.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]Prediction, error)
}

// HealthChecker is implemented by classifiers that depend on a remote service.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

func rank(predictions []Prediction) []Prediction {
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score > predictions[j].Score
	})
	return predictions
}

// Top returns the first-ranked prediction.
func Top(predictions []Prediction) (Prediction, error) {
	if len(predictions) == 0 {
		return Prediction{}, ErrNoPrediction
	}
	return predictions[0], nil
}
