package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// HugotClassifier runs a local ONNX text-classification pipeline. The
// pipeline is built once and shared by every caller.
type HugotClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

func NewHugotClassifier(modelName, modelDir string) (*HugotClassifier, error) {
	modelPath, err := ensureModel(modelName, modelDir)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "sentimentAnalysisPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			slog.Warn("[HugotClassifier] Failed to destroy session",
				slog.String("error", destroyErr.Error()))
		}
		return nil, fmt.Errorf("failed to initialize text classification pipeline: %w", err)
	}

	slog.Info("[HugotClassifier] Pipeline ready", slog.String("model", modelPath))
	return &HugotClassifier{session: session, pipeline: pipeline}, nil
}

// ensureModel downloads the model into modelDir unless it is already there.
func ensureModel(modelName, modelDir string) (string, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	modelPath := filepath.Join(modelDir, strings.ReplaceAll(modelName, "/", "_"))
	if _, err := os.Stat(modelPath); err == nil {
		slog.Info("[HugotClassifier] Using existing model", slog.String("path", modelPath))
		return modelPath, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat model path: %w", err)
	}

	slog.Info("[HugotClassifier] Model not found, downloading...", slog.String("model", modelName))
	downloaded, err := hugot.DownloadModel(modelName, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download model %s: %w", modelName, err)
	}

	slog.Info("[HugotClassifier] Model downloaded successfully", slog.String("path", downloaded))
	return downloaded, nil
}

func (h *HugotClassifier) Classify(ctx context.Context, text string) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output, err := h.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassification, err)
	}

	return predictionsFromOutput(output)
}

// predictionsFromOutput ranks the labels produced for the first input.
func predictionsFromOutput(output *pipelines.TextClassificationOutput) ([]Prediction, error) {
	if output == nil || len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return nil, ErrNoPrediction
	}

	predictions := make([]Prediction, 0, len(output.ClassificationOutputs[0]))
	for _, result := range output.ClassificationOutputs[0] {
		predictions = append(predictions, Prediction{
			Label: result.Label,
			Score: float64(result.Score),
		})
	}

	return rank(predictions), nil
}

func (h *HugotClassifier) Close() error {
	return h.session.Destroy()
}
