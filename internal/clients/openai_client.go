package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spacesedan/solace/internal/models"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
)

const sentimentSystemPrompt = `You are a sentiment classifier. Classify the sentiment of the user's text.
Respond with a JSON object of the form {"label": "POSITIVE" | "NEGATIVE", "score": <confidence between 0 and 1>}.
Do not add any other keys or commentary.`

type OpenAIClient struct {
	Client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("[OpenAIClient] missing OPENAI_API_KEY")
	}

	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = &http.Client{
		Timeout: openAIRequestTimeout,
	}

	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.Duration("timeout", openAIRequestTimeout),
		slog.String("model", model))

	return newOpenAIClientWithConfig(config, model), nil
}

func newOpenAIClientWithConfig(config openai.ClientConfig, model string) *OpenAIClient {
	return &OpenAIClient{
		Client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (o *OpenAIClient) Classify(ctx context.Context, text string) (models.OpenAISentimentResponse, error) {
	var result models.OpenAISentimentResponse
	start := time.Now()

	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		slog.Warn("[OpenAIClient] Failed to get a response from OpenAI",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return result, err
	}

	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("openai returned no choices")
	}

	content := cleanOpenAIResponse(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		slog.Error("[OpenAIClient] Failed to unmarshal sentiment response",
			slog.String("error", err.Error()),
			slog.String("raw_openai_response", resp.Choices[0].Message.Content))
		return result, fmt.Errorf("failed to unmarshal openai response: %w", err)
	}

	slog.Debug("[OpenAIClient] Sentiment request successful",
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (o *OpenAIClient) HealthCheck(ctx context.Context) error {
	_, err := o.Client.ListModels(ctx)
	return err
}

// cleanOpenAIResponse strips markdown code fences some models wrap JSON in.
func cleanOpenAIResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
