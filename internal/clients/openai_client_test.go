package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOpenAI(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models" {
			_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
			return
		}

		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
				FinishReason: openai.FinishReasonStop,
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestOpenAIClient(url string) *OpenAIClient {
	config := openai.DefaultConfig("test-key")
	config.BaseURL = url + "/v1"
	return newOpenAIClientWithConfig(config, "test-model")
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("", "gpt-4o-mini")
	require.Error(t, err)
}

func TestOpenAIClient_Classify(t *testing.T) {
	srv := newFakeOpenAI(t, `{"label":"POSITIVE","score":0.93}`)
	defer srv.Close()

	result, err := newTestOpenAIClient(srv.URL).Classify(context.Background(), "I love this!")

	require.NoError(t, err)
	assert.Equal(t, "POSITIVE", result.Label)
	assert.InDelta(t, 0.93, result.Score, 1e-9)
}

func TestOpenAIClient_Classify_CodeFence(t *testing.T) {
	srv := newFakeOpenAI(t, "```json\n{\"label\":\"NEGATIVE\",\"score\":0.7}\n```")
	defer srv.Close()

	result, err := newTestOpenAIClient(srv.URL).Classify(context.Background(), "awful")

	require.NoError(t, err)
	assert.Equal(t, "NEGATIVE", result.Label)
}

func TestOpenAIClient_Classify_NotJSON(t *testing.T) {
	srv := newFakeOpenAI(t, "positive, I think")
	defer srv.Close()

	_, err := newTestOpenAIClient(srv.URL).Classify(context.Background(), "x")

	require.Error(t, err)
}

func TestOpenAIClient_HealthCheck(t *testing.T) {
	srv := newFakeOpenAI(t, "")
	defer srv.Close()

	assert.NoError(t, newTestOpenAIClient(srv.URL).HealthCheck(context.Background()))
}
