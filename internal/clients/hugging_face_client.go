package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/solace/internal/models"
)

type HuggingFaceClient struct {
	Client   *http.Client
	endpoint string
	token    string
	backoff  time.Duration
	wait     func(ctx context.Context, d time.Duration) error
}

func NewHuggingFaceClient(endpoint, token string, timeout time.Duration) *HuggingFaceClient {
	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.String("endpoint", endpoint),
		slog.Duration("timeout", timeout))

	return &HuggingFaceClient{
		Client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		token:    token,
		backoff:  INITIAL_BACKOFF,
		wait:     waitBackoff,
	}
}

func waitBackoff(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// DoWithRetry retries transport errors and 5xx responses with exponential
// backoff. The request body is rebuilt from GetBody on every attempt.
func (h *HuggingFaceClient) DoWithRetry(req *http.Request) (*http.Response, error) {
	var lastErr error
	backoff := h.backoff

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			req.Body = body
		}

		resp, err := h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		lastErr = errors.New(errMsg(err, resp))
		if resp != nil {
			resp.Body.Close()
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", lastErr.Error()))

		if attempt == MAX_RETRIES-1 {
			break
		}
		if err := h.wait(req.Context(), backoff); err != nil {
			return nil, err
		}
		backoff = min(backoff*2, MAX_BACKOFF)
	}

	return nil, lastErr
}

// Classify returns the ranked label/score pairs for a single input.
func (h *HuggingFaceClient) Classify(ctx context.Context, text string) (models.InferenceResponse, error) {
	start := time.Now()

	var raw json.RawMessage
	if err := h.postJSON(ctx, models.InferenceRequest{Inputs: text}, &raw); err != nil {
		slog.Error("[HuggingFaceClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	result, err := decodeInference(raw)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to decode inference response",
			slog.String("error", err.Error()),
			getPreview(raw))
		return nil, err
	}

	slog.Debug("[HuggingFaceClient] Sentiment Analysis request successful",
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// decodeInference accepts both the batched ([[...]]) and flat ([...])
// shapes the inference API returns for a single input.
func decodeInference(raw []byte) (models.InferenceResponse, error) {
	var batched []models.InferenceResponse
	if err := json.Unmarshal(raw, &batched); err == nil {
		if len(batched) == 0 {
			return nil, nil
		}
		return batched[0], nil
	}

	var flat models.InferenceResponse
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return flat, nil
}

func (h *HuggingFaceClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	h.setHeaders(req)

	resp, err := h.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("inference endpoint unhealthy: status code %d", resp.StatusCode)
	}
	return nil
}

func (h *HuggingFaceClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}

func (h *HuggingFaceClient) postJSON(ctx context.Context, input any, output any) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	h.setHeaders(req)

	resp, err := h.DoWithRetry(req)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", h.endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		slog.Error("[HuggingFaceClient] Unexpected status",
			slog.String("endpoint", h.endpoint),
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", h.endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
