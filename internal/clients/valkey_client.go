package clients

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/solace/internal/models"
	"github.com/valkey-io/valkey-go"
)

const VALKEY_RESULT_KEY_PREFIX = "sentiment:result:"

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
	TTL      time.Duration
}

// ValkeyClient caches classification results keyed by a digest of the text.
type ValkeyClient struct {
	Client valkey.Client
	ttl    time.Duration
}

func NewValkeyClient(cfg ValkeyConfig) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.Address,
		},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.Address),
		slog.Duration("ttl", cfg.TTL))

	return &ValkeyClient{Client: client, ttl: cfg.TTL}, nil
}

func (vc *ValkeyClient) Close() {
	vc.Client.Close()
}

// expiryMillis converts the cache TTL for PX, which rejects values below 1.
func expiryMillis(ttl time.Duration) int64 {
	return max(ttl.Milliseconds(), 1)
}

func resultKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return VALKEY_RESULT_KEY_PREFIX + hex.EncodeToString(sum[:])
}

// Lookup reports a cached result for text. A miss is not an error.
func (vc *ValkeyClient) Lookup(ctx context.Context, text string) (models.SentimentResult, bool, error) {
	var result models.SentimentResult

	key := resultKey(text)
	res := vc.DoWithRetry(ctx, func() valkey.Completed {
		return vc.Client.B().Get().Key(key).Build()
	}, 3)
	raw, err := res.AsBytes()
	if valkey.IsValkeyNil(err) {
		return result, false, nil
	}
	if err != nil {
		return result, false, err
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, false, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return result, true, nil
}

func (vc *ValkeyClient) Store(ctx context.Context, text string, result models.SentimentResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	key := resultKey(text)
	return vc.DoWithRetry(ctx, func() valkey.Completed {
		return vc.Client.B().Set().Key(key).Value(string(raw)).PxMilliseconds(expiryMillis(vc.ttl)).Build()
	}, 3).Error()
}

func (vc *ValkeyClient) HealthCheck(ctx context.Context) error {
	return vc.Client.Do(ctx, vc.Client.B().Ping().Build()).Error()
}

// DoWithRetry rebuilds the command on every attempt since valkey recycles
// completed commands once they have been sent.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func() valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, build())
		if err := result.Error(); err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		select {
		case <-ctx.Done():
			return result
		case <-time.After(250 * time.Millisecond):
		}
	}

	return result
}
