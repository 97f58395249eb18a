package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMEOUT = 5 * time.Second

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// MonitorClassifierHealth polls checker every interval and records the
// outcome in healthy until ctx is done.
func MonitorClassifierHealth(ctx context.Context, checker HealthChecker, interval time.Duration, healthy *atomic.Bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, HEALTHCHECK_TIMEOUT)
			err := checker.HealthCheck(checkCtx)
			cancel()

			wasHealthy := healthy.Swap(err == nil)
			if err != nil {
				slog.Warn("[HealthCheck] Classifier is unhealthy",
					slog.String("error", err.Error()))
			} else if !wasHealthy {
				slog.Info("[HealthCheck] Classifier recovered")
			}
		}
	}
}
