package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/solace/config"
	"github.com/spacesedan/solace/internal/clients"
	"github.com/spacesedan/solace/internal/logging"
	"github.com/spacesedan/solace/internal/monitoring"
	"github.com/spacesedan/solace/internal/sentiment"
	"github.com/spacesedan/solace/internal/server"
)

func main() {
	config.LoadEnv(config.AppEnv())
	logging.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.GetAnalyzerConfig()

	classifier, cleanup, err := newClassifier(cfg)
	if err != nil {
		slog.Error("[Main] Failed to initialize classifier",
			slog.String("backend", cfg.Backend),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	var opts []sentiment.Option
	var healthChecks []server.HealthCheck

	if cfg.ValkeyAddress != "" {
		cache, err := clients.NewValkeyClient(clients.ValkeyConfig{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			TLS:      cfg.ValkeyTLS,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			slog.Warn("[Main] Result cache disabled", slog.String("error", err.Error()))
		} else {
			defer cache.Close()
			opts = append(opts, sentiment.WithCache(cache))
			healthChecks = append(healthChecks, server.HealthCheck{Name: "valkey", Check: cache.HealthCheck})
		}
	}

	if cfg.KafkaBroker != "" {
		producer, err := clients.NewKafkaProducer(cfg.KafkaBroker, cfg.KafkaTopic)
		if err != nil {
			slog.Warn("[Main] Event publishing disabled", slog.String("error", err.Error()))
		} else {
			defer producer.Close()
			opts = append(opts, sentiment.WithPublisher(producer))
		}
	}

	analyzer := sentiment.NewAnalyzer(classifier, cfg.Backend, opts...)

	if checker, ok := classifier.(sentiment.HealthChecker); ok {
		classifierHealthy := &atomic.Bool{}
		classifierHealthy.Store(true)
		go monitoring.MonitorClassifierHealth(ctx, checker, cfg.HealthCheckInterval, classifierHealthy)

		healthChecks = append(healthChecks, server.HealthCheck{
			Name: "classifier",
			Check: func(context.Context) error {
				if !classifierHealthy.Load() {
					return errors.New("classifier backend is unhealthy")
				}
				return nil
			},
		})
	}

	srv := server.NewServer(cfg.Addr, analyzer, healthChecks)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		if err != nil {
			slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("[Main] Shutting down analyzer gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Main] Shutdown failed", slog.String("error", err.Error()))
		}
	}
}
