package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/solace/config"
	"github.com/spacesedan/solace/internal/companion"
	"github.com/spacesedan/solace/internal/logging"
)

func main() {
	config.LoadEnv(config.AppEnv())
	logging.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.GetCompanionConfig()

	srv, err := companion.Listen(cfg.Addr,
		companion.WithReply(cfg.Reply),
		companion.WithChunkSize(cfg.ChunkSize))
	if err != nil {
		slog.Error("[Main] Failed to start companion", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// one client, then exit
	err = srv.Serve(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("[Main] Companion interrupted", slog.String("state", srv.State().String()))
		return
	}
	if err != nil {
		slog.Error("[Main] Companion session ended with error",
			slog.String("state", srv.State().String()),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("[Main] Companion session closed")
}
