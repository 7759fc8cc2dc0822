package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	api "github.com/FACorreiaa/planmesh-api/cmd/api"
	"github.com/FACorreiaa/planmesh-api/pkg/config"
	"github.com/FACorreiaa/planmesh-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.Run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("server stopped")
}
