package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/streamboard/internal/di"
	boardService "github.com/reshetovitsme/streamboard/internal/modules/board/service"
	"github.com/reshetovitsme/streamboard/internal/shared/config"
	httpServer "github.com/reshetovitsme/streamboard/internal/transport/http"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

func setupLogger(level slog.Level) {
	// Setup structured logging with multiple handlers using slog-multi
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	// Use Fanout to send logs to both handlers
	slog.SetDefault(slog.New(slogmulti.Fanout(textHandler, jsonHandler)))
}

func main() {
	setupLogger(slog.LevelInfo)

	// Setup dependency injection
	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.SlogLevel())

	// Get services from DI container
	boards := do.MustInvoke[*boardService.Service](injector)
	server := do.MustInvoke[*httpServer.Server](injector)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Warm up the board so the first page view is served from memory
	go func() {
		if _, err := boards.Load(ctx); err != nil {
			slog.Error("Initial board load failed", "error", err)
		}
	}()

	// Start HTTP server
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Failed to start HTTP server", "error", err)
			os.Exit(1)
		}
	}()

	if cfg.TelegramBotToken != "" {
		b, err := do.Invoke[*bot.Bot](injector)
		if err != nil {
			slog.Error("Failed to start telegram bot", "error", err)
		} else {
			go b.Start(ctx)
			slog.Info("Telegram bot started")
		}
	}

	slog.Info("Application started", "port", cfg.HTTPPort, "channels", len(cfg.Channels), "env", cfg.AppEnv)
	slog.Info("Press Ctrl+C to stop")

	<-ctx.Done()
	slog.Info("Shutting down...")
}
