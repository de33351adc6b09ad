package di

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	boardService "github.com/reshetovitsme/streamboard/internal/modules/board/service"
	"github.com/reshetovitsme/streamboard/internal/modules/channel/client"
	channelRepo "github.com/reshetovitsme/streamboard/internal/modules/channel/repository"
	channelService "github.com/reshetovitsme/streamboard/internal/modules/channel/service"
	feedService "github.com/reshetovitsme/streamboard/internal/modules/feed/service"
	"github.com/reshetovitsme/streamboard/internal/shared/config"
	httpServer "github.com/reshetovitsme/streamboard/internal/transport/http"
	telegramHandler "github.com/reshetovitsme/streamboard/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register streaming API client
	do.Provide(injector, func(i do.Injector) (*client.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		c, err := client.New(cfg.APIBaseURL,
			client.WithTimeout(cfg.Timeout()),
			client.WithClientID(cfg.APIClientID),
		)
		if err != nil {
			return nil, oops.With("api_base_url", cfg.APIBaseURL, "context", "failed to create API client").Wrap(err)
		}
		return c, nil
	})

	// Register Channel Repository
	do.Provide(injector, func(i do.Injector) (channelRepo.Repository, error) {
		return channelRepo.NewMemoryStorage(), nil
	})

	// Register Channel Service
	do.Provide(injector, func(i do.Injector) (*channelService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		apiClient := do.MustInvoke[*client.Client](i)
		chRepo := do.MustInvoke[channelRepo.Repository](i)
		service := channelService.New(cfg, apiClient, chRepo)
		service.SetLogger(slog.Default().With("component", "channel-aggregator"))
		return service, nil
	})

	// Register Board Service
	do.Provide(injector, func(i do.Injector) (*boardService.Service, error) {
		channels := do.MustInvoke[*channelService.Service](i)
		service := boardService.New(channels)
		service.SetLogger(slog.Default().With("component", "board"))
		return service, nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		boards := do.MustInvoke[*boardService.Service](i)
		return feedService.New(boards), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		boards := do.MustInvoke[*boardService.Service](i)
		feeds := do.MustInvoke[*feedService.Service](i)
		server := httpServer.New(cfg, boards, feeds)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		boards := do.MustInvoke[*boardService.Service](i)
		return telegramHandler.New(cfg, boards), nil
	})

	// Register Bot, only invoked when a token is configured
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramHandler.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		handler.RegisterCommands(b)
		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	// Shutdown bot if it exists
	if cfg, err := do.Invoke[*config.Config](injector); err == nil && cfg.TelegramBotToken != "" {
		if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
			b.Close(ctx)
		}
	}

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			return oops.With("context", "failed to stop http server").Wrap(err)
		}
	}

	return nil
}
