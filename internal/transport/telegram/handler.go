package telegram

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/streamboard/internal/modules/board/domain"
	boardService "github.com/reshetovitsme/streamboard/internal/modules/board/service"
	channelDomain "github.com/reshetovitsme/streamboard/internal/modules/channel/domain"
	"github.com/reshetovitsme/streamboard/internal/shared/config"
	"github.com/reshetovitsme/streamboard/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const helpText = `👋 Channel Board Bot

I show which of the watched streaming channels exist and who is live.

Available commands:
/channels [all|online|offline|non_existent] - List channels
/online - List live channels
/refresh - Fetch fresh data from the streaming service
/help - Show this help message`

// Handler handles Telegram bot interactions
type Handler struct {
	cfg          *config.Config
	boardService *boardService.Service
}

// New creates a new Telegram handler
func New(cfg *config.Config, boardService *boardService.Service) *Handler {
	return &Handler{
		cfg:          cfg,
		boardService: boardService,
	}
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/channels", bot.MatchTypePrefix, h.handleChannels)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/online", bot.MatchTypeExact, h.handleOnline)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/refresh", bot.MatchTypeExact, h.handleRefresh)
}

// HandleUpdate answers anything that is not a known command
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !strings.HasPrefix(update.Message.Text, "/") {
		return
	}
	h.reply(ctx, b, update, "🤷 Unknown command. Use /help to see what I can do.")
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}
	h.reply(ctx, b, update, helpText)
}

func (h *Handler) handleChannels(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}

	filter, err := ParseFilterArg(update.Message.Text)
	if err != nil {
		h.reply(ctx, b, update, fmt.Sprintf("❌ %v\nUsage: /channels [%s]", err, strings.Join(domain.FilterNames(), "|")))
		return
	}
	h.sendBoard(ctx, b, update, filter, false)
}

func (h *Handler) handleOnline(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}
	h.sendBoard(ctx, b, update, domain.FilterOnline, false)
}

func (h *Handler) handleRefresh(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.authorize(ctx, b, update) {
		return
	}
	h.sendBoard(ctx, b, update, domain.FilterAll, true)
}

func (h *Handler) sendBoard(ctx context.Context, b *bot.Bot, update *models.Update, filter domain.Filter, refresh bool) {
	load := h.boardService.Load
	if refresh {
		load = h.boardService.Refresh
	}

	board, err := load(ctx)
	if err != nil {
		slog.Error("Failed to load board", "error", err, "chat_id", update.Message.Chat.ID)
		if stdErrors.Is(err, errors.ErrTransportUnavailable) {
			h.reply(ctx, b, update, "❌ The streaming service is unreachable right now. Try again later.")
			return
		}
		h.reply(ctx, b, update, "❌ Failed to load channels.")
		return
	}

	h.reply(ctx, b, update, FormatBoard(board, filter))
}

func (h *Handler) authorize(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}
	err := Authorize(update.Message.From.ID, h.cfg.AllowedUsers)
	if err == nil {
		return true
	}
	slog.Warn("Rejected bot command", "error", err)
	h.reply(ctx, b, update, "❌ You are not authorized to use this bot.")
	return false
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	}); err != nil {
		slog.Error("Failed to send message", "error", err, "chat_id", update.Message.Chat.ID)
	}
}

// Authorize checks if a user may use the bot. An empty allow list lets everyone in.
func Authorize(userID int64, allowedUsers []int64) error {
	if len(allowedUsers) == 0 || lo.Contains(allowedUsers, userID) {
		return nil
	}
	return oops.In("telegram").With("user_id", userID).Wrap(errors.ErrUnauthorized)
}

// ParseFilterArg reads the optional filter argument of a /channels command
func ParseFilterArg(text string) (domain.Filter, error) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return domain.FilterAll, nil
	}
	filter, err := domain.ParseFilter(parts[1])
	if err != nil {
		return "", stdErrors.Join(errors.ErrInvalidFilter, err)
	}
	return filter, nil
}

// FormatBoard renders the entries shown under filter as a chat message
func FormatBoard(board *domain.Board, filter domain.Filter) string {
	entries := board.Filter(filter)
	if len(entries) == 0 {
		return fmt.Sprintf("📭 No channels for filter: %s", filter.Label())
	}

	var text strings.Builder
	fmt.Fprintf(&text, "📋 %s (%d/%d):\n\n", filter.Label(), len(entries), len(board.Entries))
	for _, e := range entries {
		fmt.Fprintf(&text, "%s %s - %s\n", statusIcon(e), e.Name, e.StatusText)
		if e.LinkURL != "" && e.Status == channelDomain.StatusOnline {
			fmt.Fprintf(&text, "   %s\n", e.LinkURL)
		}
	}
	return strings.TrimRight(text.String(), "\n")
}

func statusIcon(e domain.Entry) string {
	switch {
	case !e.Existent:
		return "🚫"
	case e.Status == channelDomain.StatusOnline:
		return "🟢"
	case e.Status == channelDomain.StatusOffline:
		return "⚪"
	default:
		return "❔"
	}
}
