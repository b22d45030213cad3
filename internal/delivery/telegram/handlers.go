package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pipone-one/p2pminiapp/internal/domain"
	"github.com/pipone-one/p2pminiapp/internal/usecase"
	"go.uber.org/zap"
)

type AlertReader interface {
	ListAlerts(ctx context.Context, ownerID string) ([]domain.Alert, error)
	Stats(ctx context.Context) (usecase.AlertStats, error)
}

type StatusReader interface {
	Status() usecase.SchedulerStatus
}

type Handlers struct {
	alerts     AlertReader
	scheduler  StatusReader
	miniAppURL string
	logger     *zap.Logger
}

func NewHandlers(alerts AlertReader, scheduler StatusReader, miniAppURL string, logger *zap.Logger) *Handlers {
	return &Handlers{alerts: alerts, scheduler: scheduler, miniAppURL: miniAppURL, logger: logger}
}

func (h *Handlers) HandleUpdate(ctx context.Context, sender Sender, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.From == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, sender, update)
		return
	}
}

func (h *Handlers) handleCommand(ctx context.Context, sender Sender, update tgbotapi.Update) {
	command := update.Message.Command()
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	ownerID := strconv.FormatInt(userID, 10)

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.Int64("telegram_user_id", userID),
		zap.String("username", update.Message.From.UserName),
		zap.String("command", command),
	)

	switch command {
	case "start":
		h.reply(sender, chatID, WelcomeText(h.miniAppURL))
	case "help":
		h.reply(sender, chatID, HelpText)
	case "alerts":
		alerts, err := h.alerts.ListAlerts(ctx, ownerID)
		if err != nil {
			h.logger.Warn("alerts list failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(sender, chatID, "Could not load your alerts. Please try again.")
			return
		}
		h.logger.Info("alerts list complete", zap.Int64("telegram_user_id", userID), zap.Int("count", len(alerts)))
		h.reply(sender, chatID, FormatAlertList(alerts))
	case "status":
		stats, err := h.alerts.Stats(ctx)
		if err != nil {
			h.logger.Warn("status failed", zap.Error(err))
			h.reply(sender, chatID, "Could not load status. Please try again.")
			return
		}
		h.reply(sender, chatID, FormatStatus(h.scheduler.Status(), stats))
	default:
		h.logger.Warn("unknown command", zap.Int64("telegram_user_id", userID), zap.String("command", command))
		h.reply(sender, chatID, "Unknown command.\n\n"+HelpText)
	}
}

func (h *Handlers) reply(sender Sender, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := sender.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}
