package notify

import (
	"context"
	"fmt"

	"mobilvask/internal/config"
	"mobilvask/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier mirrors accepted bookings into the business chat.
// Strictly best-effort: delivery problems are logged and dropped, the
// email channel alone decides the submission outcome.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(cfg config.TelegramConfig, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: cfg.ChatID, logger: logger}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, record models.BookingRecord) {
	if n == nil || n.bot == nil {
		return
	}

	text := fmt.Sprintf(
		"Ny booking %s\nService: %s\nNavn: %s\nTelefon: %s\nE-mail: %s",
		record.Reference, record.Service, record.Name, record.Phone, record.Email,
	)
	if record.Message != "" {
		text += "\nBesked: " + record.Message
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Warn().Err(err).Str("reference", record.Reference).Msg("telegram notify failed")
	}
}
