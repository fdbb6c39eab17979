package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const telegramMaxMessageLength = 4096

// TelegramChannel delivers notifications to a single chat.
type TelegramChannel struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramChannel(token string, chatID int64) (*TelegramChannel, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &TelegramChannel{bot: bot, chatID: chatID}, nil
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Send(ctx context.Context, tag, message string) error {
	var prefix string
	switch tag {
	case TagSignal:
		prefix = "🔔 TRADE SIGNAL\n\n"
	case TagError:
		prefix = "⚠️ ERROR\n\n"
	default:
		prefix = "ℹ️ INFO\n\n"
	}

	for _, chunk := range splitMessage(prefix+message, telegramMaxMessageLength) {
		msg := tgbotapi.NewMessage(c.chatID, chunk)
		if _, err := c.bot.Send(msg); err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
	}
	return nil
}

// splitMessage breaks text into chunks below the Telegram size cap,
// preferring newline boundaries.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(text) > limit {
		cut := limit
		for i := limit - 1; i > limit/2; i-- {
			if text[i] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if len(text) > 0 {
		chunks = append(chunks, text)
	}
	return chunks
}
