package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength is the longest message text the Bot API accepts.
const MaxMessageLength = 4096

var ErrContentTooLong = errors.New("telegram message exceeds maximum length")

// Notifier defines the interface for a Telegram notifier.
type Notifier interface {
	Post(ctx context.Context, text string) (string, error)
}

// sender is the subset of the bot API the client uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// client is an implementation of Notifier.
type client struct {
	bot    sender
	chatID int64
}

// NewClient creates a new Telegram notifier client.
func NewClient(botToken string, chatID int64) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &client{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Post sends text as plain text and returns the message id.
func (c *client) Post(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if n := utf8.RuneCountInString(text); n > MaxMessageLength {
		return "", fmt.Errorf("%w: %d > %d", ErrContentTooLong, n, MaxMessageLength)
	}
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.DisableWebPagePreview = true
	sent, err := c.bot.Send(msg)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(sent.MessageID), nil
}
