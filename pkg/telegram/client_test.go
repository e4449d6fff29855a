package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	msg := c.(tgbotapi.MessageConfig)
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{MessageID: 41 + len(f.sent)}, nil
}

func TestPost(t *testing.T) {
	bot := &fakeBot{}
	c := &client{bot: bot, chatID: -100123}

	id, err := c.Post(context.Background(), "⚾ These MLB picks have 70%+ hit rates")
	require.NoError(t, err)
	assert.Equal(t, "42", id)
	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(-100123), bot.sent[0].ChatID)
	assert.Empty(t, bot.sent[0].ParseMode)
}

func TestPostErrors(t *testing.T) {
	bot := &fakeBot{}
	c := &client{bot: bot}

	_, err := c.Post(context.Background(), strings.Repeat("x", MaxMessageLength+1))
	assert.ErrorIs(t, err, ErrContentTooLong)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Post(ctx, "hi")
	assert.ErrorIs(t, err, context.Canceled)

	bot.err = errors.New("Forbidden: bot was kicked")
	_, err = c.Post(context.Background(), "hi")
	assert.ErrorContains(t, err, "kicked")
	assert.Empty(t, bot.sent)
}
