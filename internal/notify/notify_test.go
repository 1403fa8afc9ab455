package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Armin-kho/satta-result-bot/internal/logger"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func TestTelegramNumericChat(t *testing.T) {
	fs := &fakeSender{}
	tg, err := NewTelegramWithSender(fs, "-100123", logger.Discard())
	require.NoError(t, err)

	require.NoError(t, tg.Send(context.Background(), "hello"))
	require.Len(t, fs.sent, 1)
	msg, ok := fs.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.EqualValues(t, -100123, msg.ChatID)
	assert.Equal(t, "hello", msg.Text)
	assert.True(t, msg.DisableWebPagePreview)
}

func TestTelegramChannel(t *testing.T) {
	fs := &fakeSender{}
	tg, err := NewTelegramWithSender(fs, "@results", logger.Discard())
	require.NoError(t, err)

	require.NoError(t, tg.Send(context.Background(), "hello"))
	msg := fs.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, "@results", msg.ChannelUsername)
}

func TestTelegramBadChat(t *testing.T) {
	_, err := NewTelegramWithSender(&fakeSender{}, "group-one", logger.Discard())
	assert.Error(t, err)
	_, err = NewTelegramWithSender(&fakeSender{}, " ", logger.Discard())
	assert.Error(t, err)
}

func TestTelegramSendError(t *testing.T) {
	tg, err := NewTelegramWithSender(&fakeSender{err: errors.New("Bad Request: chat not found")}, "1", logger.Discard())
	require.NoError(t, err)
	assert.ErrorContains(t, tg.Send(context.Background(), "x"), "chat not found")
}

func TestTelegramCanceled(t *testing.T) {
	fs := &fakeSender{}
	tg, err := NewTelegramWithSender(fs, "1", logger.Discard())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tg.Send(ctx, "x"), context.Canceled)
	assert.Empty(t, fs.sent)
}

func TestDryRun(t *testing.T) {
	assert.NoError(t, NewDryRun(logger.Discard()).Send(context.Background(), "x"))
}
