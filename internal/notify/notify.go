package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Notifier delivers one rendered message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Sender is the part of tgbotapi.BotAPI the Telegram notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot    Sender
	chatID int64
	// channel is set instead of chatID for "@name" targets.
	channel string
	log     logrus.FieldLogger
}

// NewTelegram authorizes token and targets chat, which is a numeric id or an
// "@channel" username.
func NewTelegram(token, chat string, debug bool, log logrus.FieldLogger) (*Telegram, error) {
	b, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	b.Debug = debug
	log.WithField("component", "notify").Infof("bot authorized as @%s", b.Self.UserName)
	return NewTelegramWithSender(b, chat, log)
}

func NewTelegramWithSender(s Sender, chat string, log logrus.FieldLogger) (*Telegram, error) {
	t := &Telegram{bot: s, log: log.WithField("component", "notify")}
	chat = strings.TrimSpace(chat)
	switch {
	case chat == "":
		return nil, fmt.Errorf("missing chat id")
	case strings.HasPrefix(chat, "@"):
		t.channel = chat
	default:
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q: %w", chat, err)
		}
		t.chatID = id
	}
	return t, nil
}

func (t *Telegram) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var msg tgbotapi.MessageConfig
	if t.channel != "" {
		msg = tgbotapi.NewMessageToChannel(t.channel, text)
	} else {
		msg = tgbotapi.NewMessage(t.chatID, text)
	}
	msg.DisableWebPagePreview = true
	sent, err := t.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	t.log.WithField("message_id", sent.MessageID).Debug("message sent")
	return nil
}

// DryRun logs messages instead of sending them. Used when no bot token or
// chat is configured.
type DryRun struct {
	log logrus.FieldLogger
}

func NewDryRun(log logrus.FieldLogger) *DryRun {
	return &DryRun{log: log.WithField("component", "notify")}
}

func (d *DryRun) Send(_ context.Context, text string) error {
	d.log.WithField("dry_run", true).Info("would send message:\n" + text)
	return nil
}
