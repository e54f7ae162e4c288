package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shanehull/unicabot/internal/types"
)

// Sender is the part of *tgbotapi.BotAPI used to send messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram delivers HTML messages through the Bot API.
type Telegram struct {
	api Sender
}

func NewTelegram(api Sender) *Telegram {
	return &Telegram{api: api}
}

// Deliver sends text to chatID with HTML parse mode.
func (t *Telegram) Deliver(ctx context.Context, chatID types.ChatID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := t.api.Send(msg)
	return err
}
