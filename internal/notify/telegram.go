package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/melgar/internal/format"
)

// Telegram sends reminders to one chat through the Bot API.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	return NewTelegramWithAPI(api, chatID), nil
}

func NewTelegramWithAPI(api *tgbotapi.BotAPI, chatID int64) *Telegram {
	return &Telegram{api: api, chatID: chatID}
}

// Deliver ignores ctx; the bot client has no context support.
func (t *Telegram) Deliver(_ context.Context, msg Message) error {
	out := TelegramText(msg)
	reply := tgbotapi.NewMessage(t.chatID, out.Text)
	reply.Entities = out.Entities
	reply.DisableNotification = msg.Priority != PriorityHigh

	if _, err := t.api.Send(reply); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// TelegramText lays the message out with a bold title and bold field labels.
func TelegramText(msg Message) format.Message {
	var b format.Builder
	b.Bold(msg.Title).Line()
	b.Field("Due Date", msg.Due)
	if msg.NextAction != "" {
		b.Field("Next Action", msg.NextAction)
	}
	b.Field("Status", msg.Status)
	if msg.Priority == PriorityHigh {
		b.Line().Line().Italic("Overdue")
	}
	return b.Message()
}
