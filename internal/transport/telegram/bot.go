// Package telegram adapts the Telegram Bot API to the conversation machine:
// updates in, replies out. Everything protocol-specific (keyboards, file id
// resolution, parse modes) stays behind this package.
package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catalog-assistant/internal/conversation"
	"catalog-assistant/internal/pkg/logger"
)

type Bot struct {
	api *tgbotapi.BotAPI
	log logger.ILogger
}

func NewBot(token string, log logger.ILogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	log.Info("telegram", "bot authorised", map[string]interface{}{"username": api.Self.UserName})
	return &Bot{api: api, log: log}, nil
}

func (b *Bot) Username() string { return b.api.Self.UserName }

// Send delivers the machine's replies in order. A send failure is logged and
// does not stop the remaining replies.
func (b *Bot) Send(chatID int64, replies []conversation.Reply) {
	for _, r := range replies {
		msg := tgbotapi.NewMessage(chatID, r.Text)
		if r.Markdown {
			msg.ParseMode = tgbotapi.ModeMarkdown
		}
		if r.Keyboard != nil {
			msg.ReplyMarkup = replyKeyboard(r.Keyboard)
		}
		if _, err := b.api.Send(msg); err != nil {
			b.log.Error("telegram", "send failed", map[string]interface{}{
				"chat_id": chatID, "error": err.Error(),
			})
		}
	}
}

// ResolveFileURL turns a Telegram file id into a downloadable URL.
func (b *Bot) ResolveFileURL(fileID string) (string, error) {
	return b.api.GetFileDirectURL(fileID)
}

// SetWebhook registers url with Telegram; Updates switches to long polling.
func (b *Bot) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return err
	}
	_, err = b.api.Request(wh)
	return err
}

func (b *Bot) DeleteWebhook() error {
	_, err := b.api.Request(tgbotapi.DeleteWebhookConfig{})
	return err
}

// Updates starts long polling and returns the update channel.
func (b *Bot) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return b.api.GetUpdatesChan(u)
}

func replyKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	kb := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		btns := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			btns = append(btns, tgbotapi.NewKeyboardButton(label))
		}
		kb = append(kb, btns)
	}
	markup := tgbotapi.NewReplyKeyboard(kb...)
	markup.ResizeKeyboard = true
	return markup
}
