package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catalog-assistant/internal/conversation"
	"catalog-assistant/internal/entity"
)

const fallbackFileName = "file.bin"

// toIncoming normalises one update into a machine event. Returns false for
// updates the bot ignores entirely (edits, channel posts, callback queries).
func (b *Bot) toIncoming(update tgbotapi.Update) (conversation.Incoming, bool) {
	msg := update.Message
	if msg == nil {
		return conversation.Incoming{}, false
	}

	in := conversation.Incoming{
		ChatID:  msg.Chat.ID,
		Text:    msg.Text,
		Caption: msg.Caption,
	}

	if msg.IsCommand() {
		in.Command = strings.ToLower(msg.Command())
		in.Text = ""
		return in, true
	}

	switch {
	case len(msg.Photo) > 0:
		// Telegram lists photo sizes ascending; take the largest rendition.
		ph := msg.Photo[len(msg.Photo)-1]
		in.Files = b.resolveFiles(ph.FileID, "photo.jpg")
	case msg.Document != nil:
		name := msg.Document.FileName
		if name == "" {
			name = fallbackFileName
		}
		in.Files = b.resolveFiles(msg.Document.FileID, name)
	case msg.Voice != nil, msg.VideoNote != nil, msg.Sticker != nil:
		in.Unsupported = true
	}

	return in, true
}

// resolveFiles maps a file id to a durable ref. Resolution failures drop the
// attachment rather than the whole message; the text/caption still lands.
func (b *Bot) resolveFiles(fileID, name string) []entity.FileRef {
	url, err := b.ResolveFileURL(fileID)
	if err != nil {
		b.log.Warn("telegram", "file url resolution failed", map[string]interface{}{
			"file_id": fileID, "error": err.Error(),
		})
		return nil
	}
	return []entity.FileRef{{Name: name, URL: url}}
}
