package rocketchat

import (
	"bytes"
	"encoding/json"

	"github.com/ZertGraf/roster-bot/internal/chat"
)

// OutgoingWebhook is the body Rocket.Chat posts for an outgoing webhook
// integration.
type OutgoingWebhook struct {
	Token       string          `json:"token"`
	Bot         json.RawMessage `json:"bot,omitempty"`
	ChannelID   string          `json:"channel_id"`
	ChannelName string          `json:"channel_name"`
	MessageID   string          `json:"message_id"`
	UserID      string          `json:"user_id"`
	UserName    string          `json:"user_name"`
	Text        string          `json:"text"`
}

// FromBot reports whether the message was posted by a bot. Rocket.Chat sends
// false for humans and an object for bots.
func (w *OutgoingWebhook) FromBot() bool {
	b := bytes.TrimSpace(w.Bot)
	return len(b) > 0 && !bytes.Equal(b, []byte("false")) && !bytes.Equal(b, []byte("null"))
}

func (w *OutgoingWebhook) Message() chat.Message {
	return chat.Message{
		ID:          w.MessageID,
		ChannelID:   w.ChannelID,
		ChannelName: w.ChannelName,
		Author:      w.UserName,
		Text:        w.Text,
	}
}
