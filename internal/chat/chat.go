// Package chat defines the capabilities the bot needs from a chat system:
// a source of incoming messages and a sink for replies.
package chat

import (
	"context"
	"errors"
)

var (
	ErrSourceClosed = errors.New("message source closed")
	ErrInboxFull    = errors.New("inbox full")
)

// Message is a single line posted to a channel the bot listens on.
type Message struct {
	ID          string
	ChannelID   string
	ChannelName string
	Author      string
	Text        string
}

// Reply is the bot's answer to a message.
type Reply struct {
	ChannelID string
	Text      string
	// Alias is the display name the reply is posted under.
	Alias string
}

// Source yields incoming messages. Receive blocks until a message arrives,
// ctx is done, or the source is closed (ErrSourceClosed).
type Source interface {
	Receive(ctx context.Context) (Message, error)
}

// Sink delivers replies back to the chat.
type Sink interface {
	Reply(ctx context.Context, reply Reply) error
}
