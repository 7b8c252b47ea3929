// Package console runs the bot against a terminal: lines read from an input
// stream become messages, replies are printed.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/ZertGraf/roster-bot/internal/chat"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
)

// ChannelID is the channel every console message is attributed to.
const ChannelID = "console"

// Source reads lines from an io.Reader into an inbox.
type Source struct {
	inbox  *chat.Inbox
	in     io.Reader
	logger *logger.Logger
}

var _ chat.Source = (*Source)(nil)

func NewSource(in io.Reader, size int, logger *logger.Logger) *Source {
	return &Source{
		inbox:  chat.NewInbox(size),
		in:     in,
		logger: logger.Component("chat/console"),
	}
}

// Start reads lines until the reader is exhausted or ctx is done, then
// closes the inbox.
func (s *Source) Start(ctx context.Context) {
	go func() {
		defer s.inbox.Close()

		scanner := bufio.NewScanner(s.in)
		var n int
		for scanner.Scan() {
			n++
			msg := chat.Message{
				ID:          strconv.Itoa(n),
				ChannelID:   ChannelID,
				ChannelName: ChannelID,
				Author:      "console",
				Text:        scanner.Text(),
			}
			if err := s.inbox.PushWait(ctx, msg); err != nil {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.logger.Error("failed to read input", "error", err)
		}
	}()
}

func (s *Source) Receive(ctx context.Context) (chat.Message, error) {
	return s.inbox.Receive(ctx)
}

// Sink writes replies as "[alias] text".
type Sink struct {
	mu  sync.Mutex
	out io.Writer
}

var _ chat.Sink = (*Sink)(nil)

func NewSink(out io.Writer) *Sink {
	return &Sink{out: out}
}

func (s *Sink) Reply(_ context.Context, reply chat.Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.out, "[%s] %s\n", reply.Alias, reply.Text); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}
	return nil
}
