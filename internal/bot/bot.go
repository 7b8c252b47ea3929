// Package bot drives the roster: it takes chat messages one at a time,
// routes directives and posts the replies.
package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/ZertGraf/roster-bot/internal/chat"
	"github.com/ZertGraf/roster-bot/internal/command"
	"github.com/ZertGraf/roster-bot/internal/metrics"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"github.com/google/uuid"
)

const (
	dispositionDirective = "directive"
	dispositionIgnored   = "ignored"
)

// Handler turns a tokenized directive into reply text.
type Handler interface {
	Handle(ctx context.Context, tokens []string) string
}

type Config struct {
	// Alias is the display name replies are posted under.
	Alias string
}

type Bot struct {
	source  chat.Source
	sink    chat.Sink
	handler Handler
	config  *Config
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func New(
	source chat.Source,
	sink chat.Sink,
	handler Handler,
	config *Config,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Bot {
	return &Bot{
		source:  source,
		sink:    sink,
		handler: handler,
		config:  config,
		metrics: metrics,
		logger:  logger.Component("bot"),
	}
}

// Run processes messages in arrival order until ctx is done or the source
// is closed. Both end the loop without an error.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("bot loop started", "alias", b.config.Alias)
	defer b.logger.Info("bot loop stopped")

	for {
		msg, err := b.source.Receive(ctx)
		switch {
		case err == nil:
		case errors.Is(err, chat.ErrSourceClosed),
			errors.Is(err, context.Canceled),
			errors.Is(err, context.DeadlineExceeded):
			return nil
		default:
			return fmt.Errorf("receive message: %w", err)
		}

		b.process(ctx, msg)
	}
}

func (b *Bot) process(ctx context.Context, msg chat.Message) {
	tokens := command.Tokenize(msg.Text)
	if !command.IsDirective(tokens) {
		b.metrics.ObserveMessage(dispositionIgnored)
		return
	}
	b.metrics.ObserveMessage(dispositionDirective)

	log := b.logger.With(
		"request_id", uuid.NewString(),
		"message_id", msg.ID,
		"channel", msg.ChannelName,
		"author", msg.Author,
	)
	log.Debug("directive received", "tokens", len(tokens))

	text := b.handle(ctx, tokens, log)

	err := b.sink.Reply(ctx, chat.Reply{
		ChannelID: msg.ChannelID,
		Text:      text,
		Alias:     b.config.Alias,
	})
	if err != nil {
		b.metrics.ObserveReplyFailure()
		log.Error("failed to deliver reply", "error", err)
	}
}

func (b *Bot) handle(ctx context.Context, tokens []string, log *logger.Logger) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling directive",
				"error", r,
				"stack", string(debug.Stack()),
			)
			reply = internalError(tokens)
		}
	}()

	return b.handler.Handle(ctx, tokens)
}

func internalError(tokens []string) string {
	name := "command"
	if len(tokens) > 1 {
		name = tokens[1]
	}
	return fmt.Sprintf("internal error: %s failed, try again later", name)
}
