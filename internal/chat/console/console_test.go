package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ZertGraf/roster-bot/internal/chat"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceDeliversLinesInOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	src := NewSource(strings.NewReader("$bot_api help\nhello\n$bot_api delete_user bob\n"), 1, logger.Discard())
	src.Start(ctx)

	var texts []string
	for {
		msg, err := src.Receive(ctx)
		if err != nil {
			require.ErrorIs(t, err, chat.ErrSourceClosed)
			break
		}
		assert.Equal(t, ChannelID, msg.ChannelID)
		texts = append(texts, msg.Text)
	}

	assert.Equal(t, []string{"$bot_api help", "hello", "$bot_api delete_user bob"}, texts)
}

func TestSinkFormatsReply(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	require.NoError(t, sink.Reply(context.Background(), chat.Reply{ChannelID: ChannelID, Text: "User alice created", Alias: "BOT NOTIFICATION"}))

	assert.Equal(t, "[BOT NOTIFICATION] User alice created\n", buf.String())
}
