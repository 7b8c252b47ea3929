package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboxPreservesOrder(t *testing.T) {
	inbox := NewInbox(3)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, inbox.Push(Message{Text: text}))
	}
	assert.Equal(t, 3, inbox.Len())

	for _, want := range []string{"one", "two", "three"} {
		msg, err := inbox.Receive(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, msg.Text)
	}
}

func TestInboxFull(t *testing.T) {
	inbox := NewInbox(1)

	require.NoError(t, inbox.Push(Message{Text: "one"}))
	assert.ErrorIs(t, inbox.Push(Message{Text: "two"}), ErrInboxFull)
}

func TestInboxReceiveHonoursContext(t *testing.T) {
	inbox := NewInbox(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := inbox.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInboxCloseDrainsQueue(t *testing.T) {
	inbox := NewInbox(2)
	ctx := context.Background()

	require.NoError(t, inbox.Push(Message{Text: "queued"}))
	inbox.Close()
	inbox.Close()

	assert.ErrorIs(t, inbox.Push(Message{Text: "late"}), ErrSourceClosed)
	assert.ErrorIs(t, inbox.PushWait(ctx, Message{Text: "late"}), ErrSourceClosed)

	msg, err := inbox.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "queued", msg.Text)

	_, err = inbox.Receive(ctx)
	assert.ErrorIs(t, err, ErrSourceClosed)
}

func TestInboxPushWait(t *testing.T) {
	inbox := NewInbox(1)
	require.NoError(t, inbox.Push(Message{Text: "one"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, inbox.PushWait(ctx, Message{Text: "two"}), context.DeadlineExceeded)

	done := make(chan error, 1)
	go func() {
		done <- inbox.PushWait(context.Background(), Message{Text: "two"})
	}()

	msg, err := inbox.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "one", msg.Text)
	require.NoError(t, <-done)

	msg, err = inbox.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "two", msg.Text)
}
