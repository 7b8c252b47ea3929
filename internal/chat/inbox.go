package chat

import (
	"context"
	"sync"
)

// Inbox is a bounded FIFO queue of messages. Producers (webhooks, readers)
// push, and the bot loop is the single consumer.
type Inbox struct {
	mu     sync.RWMutex
	queue  chan Message
	closed bool
}

func NewInbox(size int) *Inbox {
	return &Inbox{queue: make(chan Message, size)}
}

// Push enqueues msg without blocking. It fails with ErrInboxFull when the
// queue is at capacity and ErrSourceClosed after Close.
func (i *Inbox) Push(msg Message) error {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.closed {
		return ErrSourceClosed
	}

	select {
	case i.queue <- msg:
		return nil
	default:
		return ErrInboxFull
	}
}

// PushWait enqueues msg, waiting for room until ctx is done. Close waits
// for blocked PushWait callers, so producers must use a context that is
// cancelled before the inbox is closed.
func (i *Inbox) PushWait(ctx context.Context, msg Message) error {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.closed {
		return ErrSourceClosed
	}

	select {
	case i.queue <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (i *Inbox) Receive(ctx context.Context) (Message, error) {
	select {
	case <-ctx.Done():
		return Message{}, ctx.Err()
	case msg, ok := <-i.queue:
		if !ok {
			return Message{}, ErrSourceClosed
		}
		return msg, nil
	}
}

// Len returns the number of queued messages.
func (i *Inbox) Len() int {
	return len(i.queue)
}

// Close stops accepting messages. Queued messages are still delivered,
// after which Receive returns ErrSourceClosed.
func (i *Inbox) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return
	}
	i.closed = true
	close(i.queue)
}
