package event

import (
	"context"
	"time"

	"github.com/mj-kang-iotiz/eventmgr/internal/event/topic"
)

// Event is the view passed to subscriber handlers. It is transient: for a
// synchronous publish, Data references the producer's buffer and is valid
// only for the duration of the callback. Handlers must copy anything they
// want to keep.
type Event struct {
	// Topic the event was published to.
	Topic topic.Topic

	// Timestamp is when the event entered the manager.
	Timestamp time.Time

	// Data is the opaque payload. The manager does not interpret it.
	Data []byte

	// Sender identifies the publisher, for diagnostics.
	Sender string
}

// Handler receives delivered events. Implementations carry their own
// state; there is no separate user-context pointer.
type Handler interface {
	HandleEvent(ctx context.Context, ev Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, ev Event) error

// HandleEvent implements Handler.
func (f HandlerFunc) HandleEvent(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// InlinePayloadCap is the largest payload copied into a queue item on the
// interrupt-safe publish path. Larger payloads travel by reference and the
// producer must keep them alive until the dispatch goroutine has finished
// forwarding them.
const InlinePayloadCap = 64

// queueItem carries one interrupt-originated event through the bounded
// channel. Payloads at or under the inline cap are copied into the item;
// larger ones are referenced.
type queueItem struct {
	topic     topic.Topic
	timestamp time.Time
	sender    string

	inline    [InlinePayloadCap]byte
	inlineLen int
	external  []byte
}

func (it *queueItem) payload() []byte {
	if it.external != nil {
		return it.external
	}
	if it.inlineLen == 0 {
		return nil
	}
	return it.inline[:it.inlineLen]
}
