package event

import (
	"sync/atomic"

	"github.com/mj-kang-iotiz/eventmgr/internal/event/topic"
)

// Subscriber is a caller-owned registration record. The zero value is
// ready for use; Subscribe fills it in. The registry stores the pointer,
// never a copy, so the struct must stay alive and unmoved between
// Subscribe and Unsubscribe.
type Subscriber struct {
	handler  Handler
	topic    topic.Topic
	priority uint32
	name     string
	id       string

	active atomic.Bool

	// registered is guarded by the owning topic's lock.
	registered bool
}

// ID returns the diagnostic identifier assigned at Subscribe.
func (s *Subscriber) ID() string { return s.id }

// Name returns the diagnostic name given at Subscribe.
func (s *Subscriber) Name() string { return s.name }

// Topic returns the topic this subscriber is registered on.
func (s *Subscriber) Topic() topic.Topic { return s.topic }

// Priority returns the subscriber's priority. Lower values run first.
func (s *Subscriber) Priority() uint32 { return s.priority }

// Active reports whether the subscriber is eligible for delivery.
func (s *Subscriber) Active() bool { return s.active.Load() }

// SetActive toggles delivery eligibility without altering the
// subscriber's position or ownership. Idempotent. A deactivated
// subscriber stays registered and is skipped at dispatch.
func (s *Subscriber) SetActive(active bool) {
	s.active.Store(active)
}
