package event

import "errors"

// Sentinel errors for the event manager. All are recoverable by the
// caller; none are fatal to the process. The manager never retries on the
// caller's behalf.
var (
	// ErrNotInitialized is returned when operations are attempted before
	// Start or after Stop.
	ErrNotInitialized = errors.New("event manager is not running")

	// ErrAlreadyRunning is returned when Start is called on a running manager.
	ErrAlreadyRunning = errors.New("event manager is already running")

	// ErrInvalidTopic is returned for topics outside the defined set.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrNilSubscriber is returned when a nil subscriber is provided.
	ErrNilSubscriber = errors.New("subscriber cannot be nil")

	// ErrAlreadySubscribed is returned when subscribing a subscriber that
	// is still registered. A subscriber belongs to at most one topic.
	ErrAlreadySubscribed = errors.New("subscriber is already registered")

	// ErrCapacityExceeded is returned when a topic's subscriber collection
	// is full.
	ErrCapacityExceeded = errors.New("topic subscriber capacity exceeded")

	// ErrNotFound is returned when unsubscribing a subscriber that is not
	// registered in its recorded topic.
	ErrNotFound = errors.New("subscriber not registered")

	// ErrLockTimeout is returned when the bounded wait on a lock expires.
	ErrLockTimeout = errors.New("lock acquisition timed out")

	// ErrQueueFull is returned by the interrupt-safe publish path when the
	// event queue is at capacity. The event is dropped, never retried.
	ErrQueueFull = errors.New("event queue is full")
)
