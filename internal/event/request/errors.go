package request

import "errors"

// Sentinel errors for the command/response layer.
var (
	// ErrNotRunning is returned when operations are attempted before
	// Start or after Stop.
	ErrNotRunning = errors.New("request broker is not running")

	// ErrAlreadyRunning is returned when Start is called on a running broker.
	ErrAlreadyRunning = errors.New("request broker is already running")

	// ErrInvalidTopic is returned for topics outside the defined set.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrNilHandler is returned when a nil handler is registered.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrQueueFull is returned when the request queue is at capacity. The
	// request is rejected immediately, never queued for retry.
	ErrQueueFull = errors.New("request queue is full")

	// ErrHandlerNotRegistered is returned when a request targets a topic
	// with no registered handler.
	ErrHandlerNotRegistered = errors.New("no handler registered for topic")

	// ErrTimeout is returned when no response arrives within the caller's
	// deadline. The in-flight handler is not cancelled.
	ErrTimeout = errors.New("request timed out")

	// ErrRequestError is returned when the handler explicitly signaled
	// failure, or finished without producing a response.
	ErrRequestError = errors.New("request handler signaled failure")

	// ErrLockTimeout is returned when the bounded wait on the broker lock
	// expires.
	ErrLockTimeout = errors.New("lock acquisition timed out")
)
