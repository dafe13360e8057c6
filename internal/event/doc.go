// Package event is the in-process publish/subscribe core of the device.
//
// It decouples producers (interrupt handlers, peripheral drivers) from
// consumers (application logic) while keeping delivery deterministic:
// within one topic, subscribers are invoked in ascending priority order,
// ties broken by registration order, on every delivery path. Across
// topics there is no ordering guarantee.
//
// Two publish paths exist. Publish delivers synchronously on the caller's
// goroutine. PublishFromISR never blocks: it copies small payloads into a
// fixed-size queue item, enqueues with a non-blocking send, and a single
// dispatch goroutine replays the queue in FIFO order through the same
// delivery logic.
//
// Memory is bounded by construction: per-topic subscriber capacity, queue
// depth, and the inline payload cap are fixed at build time. When a bound
// is hit the operation fails immediately (ErrCapacityExceeded,
// ErrQueueFull); nothing is queued unbounded or retried by the manager.
//
// The command/response layer built on the same topic set lives in the
// request subpackage.
package event
