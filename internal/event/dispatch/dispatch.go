// Package dispatch executes subscriber callbacks with panic isolation.
// A misbehaving subscriber must never take down the dispatch goroutine or
// the publishing thread, so every invocation runs through an Executor that
// recovers panics and reports them to a configurable handler.
package dispatch

import (
	"context"
	"time"
)

// Handler is the minimal callback shape the executor invokes. It mirrors
// the subscriber handler in the event package to avoid a circular import;
// the event package adapts its typed handlers to this one.
type Handler interface {
	Handle(ctx context.Context, ev any) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, ev any) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, ev any) error {
	return f(ctx, ev)
}

// Result describes the outcome of one callback invocation.
type Result struct {
	// Delivered is true if the callback was actually invoked, whether or
	// not it failed. Delivery counting uses this.
	Delivered bool

	// Err is the error returned by the callback, nil on success.
	Err error

	// Panicked is true if the callback panicked. The panic was recovered.
	Panicked bool

	// PanicValue is the recovered value when Panicked is true.
	PanicValue any

	// Duration is the callback execution time.
	Duration time.Duration
}

// PanicHandler receives the event being delivered, the recovered panic
// value, and the stack captured at the panic site.
type PanicHandler func(ev any, recovered any, stack []byte)

func nopPanicHandler(ev any, recovered any, stack []byte) {}
