package dispatch

import (
	"context"
	"runtime/debug"
	"time"
)

// Executor invokes callbacks with panic recovery and timing.
type Executor struct {
	onPanic PanicHandler
}

// NewExecutor returns an executor. A nil panic handler is replaced with a
// no-op so callers never need to nil-check.
func NewExecutor(onPanic PanicHandler) *Executor {
	if onPanic == nil {
		onPanic = nopPanicHandler
	}
	return &Executor{onPanic: onPanic}
}

// Execute runs one callback with the given event view. Panics are
// recovered, reported, and reflected in the result; they never propagate
// to the caller.
func (e *Executor) Execute(ctx context.Context, ev any, h Handler) (res Result) {
	start := time.Now()

	defer func() {
		res.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()
			res.Delivered = true
			res.Panicked = true
			res.PanicValue = r

			// The panic handler itself must not be able to crash us.
			func() {
				defer func() { _ = recover() }()
				e.onPanic(ev, r, stack)
			}()
		}
	}()

	err := h.Handle(ctx, ev)
	res.Delivered = true
	res.Err = err
	return res
}
