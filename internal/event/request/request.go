package request

import (
	"context"
	"sync/atomic"

	"github.com/mj-kang-iotiz/eventmgr/internal/event/topic"
)

// Status is the request state machine:
//
//	Pending --(dequeued)--> Processing --(handler returns)--> Completed | Error
//
// Timeout is observed by the caller only; the broker goroutine never
// writes it into the request.
type Status int32

const (
	StatusPending Status = iota
	StatusProcessing
	StatusCompleted
	StatusError
	StatusTimeout
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusError:
		return "error"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Request is one in-flight command. Each request has an independent,
// heap-owned lifetime decoupled from the caller's call frame: the handler
// writes into the request's own response area, never the caller's buffer,
// so a caller that times out and returns leaves nothing dangling for the
// handler to scribble on. The caller copies the response out only after a
// successful completion signal.
type Request struct {
	id      uint64
	topic   topic.Topic
	data    []byte
	respCap int

	// resp and err are written only by the broker goroutine (the handler
	// runs on it) before done is closed; the caller reads them only after
	// receiving from done.
	resp []byte
	err  error

	status atomic.Int32
	done   chan struct{}
}

// ID returns the request's monotonic identifier.
func (r *Request) ID() uint64 { return r.id }

// Topic returns the topic the request was sent to.
func (r *Request) Topic() topic.Topic { return r.topic }

// Data returns the request payload. Valid for the duration of the
// handler invocation.
func (r *Request) Data() []byte { return r.data }

// Status returns the request's current state.
func (r *Request) Status() Status {
	return Status(r.status.Load())
}

// SendResponse stores a copy of up to the caller's declared response
// capacity and marks the request completed. Must only be called from
// within the registered handler.
func (r *Request) SendResponse(data []byte) {
	n := len(data)
	if n > r.respCap {
		n = r.respCap
	}
	if n > 0 {
		r.resp = make([]byte, n)
		copy(r.resp, data[:n])
	} else {
		r.resp = nil
	}
	r.status.Store(int32(StatusCompleted))
}

// SendError marks the request failed with an empty response. Must only
// be called from within the registered handler.
func (r *Request) SendError() {
	r.resp = nil
	r.status.Store(int32(StatusError))
}

// Handler processes one request and produces a response by calling
// SendResponse or SendError before returning. Returning a non-nil error
// without having completed the request marks it failed.
type Handler interface {
	HandleRequest(ctx context.Context, req *Request) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *Request) error

// HandleRequest implements Handler.
func (f HandlerFunc) HandleRequest(ctx context.Context, req *Request) error {
	return f(ctx, req)
}
