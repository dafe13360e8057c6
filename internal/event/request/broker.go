package request

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mj-kang-iotiz/eventmgr/internal/event/topic"
)

// Build-time defaults for the request layer.
const (
	// DefaultQueueDepth is the capacity of the request channel.
	DefaultQueueDepth = 8

	// DefaultTimeout is used when the caller passes a zero timeout.
	DefaultTimeout = time.Second

	// DefaultLockTimeout bounds waits on the broker lock.
	DefaultLockTimeout = 100 * time.Millisecond
)

// Broker routes single-handler requests to a topic and blocks the caller
// until a response or timeout. One goroutine drains the request channel,
// so requests are processed strictly in enqueue order; there is no
// per-topic concurrency in this layer.
type Broker struct {
	log         *zap.Logger
	queueDepth  int
	defaultTO   time.Duration
	lockTimeout time.Duration

	// mu owns the handler table and the id counter.
	mu       timedMutex
	handlers [topic.Count]Handler
	nextID   uint64

	// lifecycleMu serializes Start and Stop. running flips true only
	// after the request goroutine exists.
	lifecycleMu sync.Mutex
	queue       chan *Request
	quit        chan struct{}
	wg          sync.WaitGroup
	running     atomic.Bool
}

// BrokerOption configures a Broker.
type BrokerOption func(*Broker)

// WithQueueDepth sets the request channel capacity.
func WithQueueDepth(depth int) BrokerOption {
	return func(b *Broker) {
		if depth > 0 {
			b.queueDepth = depth
		}
	}
}

// WithDefaultTimeout sets the timeout used when callers pass zero.
func WithDefaultTimeout(d time.Duration) BrokerOption {
	return func(b *Broker) {
		if d > 0 {
			b.defaultTO = d
		}
	}
}

// WithLockTimeout sets the bound on broker lock waits.
func WithLockTimeout(d time.Duration) BrokerOption {
	return func(b *Broker) {
		if d > 0 {
			b.lockTimeout = d
		}
	}
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) BrokerOption {
	return func(b *Broker) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBroker creates a broker. Call Start before sending requests.
func NewBroker(opts ...BrokerOption) *Broker {
	b := &Broker{
		log:         zap.NewNop(),
		queueDepth:  DefaultQueueDepth,
		defaultTO:   DefaultTimeout,
		lockTimeout: DefaultLockTimeout,
		mu:          newTimedMutex(),
	}
	for _, opt := range opts {
		opt(b)
	}
	// The queue lives for the broker's lifetime so Send never races a
	// restart over the channel field.
	b.queue = make(chan *Request, b.queueDepth)
	return b
}

// Start launches the request goroutine and marks the broker running.
func (b *Broker) Start() error {
	b.lifecycleMu.Lock()
	defer b.lifecycleMu.Unlock()

	if b.running.Load() {
		return ErrAlreadyRunning
	}

	b.quit = make(chan struct{})
	b.wg.Add(1)
	go b.run()
	b.running.Store(true)

	b.log.Info("request broker started", zap.Int("queue_depth", b.queueDepth))
	return nil
}

// Stop shuts the request goroutine down. Requests still in the queue are
// failed so their callers unblock immediately instead of waiting out
// their timeouts.
func (b *Broker) Stop(ctx context.Context) error {
	b.lifecycleMu.Lock()
	defer b.lifecycleMu.Unlock()

	if !b.running.Load() {
		return ErrNotRunning
	}
	b.running.Store(false)

	close(b.quit)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.drainQueue()
		b.log.Info("request broker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drainQueue fails any requests that were enqueued but never dequeued.
func (b *Broker) drainQueue() {
	for {
		select {
		case req := <-b.queue:
			req.err = ErrNotRunning
			req.status.Store(int32(StatusError))
			close(req.done)
		default:
			return
		}
	}
}

// RegisterHandler associates one handler with one topic. The last
// registration for a topic wins.
func (b *Broker) RegisterHandler(tp topic.Topic, h Handler) error {
	if !b.running.Load() {
		return ErrNotRunning
	}
	if !tp.Valid() {
		return ErrInvalidTopic
	}
	if h == nil {
		return ErrNilHandler
	}

	if !b.mu.lock(b.lockTimeout) {
		return ErrLockTimeout
	}
	b.handlers[tp] = h
	b.mu.unlock()

	b.log.Debug("request handler registered", zap.Stringer("topic", tp))
	return nil
}

// Send issues a request and blocks until a response, an error, the
// timeout (zero means DefaultTimeout), or context cancellation. On
// success it copies the response into respBuf, truncating to the
// buffer's capacity, and returns the copied length. On timeout or error
// respBuf is left unmodified. Must not be called from interrupt context.
func (b *Broker) Send(ctx context.Context, tp topic.Topic, data []byte, respBuf []byte, timeout time.Duration) (int, error) {
	if !b.running.Load() {
		return 0, ErrNotRunning
	}
	if !tp.Valid() {
		return 0, ErrInvalidTopic
	}
	if timeout <= 0 {
		timeout = b.defaultTO
	}

	if !b.mu.lock(b.lockTimeout) {
		return 0, ErrLockTimeout
	}
	b.nextID++
	id := b.nextID
	b.mu.unlock()

	req := &Request{
		id:      id,
		topic:   tp,
		data:    data,
		respCap: len(respBuf),
		done:    make(chan struct{}),
	}
	req.status.Store(int32(StatusPending))

	select {
	case b.queue <- req:
	default:
		b.log.Warn("request rejected, queue full",
			zap.Stringer("topic", tp), zap.Uint64("id", id))
		return 0, ErrQueueFull
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-req.done:
		if req.Status() == StatusCompleted {
			return copy(respBuf, req.resp), nil
		}
		return 0, req.err
	case <-t.C:
		// Caller-local outcome. The handler may still be running against
		// the request-owned buffer; it finishes harmlessly.
		b.log.Warn("request timed out",
			zap.Stringer("topic", tp), zap.Uint64("id", id), zap.Duration("timeout", timeout))
		return 0, ErrTimeout
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Pending returns the number of requests waiting in the queue. Zero when
// the broker is stopped.
func (b *Broker) Pending() int {
	if !b.running.Load() {
		return 0
	}
	return len(b.queue)
}

// run is the single consumer of the request channel.
func (b *Broker) run() {
	defer b.wg.Done()

	for {
		select {
		case <-b.quit:
			return
		case req := <-b.queue:
			b.process(req)
		}
	}
}

// process executes one request end to end and signals the caller. The
// done channel is always closed here; a caller that already timed out
// simply never looks.
func (b *Broker) process(req *Request) {
	h, err := b.handlerFor(req.topic)
	if err != nil {
		req.err = err
		req.status.Store(int32(StatusError))
		close(req.done)
		return
	}

	req.status.Store(int32(StatusProcessing))

	if err := b.invoke(h, req); err != nil {
		b.log.Debug("request handler error",
			zap.Stringer("topic", req.topic), zap.Uint64("id", req.id), zap.Error(err))
	}

	if req.Status() != StatusCompleted {
		req.status.Store(int32(StatusError))
		req.err = ErrRequestError
	}
	close(req.done)
}

// handlerFor resolves the topic's handler. A lock timeout is reported as
// such, never conflated with a missing registration.
func (b *Broker) handlerFor(tp topic.Topic) (Handler, error) {
	if !b.mu.lock(b.lockTimeout) {
		return nil, ErrLockTimeout
	}
	h := b.handlers[tp]
	b.mu.unlock()
	if h == nil {
		return nil, ErrHandlerNotRegistered
	}
	return h, nil
}

// invoke runs the handler with panic isolation. The handler is not
// subject to the caller's timeout; cancellation is advisory only.
func (b *Broker) invoke(h Handler, req *Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("request handler panic recovered",
				zap.Stringer("topic", req.topic),
				zap.Uint64("id", req.id),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			err = ErrRequestError
		}
	}()
	return h.HandleRequest(context.Background(), req)
}
