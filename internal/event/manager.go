package event

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mj-kang-iotiz/eventmgr/internal/event/dispatch"
	"github.com/mj-kang-iotiz/eventmgr/internal/event/topic"
)

// Manager is the topic-based event dispatcher. One instance owns the
// per-topic subscriber registries, the bounded interrupt-event queue, its
// dispatch goroutine, and the aggregate statistics. Producers and
// consumers receive the Manager by injection; there is no package-level
// instance.
type Manager struct {
	cfg  config
	log  *zap.Logger
	exec *dispatch.Executor

	topics [topic.Count]topicInfo

	// lifecycleMu serializes Start and Stop. running flips true only
	// after the dispatch goroutine exists, so producers that observe it
	// never see a half-started manager.
	lifecycleMu sync.Mutex
	queue       chan queueItem
	quit        chan struct{}
	wg          sync.WaitGroup
	running     atomic.Bool

	statsMu timedMutex
	stats   Stats
	dropped atomic.Uint64
}

// NewManager creates a manager. It does not start the dispatch goroutine;
// call Start before publishing or subscribing.
func NewManager(opts ...Option) *Manager {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Manager{
		cfg: cfg,
		log: cfg.logger,
		// The queue lives for the manager's lifetime so the lock-free
		// interrupt path never races a restart over the channel field.
		queue:   make(chan queueItem, cfg.queueDepth),
		statsMu: newTimedMutex(),
	}
	for i := range m.topics {
		m.topics[i].mu = newTimedMutex()
	}

	onPanic := cfg.onPanic
	if onPanic == nil {
		onPanic = func(ev any, recovered any, stack []byte) {
			m.log.Error("subscriber panic recovered",
				zap.Any("panic", recovered),
				zap.ByteString("stack", stack))
		}
	}
	m.exec = dispatch.NewExecutor(onPanic)

	return m
}

// Start launches the dispatch goroutine and marks the manager running.
func (m *Manager) Start() error {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()

	if m.running.Load() {
		return ErrAlreadyRunning
	}

	m.quit = make(chan struct{})
	m.wg.Add(1)
	go m.dispatchLoop()
	m.running.Store(true)

	m.log.Info("event manager started",
		zap.Int("queue_depth", m.cfg.queueDepth),
		zap.Int("topic_capacity", m.cfg.topicCapacity))
	return nil
}

// Stop shuts the dispatch goroutine down. Events still in the queue are
// discarded; delivery across a restart is not guaranteed.
func (m *Manager) Stop(ctx context.Context) error {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()

	if !m.running.Load() {
		return ErrNotInitialized
	}
	m.running.Store(false)

	close(m.quit)

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.drainQueue()
		m.log.Info("event manager stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drainQueue discards events that were enqueued but never replayed.
func (m *Manager) drainQueue() {
	for {
		select {
		case <-m.queue:
		default:
			return
		}
	}
}

// Subscribe registers a caller-owned subscriber on a topic. The
// subscriber struct must remain valid until Unsubscribe; the registry
// stores the pointer, not a copy. Lower priority values are invoked
// first; equal priorities preserve registration order.
func (m *Manager) Subscribe(sub *Subscriber, tp topic.Topic, h Handler, priority uint32, name string) error {
	if !m.running.Load() {
		return ErrNotInitialized
	}
	if sub == nil {
		return ErrNilSubscriber
	}
	if !tp.Valid() {
		return ErrInvalidTopic
	}
	if h == nil {
		return ErrNilHandler
	}

	ti := &m.topics[tp]
	if !ti.mu.lock(m.cfg.lockTimeout) {
		return ErrLockTimeout
	}
	defer ti.mu.unlock()

	if sub.registered {
		return ErrAlreadySubscribed
	}
	if len(ti.subs) >= m.cfg.topicCapacity {
		return ErrCapacityExceeded
	}

	sub.handler = h
	sub.topic = tp
	sub.priority = priority
	sub.name = name
	sub.id = uuid.NewString()
	sub.active.Store(true)
	sub.registered = true

	ti.insert(sub)

	count := uint64(len(ti.subs))
	if m.statsMu.lock(statsUpdateTimeout) {
		m.stats.TotalSubscribers++
		if count > m.stats.MaxSubscribersPerTopic {
			m.stats.MaxSubscribersPerTopic = count
		}
		m.statsMu.unlock()
	} else {
		m.log.Warn("stats update skipped, lock timeout", zap.Stringer("topic", tp))
	}

	m.log.Debug("subscribed",
		zap.Stringer("topic", tp),
		zap.String("subscriber", name),
		zap.String("id", sub.id),
		zap.Uint32("priority", priority))
	return nil
}

// Unsubscribe removes a subscriber from its recorded topic. The
// caller-owned struct is not reset beyond registration bookkeeping and
// may be subscribed again.
func (m *Manager) Unsubscribe(sub *Subscriber) error {
	if !m.running.Load() {
		return ErrNotInitialized
	}
	if sub == nil {
		return ErrNilSubscriber
	}
	if !sub.topic.Valid() {
		return ErrInvalidTopic
	}

	ti := &m.topics[sub.topic]
	if !ti.mu.lock(m.cfg.lockTimeout) {
		return ErrLockTimeout
	}
	defer ti.mu.unlock()

	if !sub.registered || !ti.remove(sub) {
		return ErrNotFound
	}
	sub.registered = false

	if m.statsMu.lock(statsUpdateTimeout) {
		m.stats.TotalSubscribers--
		m.statsMu.unlock()
	} else {
		m.log.Warn("stats update skipped, lock timeout", zap.Stringer("topic", sub.topic))
	}

	m.log.Debug("unsubscribed",
		zap.Stringer("topic", sub.topic),
		zap.String("subscriber", sub.name))
	return nil
}

// SubscriberCount returns a snapshot of the topic's subscriber count, or
// zero if the manager is stopped, the topic invalid, or the lock bound
// expires.
func (m *Manager) SubscriberCount(tp topic.Topic) int {
	if !m.running.Load() || !tp.Valid() {
		return 0
	}

	ti := &m.topics[tp]
	if !ti.mu.lock(m.cfg.lockTimeout) {
		return 0
	}
	n := len(ti.subs)
	ti.mu.unlock()
	return n
}

// Publish delivers one event to every eligible subscriber of the topic,
// in priority order, on the caller's goroutine. It returns the number of
// subscribers invoked; zero when the manager is stopped, the topic is
// invalid, or the topic lock bound expires. The event's Data is valid
// only for the duration of each callback.
func (m *Manager) Publish(ctx context.Context, tp topic.Topic, data []byte, sender string) int {
	if !m.running.Load() || !tp.Valid() {
		return 0
	}

	ev := Event{
		Topic:     tp,
		Timestamp: time.Now(),
		Data:      data,
		Sender:    sender,
	}
	return m.deliver(ctx, ev)
}

// PublishFromISR enqueues an event from interrupt context. It never
// blocks and never takes a lock: payloads at or under InlinePayloadCap
// are copied into the queue item, larger ones travel by reference and the
// producer must keep them alive until replay completes. A full queue
// drops the event and returns ErrQueueFull immediately.
func (m *Manager) PublishFromISR(tp topic.Topic, data []byte, sender string) error {
	if !m.running.Load() {
		return ErrNotInitialized
	}
	if !tp.Valid() {
		return ErrInvalidTopic
	}

	it := queueItem{
		topic:     tp,
		timestamp: time.Now(),
		sender:    sender,
	}
	if len(data) > 0 && len(data) <= InlinePayloadCap {
		it.inlineLen = copy(it.inline[:], data)
	} else if len(data) > InlinePayloadCap {
		it.external = data
	}

	select {
	case m.queue <- it:
		return nil
	default:
		m.dropped.Add(1)
		m.log.Debug("event dropped, queue full", zap.Stringer("topic", tp))
		return ErrQueueFull
	}
}

// dispatchLoop is the single task-context consumer of interrupt-originated
// events. One goroutine preserves a serialized replay order equal to
// enqueue order.
func (m *Manager) dispatchLoop() {
	defer m.wg.Done()

	for {
		select {
		case <-m.quit:
			return
		case it := <-m.queue:
			ev := Event{
				Topic:     it.topic,
				Timestamp: it.timestamp,
				Data:      it.payload(),
				Sender:    it.sender,
			}
			m.deliver(context.Background(), ev)
		}
	}
}

// deliver is the shared delivery logic for both publish paths. It bumps
// the topic's publish counter and snapshots the eligible subscribers
// under the topic lock, releases the lock, then invokes the callbacks in
// order. Mutations racing with an in-flight snapshot are not observed by
// that delivery.
func (m *Manager) deliver(ctx context.Context, ev Event) int {
	ti := &m.topics[ev.Topic]
	if !ti.mu.lock(m.cfg.lockTimeout) {
		m.log.Warn("topic lock timeout, event not delivered", zap.Stringer("topic", ev.Topic))
		return 0
	}
	ti.publishCount++
	snap := ti.snapshot()
	ti.mu.unlock()

	delivered := 0
	for _, d := range snap {
		h := d.handler
		res := m.exec.Execute(ctx, ev, dispatch.HandlerFunc(func(ctx context.Context, _ any) error {
			return h.HandleEvent(ctx, ev)
		}))
		if res.Delivered {
			delivered++
		}
		if res.Err != nil {
			m.log.Debug("subscriber returned error",
				zap.Stringer("topic", ev.Topic),
				zap.String("subscriber", d.name),
				zap.Error(res.Err))
		}
	}

	if m.statsMu.lock(statsUpdateTimeout) {
		m.stats.TotalPublished++
		m.stats.TotalDelivered += uint64(delivered)
		m.statsMu.unlock()
	} else {
		m.log.Warn("stats update skipped, lock timeout", zap.Stringer("topic", ev.Topic))
	}

	return delivered
}

// QueueDepth returns the number of interrupt-originated events waiting
// for replay. Zero when the manager is stopped.
func (m *Manager) QueueDepth() int {
	if !m.running.Load() {
		return 0
	}
	return len(m.queue)
}
