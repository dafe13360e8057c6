package event

import (
	"time"

	"go.uber.org/zap"

	"github.com/mj-kang-iotiz/eventmgr/internal/event/dispatch"
)

// Build-time defaults, sized for the constrained target.
const (
	// DefaultQueueDepth is the capacity of the interrupt-event channel.
	DefaultQueueDepth = 32

	// DefaultTopicCapacity is the per-topic subscriber limit.
	DefaultTopicCapacity = 16

	// DefaultLockTimeout bounds waits on topic and stats locks.
	DefaultLockTimeout = 100 * time.Millisecond

	// statsUpdateTimeout bounds the stats lock on the publish path. A
	// missed update is dropped rather than stalling delivery.
	statsUpdateTimeout = 10 * time.Millisecond
)

// config holds manager configuration.
type config struct {
	queueDepth    int
	topicCapacity int
	lockTimeout   time.Duration
	logger        *zap.Logger
	onPanic       dispatch.PanicHandler
}

func defaultConfig() config {
	return config{
		queueDepth:    DefaultQueueDepth,
		topicCapacity: DefaultTopicCapacity,
		lockTimeout:   DefaultLockTimeout,
		logger:        zap.NewNop(),
	}
}

// Option configures a Manager.
type Option func(*config)

// WithQueueDepth sets the interrupt-event channel capacity.
func WithQueueDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.queueDepth = depth
		}
	}
}

// WithTopicCapacity sets the per-topic subscriber limit.
func WithTopicCapacity(capacity int) Option {
	return func(c *config) {
		if capacity > 0 {
			c.topicCapacity = capacity
		}
	}
}

// WithLockTimeout sets the bound on topic and stats lock waits.
func WithLockTimeout(timeout time.Duration) Option {
	return func(c *config) {
		if timeout > 0 {
			c.lockTimeout = timeout
		}
	}
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithPanicHandler sets the callback invoked when a subscriber panics.
// The default logs the panic at error level.
func WithPanicHandler(h dispatch.PanicHandler) Option {
	return func(c *config) {
		if h != nil {
			c.onPanic = h
		}
	}
}
