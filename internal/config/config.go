// Package config loads the event core's tunables from a JSON file.
// Every setting has a build-time default; a missing file or a missing key
// falls back silently, while a malformed file or an out-of-range value is
// an error.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

// Defaults applied when the file or a key is absent.
const (
	DefaultEventQueueDepth   = 32
	DefaultRequestQueueDepth = 8
	DefaultTopicCapacity     = 16
	DefaultLockTimeout       = 100 * time.Millisecond
	DefaultRequestTimeout    = time.Second
)

// Config holds the runtime tunables for the event manager and the
// request broker.
type Config struct {
	// EventQueueDepth is the async event channel capacity.
	EventQueueDepth int

	// RequestQueueDepth is the request channel capacity.
	RequestQueueDepth int

	// TopicCapacity caps subscribers per topic.
	TopicCapacity int

	// LockTimeout bounds waits on internal locks.
	LockTimeout time.Duration

	// RequestTimeout is the default synchronous request timeout.
	RequestTimeout time.Duration
}

// Default returns a Config populated with the build-time defaults.
func Default() Config {
	return Config{
		EventQueueDepth:   DefaultEventQueueDepth,
		RequestQueueDepth: DefaultRequestQueueDepth,
		TopicCapacity:     DefaultTopicCapacity,
		LockTimeout:       DefaultLockTimeout,
		RequestTimeout:    DefaultRequestTimeout,
	}
}

// Load reads path and overlays its settings on the defaults. A missing
// file is not an error; the defaults are returned as-is.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse overlays the JSON document's settings on the defaults.
//
// Recognized keys:
//
//	event_queue_depth    int, 1..4096
//	request_queue_depth  int, 1..4096
//	topic_capacity       int, 1..1024
//	lock_timeout_ms      int, >= 1
//	request_timeout_ms   int, >= 1
func Parse(data []byte) (Config, error) {
	if !gjson.ValidBytes(data) {
		return Config{}, ErrInvalidJSON
	}
	doc := gjson.ParseBytes(data)
	cfg := Default()

	if err := overlayInt(doc, "event_queue_depth", &cfg.EventQueueDepth, 1, 4096); err != nil {
		return Config{}, err
	}
	if err := overlayInt(doc, "request_queue_depth", &cfg.RequestQueueDepth, 1, 4096); err != nil {
		return Config{}, err
	}
	if err := overlayInt(doc, "topic_capacity", &cfg.TopicCapacity, 1, 1024); err != nil {
		return Config{}, err
	}
	if err := overlayMillis(doc, "lock_timeout_ms", &cfg.LockTimeout); err != nil {
		return Config{}, err
	}
	if err := overlayMillis(doc, "request_timeout_ms", &cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayInt(doc gjson.Result, key string, dst *int, min, max int64) error {
	v := doc.Get(key)
	if !v.Exists() {
		return nil
	}
	n := v.Int()
	if n < min || n > max {
		return fmt.Errorf("%w: %s = %d (allowed %d..%d)", ErrOutOfRange, key, n, min, max)
	}
	*dst = int(n)
	return nil
}

func overlayMillis(doc gjson.Result, key string, dst *time.Duration) error {
	v := doc.Get(key)
	if !v.Exists() {
		return nil
	}
	n := v.Int()
	if n < 1 {
		return fmt.Errorf("%w: %s = %d (must be >= 1)", ErrOutOfRange, key, n)
	}
	*dst = time.Duration(n) * time.Millisecond
	return nil
}
