package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("empty document should yield defaults, got %+v", cfg)
	}
}

func TestParse_Overlay(t *testing.T) {
	cfg, err := Parse([]byte(`{
		"event_queue_depth": 64,
		"request_queue_depth": 4,
		"topic_capacity": 8,
		"lock_timeout_ms": 250,
		"request_timeout_ms": 2000
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.EventQueueDepth != 64 {
		t.Errorf("EventQueueDepth = %d", cfg.EventQueueDepth)
	}
	if cfg.RequestQueueDepth != 4 {
		t.Errorf("RequestQueueDepth = %d", cfg.RequestQueueDepth)
	}
	if cfg.TopicCapacity != 8 {
		t.Errorf("TopicCapacity = %d", cfg.TopicCapacity)
	}
	if cfg.LockTimeout != 250*time.Millisecond {
		t.Errorf("LockTimeout = %v", cfg.LockTimeout)
	}
	if cfg.RequestTimeout != 2*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
}

func TestParse_PartialOverlay(t *testing.T) {
	cfg, err := Parse([]byte(`{"event_queue_depth": 128}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.EventQueueDepth != 128 {
		t.Errorf("EventQueueDepth = %d", cfg.EventQueueDepth)
	}
	if cfg.RequestQueueDepth != DefaultRequestQueueDepth {
		t.Errorf("unset key should keep default, got %d", cfg.RequestQueueDepth)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte(`{not json`)); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("expected ErrInvalidJSON, got %v", err)
	}

	cases := []string{
		`{"event_queue_depth": 0}`,
		`{"event_queue_depth": 100000}`,
		`{"topic_capacity": -1}`,
		`{"lock_timeout_ms": 0}`,
		`{"request_timeout_ms": -5}`,
	}
	for _, doc := range cases {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: expected ErrOutOfRange, got %v", doc, err)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventmgr.json")
	if err := os.WriteFile(path, []byte(`{"topic_capacity": 4}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TopicCapacity != 4 {
		t.Errorf("TopicCapacity = %d, want 4", cfg.TopicCapacity)
	}
}
