package event

import (
	"context"
	"testing"
)

func newTestSub(priority uint32, name string) *Subscriber {
	s := &Subscriber{
		handler:  HandlerFunc(func(ctx context.Context, ev Event) error { return nil }),
		priority: priority,
		name:     name,
	}
	s.active.Store(true)
	return s
}

func TestTopicInfo_InsertOrdering(t *testing.T) {
	ti := &topicInfo{}

	a := newTestSub(10, "a")
	b := newTestSub(0, "b")
	c := newTestSub(5, "c")

	ti.insert(a)
	ti.insert(b)
	ti.insert(c)

	want := []*Subscriber{b, c, a}
	if len(ti.subs) != len(want) {
		t.Fatalf("expected %d subscribers, got %d", len(want), len(ti.subs))
	}
	for i, s := range want {
		if ti.subs[i] != s {
			t.Errorf("position %d: expected %s, got %s", i, s.name, ti.subs[i].name)
		}
	}
}

func TestTopicInfo_InsertStableTies(t *testing.T) {
	ti := &topicInfo{}

	first := newTestSub(5, "first")
	second := newTestSub(5, "second")
	third := newTestSub(5, "third")

	ti.insert(first)
	ti.insert(second)
	ti.insert(third)

	names := []string{"first", "second", "third"}
	for i, want := range names {
		if ti.subs[i].name != want {
			t.Errorf("position %d: expected %s, got %s", i, want, ti.subs[i].name)
		}
	}

	// A lower priority still goes ahead of all ties.
	front := newTestSub(1, "front")
	ti.insert(front)
	if ti.subs[0] != front {
		t.Errorf("expected front at position 0, got %s", ti.subs[0].name)
	}
}

func TestTopicInfo_Remove(t *testing.T) {
	ti := &topicInfo{}

	a := newTestSub(1, "a")
	b := newTestSub(2, "b")
	ti.insert(a)
	ti.insert(b)

	if !ti.remove(a) {
		t.Fatal("expected remove to succeed")
	}
	if ti.remove(a) {
		t.Fatal("expected second remove to fail")
	}
	if len(ti.subs) != 1 || ti.subs[0] != b {
		t.Errorf("unexpected collection after remove: %d entries", len(ti.subs))
	}
}

func TestTopicInfo_SnapshotSkipsInactive(t *testing.T) {
	ti := &topicInfo{}

	a := newTestSub(1, "a")
	b := newTestSub(2, "b")
	ti.insert(a)
	ti.insert(b)

	b.SetActive(false)

	snap := ti.snapshot()
	if len(snap) != 1 || snap[0].name != "a" {
		t.Fatalf("expected snapshot of [a], got %d entries", len(snap))
	}

	b.SetActive(true)
	if got := len(ti.snapshot()); got != 2 {
		t.Fatalf("expected 2 eligible after reactivation, got %d", got)
	}
}

func TestTopicInfo_SnapshotIsOwnedCopy(t *testing.T) {
	ti := &topicInfo{}

	calls := 0
	a := newTestSub(1, "a")
	a.handler = HandlerFunc(func(ctx context.Context, ev Event) error {
		calls++
		return nil
	})
	ti.insert(a)

	snap := ti.snapshot()

	// Re-registration rewrites the caller-owned struct; an in-flight
	// snapshot must still invoke the handler captured at snapshot time.
	ti.remove(a)
	a.handler = HandlerFunc(func(ctx context.Context, ev Event) error { return nil })
	a.name = "reborn"

	if snap[0].name != "a" {
		t.Errorf("snapshot name mutated: %q", snap[0].name)
	}
	if err := snap[0].handler.HandleEvent(context.Background(), Event{}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected the captured handler to run, calls = %d", calls)
	}
}
