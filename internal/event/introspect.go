package event

import (
	"github.com/tidwall/sjson"

	"github.com/mj-kang-iotiz/eventmgr/internal/event/topic"
)

// DumpJSON returns a JSON snapshot of the manager's state for diagnostics:
// aggregate stats, queue occupancy, and per-topic counters for topics that
// have ever seen a subscriber or a publish. Counters for different topics
// are read under their own locks, so the snapshot is per-topic consistent
// rather than globally atomic.
func (m *Manager) DumpJSON() (string, error) {
	stats, err := m.Stats()
	if err != nil {
		return "", err
	}

	out := "{}"
	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.Set(out, path, value)
	}

	set("stats.total_published", stats.TotalPublished)
	set("stats.total_delivered", stats.TotalDelivered)
	set("stats.total_subscribers", stats.TotalSubscribers)
	set("stats.max_subscribers_per_topic", stats.MaxSubscribersPerTopic)
	set("queue.depth", m.QueueDepth())
	set("queue.capacity", m.cfg.queueDepth)
	set("queue.dropped", m.dropped.Load())
	set("topics", []any{})

	for tp := topic.Topic(0); tp < topic.Count; tp++ {
		ti := &m.topics[tp]
		if !ti.mu.lock(m.cfg.lockTimeout) {
			err = ErrLockTimeout
			break
		}
		subs := len(ti.subs)
		published := ti.publishCount
		ti.mu.unlock()

		if subs == 0 && published == 0 {
			continue
		}
		set("topics.-1", map[string]any{
			"topic":       tp.String(),
			"subscribers": subs,
			"published":   published,
		})
	}

	if err != nil {
		return "", err
	}
	return out, nil
}
