package event

// Stats are the manager's aggregate counters, guarded by the global
// stats lock. TotalSubscribers is a live gauge; the other fields are
// monotonically non-decreasing.
type Stats struct {
	// TotalPublished counts delivery passes, on both publish paths.
	TotalPublished uint64

	// TotalDelivered counts individual subscriber invocations.
	TotalDelivered uint64

	// TotalSubscribers is the number of currently registered subscribers
	// across all topics.
	TotalSubscribers uint64

	// MaxSubscribersPerTopic is the high-water mark of any one topic's
	// subscriber count.
	MaxSubscribersPerTopic uint64
}

// Stats returns a copy of the aggregate counters. Returns ErrLockTimeout
// if the stats lock cannot be acquired within the configured bound.
func (m *Manager) Stats() (Stats, error) {
	if !m.statsMu.lock(m.cfg.lockTimeout) {
		return Stats{}, ErrLockTimeout
	}
	s := m.stats
	m.statsMu.unlock()
	return s, nil
}

// Dropped returns the number of interrupt-path events dropped because the
// event queue was full.
func (m *Manager) Dropped() uint64 {
	return m.dropped.Load()
}
