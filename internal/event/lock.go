package event

import "time"

// timedMutex is a mutex whose acquisition fails past a bound instead of
// waiting forever. It is a one-slot channel semaphore; the fast path is a
// non-blocking send so uncontended locks never arm a timer.
type timedMutex struct {
	ch chan struct{}
}

func newTimedMutex() timedMutex {
	return timedMutex{ch: make(chan struct{}, 1)}
}

// lock acquires the mutex, waiting at most timeout. It reports whether
// the lock was acquired.
func (m *timedMutex) lock(timeout time.Duration) bool {
	select {
	case m.ch <- struct{}{}:
		return true
	default:
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case m.ch <- struct{}{}:
		return true
	case <-t.C:
		return false
	}
}

func (m *timedMutex) unlock() {
	<-m.ch
}
