package request

import "time"

// timedMutex is a one-slot channel semaphore whose acquisition fails
// past a bound instead of waiting forever.
type timedMutex struct {
	ch chan struct{}
}

func newTimedMutex() timedMutex {
	return timedMutex{ch: make(chan struct{}, 1)}
}

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
