package event

// topicInfo holds one topic's subscriber collection and counters. The
// subscriber slice and publishCount are owned by mu; every method here
// assumes the caller holds it.
type topicInfo struct {
	mu           timedMutex
	subs         []*Subscriber
	publishCount uint64
}

// insert places sub at the position preserving ascending priority.
// Subscribers of equal priority keep registration order: the new entry
// goes after the last existing entry with priority <= its own.
func (ti *topicInfo) insert(sub *Subscriber) {
	i := len(ti.subs)
	for j, s := range ti.subs {
		if s.priority > sub.priority {
			i = j
			break
		}
	}
	ti.subs = append(ti.subs, nil)
	copy(ti.subs[i+1:], ti.subs[i:])
	ti.subs[i] = sub
}

// remove deletes sub by identity. Reports whether it was present.
func (ti *topicInfo) remove(sub *Subscriber) bool {
	for i, s := range ti.subs {
		if s == sub {
			copy(ti.subs[i:], ti.subs[i+1:])
			ti.subs[len(ti.subs)-1] = nil
			ti.subs = ti.subs[:len(ti.subs)-1]
			return true
		}
	}
	return false
}

// delivery captures what dispatch needs from one subscriber. Values are
// copied under the topic lock so dispatch never touches the caller-owned
// Subscriber struct after the lock is released.
type delivery struct {
	handler Handler
	name    string
}

// snapshot returns the delivery-eligible subscribers in invocation order,
// as owned value copies. Mutations to the collection after the snapshot
// are not observed by that delivery.
func (ti *topicInfo) snapshot() []delivery {
	if len(ti.subs) == 0 {
		return nil
	}
	out := make([]delivery, 0, len(ti.subs))
	for _, s := range ti.subs {
		if s.active.Load() && s.handler != nil {
			out = append(out, delivery{handler: s.handler, name: s.name})
		}
	}
	return out
}
