// Package events provides the in-process publish/subscribe channel used to
// broadcast the "unread notifications changed" signal to interested observers
// (badge counters, SSE streams). Delivery is best-effort: a subscriber that is
// not keeping up is skipped, never waited on.
package events

import (
	"sync"
)

// Bus is a payload-less broadcast channel. Publish never blocks.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

// NewBus creates a new Bus
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan struct{})}
}

// Subscribe registers an observer. The returned channel receives one value per
// published signal (coalesced if the observer lags). The cancel function
// removes the subscription and closes the channel.
func (b *Bus) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish broadcasts the signal to all subscribers without blocking. A
// subscriber with a pending, unconsumed signal is left as is; the pending
// signal already covers this publish.
func (b *Bus) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the current number of subscribers
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
