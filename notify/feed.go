package notify

import (
	"sync"
	"sync/atomic"
)

// Feed fans events out to subscriber channels. A subscriber whose buffer
// is full misses the event; the miss is counted in Dropped.
type Feed struct {
	mu      sync.RWMutex
	subs    map[uint64]chan Event
	nextID  uint64
	closed  bool
	dropped atomic.Uint64
}

// NewFeed creates a feed with no subscribers.
func NewFeed() *Feed {
	return &Feed{subs: make(map[uint64]chan Event)}
}

// Subscribe registers a subscriber with the given buffer size and returns
// its channel and a cancel function. Cancel closes the channel. On a
// closed feed the returned channel is already closed.
func (f *Feed) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan Event, buffer)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(ch)
		return ch, func() {}
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if c, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Publish implements Publisher. It never blocks.
func (f *Feed) Publish(e Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ch := range f.subs {
		select {
		case ch <- e:
		default:
			f.dropped.Add(1)
		}
	}
}

// Subscribers returns the number of active subscribers.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// Dropped returns the number of deliveries missed because a subscriber was full.
func (f *Feed) Dropped() uint64 {
	return f.dropped.Load()
}

// Close closes every subscriber channel. Later Publish calls are no-ops.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
