package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher receives committed events. Publish must not block the caller
// on slow consumers and has no way to reject an event.
type Publisher interface {
	Publish(e Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(e Event)

// Publish implements Publisher.
func (f PublisherFunc) Publish(e Event) { f(e) }

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(Event) {})

// multi fans one event out to several publishers in order.
type multi []Publisher

func (m multi) Publish(e Event) {
	for _, p := range m {
		p.Publish(e)
	}
}

// Multi returns a Publisher that forwards to each non-nil publisher.
func Multi(pubs ...Publisher) Publisher {
	var out multi
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Recorder keeps every published event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in publish order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kinds of the recorded events in publish order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// Last returns the most recent event, if any.
func (r *Recorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}

// Reset clears the recording.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// LogPublisher writes each event to a structured logger at Info.
type LogPublisher struct {
	Logger *slog.Logger
}

// Publish implements Publisher.
func (p LogPublisher) Publish(e Event) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.LogAttrs(context.Background(), slog.LevelInfo, "event",
		slog.String("id", e.ID.String()),
		slog.String("kind", string(e.Kind)),
		slog.String("account", e.Account.String()),
		slog.Uint64("units", e.Units),
		slog.Uint64("amount", e.Amount),
		slog.Uint64("index", e.Index),
		slog.String("role", e.Role),
		slog.Uint64("at", e.At),
	)
}
