// SPDX-License-Identifier: MPL-2.0

package events

import "sync"

type (
	// Listener receives events from an Emitter.
	Listener interface {
		Notify(Event)
	}

	// ListenerFunc adapts a function to the Listener interface.
	ListenerFunc func(Event)

	// Emitter dispatches events to subscribed listeners in subscription order.
	// The zero value is ready to use. A nil *Emitter drops every event.
	Emitter struct {
		mu        sync.RWMutex
		nextID    int
		listeners []subscription
	}

	subscription struct {
		id       int
		listener Listener
	}
)

// Notify implements Listener.
func (f ListenerFunc) Notify(e Event) { f(e) }

// NewEmitter creates an Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe registers l and returns a function that removes it again.
func (em *Emitter) Subscribe(l Listener) (unsubscribe func()) {
	em.mu.Lock()
	defer em.mu.Unlock()

	em.nextID++
	id := em.nextID
	em.listeners = append(em.listeners, subscription{id: id, listener: l})

	return func() {
		em.mu.Lock()
		defer em.mu.Unlock()
		for i, s := range em.listeners {
			if s.id == id {
				em.listeners = append(em.listeners[:i:i], em.listeners[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers e to every listener synchronously.
func (em *Emitter) Emit(e Event) {
	if em == nil {
		return
	}

	em.mu.RLock()
	subs := make([]subscription, len(em.listeners))
	copy(subs, em.listeners)
	em.mu.RUnlock()

	for _, s := range subs {
		s.listener.Notify(e)
	}
}

// Channel returns a Listener that forwards events to a buffered channel of
// the given capacity. Events are dropped when the channel is full so a slow
// consumer never blocks bootstrapping.
func Channel(capacity int) (<-chan Event, Listener) {
	ch := make(chan Event, capacity)
	return ch, ListenerFunc(func(e Event) {
		select {
		case ch <- e:
		default:
		}
	})
}

// Recorder is a Listener that keeps every event it receives. It is safe for
// concurrent use and mostly useful in tests and dry runs.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Notify implements Listener.
func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Names returns the names of the recorded events, in order.
func (r *Recorder) Names() []string {
	evs := r.Events()
	names := make([]string, len(evs))
	for i, e := range evs {
		names[i] = e.Name()
	}
	return names
}
