package render

import (
	"context"
	"sync"

	"github.com/soundround/soundround/internal/model"
)

// RecordedEvent is one captured broadcast.
type RecordedEvent struct {
	Scope   model.Scope
	Event   model.EventType
	Payload any
}

// Recorder is a Sink that captures everything, for tests.
type Recorder struct {
	mu      sync.Mutex
	Updates []model.ViewUpdate
	Events  []RecordedEvent
}

var _ Sink = (*Recorder)(nil)

// NewRecorder creates a new Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Render captures the view update.
func (r *Recorder) Render(_ context.Context, update model.ViewUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Updates = append(r.Updates, update)
}

// Emit captures the broadcast.
func (r *Recorder) Emit(_ context.Context, scope model.Scope, event model.EventType, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, RecordedEvent{Scope: scope, Event: event, Payload: payload})
}

// UpdatesFor returns the captured updates for a view.
func (r *Recorder) UpdatesFor(view model.View) []model.ViewUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ViewUpdate
	for _, u := range r.Updates {
		if u.View == view {
			out = append(out, u)
		}
	}
	return out
}

// EventsNamed returns the captured broadcasts for an event type.
func (r *Recorder) EventsNamed(event model.EventType) []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []RecordedEvent
	for _, e := range r.Events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears everything captured so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Updates = nil
	r.Events = nil
}
