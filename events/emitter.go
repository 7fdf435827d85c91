package events

import (
	"context"
	"sync"

	"github.com/bradycnk/Nominaft/logger"
)

// Emitter publishes events on behalf of a service and logs, rather than
// returns, delivery failures.
type Emitter struct {
	publisher Publisher
	logger    *logger.Logger
}

func NewEmitter(publisher Publisher, log *logger.Logger) *Emitter {
	if publisher == nil {
		publisher = Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Emitter{publisher: publisher, logger: log}
}

// Emit publishes one event.
func (e *Emitter) Emit(ctx context.Context, eventType string, data any) {
	if e == nil {
		return
	}
	if err := e.publisher.Publish(ctx, eventType, data); err != nil {
		e.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to publish event")
	}
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []*Event
}

func (r *Recorder) Publish(ctx context.Context, eventType string, data any) error {
	ev, err := NewEvent(eventType, "recorder", CorrelationID(ctx), data)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events with the given type.
func (r *Recorder) OfType(eventType string) []*Event {
	var out []*Event
	for _, ev := range r.Events() {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}
