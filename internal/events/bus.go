package events

import (
	"sync"

	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/logging"
)

// Event is a diagnostic notification. Kind is one of the constants.Event*
// values; Detail is a human readable description.
type Event struct {
	Kind   string
	Detail string
	Fields logging.Fields
}

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id   int
	kind string
	h    Handler
}

// Bus dispatches events synchronously to subscribers. Subscribers with an
// empty kind receive every event. The zero value is ready to use.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for events of kind ("" for all) and returns a func
// that removes the subscription.
func (b *Bus) Subscribe(kind string, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, kind: kind, h: h})
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.subs {
			if b.subs[i].id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers an event to the matching subscribers. A nil bus drops it.
func (b *Bus) Publish(kind, detail string, fields logging.Fields) {
	if b == nil {
		return
	}
	b.mu.RLock()
	targets := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.kind == "" || s.kind == kind {
			targets = append(targets, s.h)
		}
	}
	b.mu.RUnlock()

	ev := Event{Kind: kind, Detail: detail, Fields: fields}
	for _, h := range targets {
		h(ev)
	}
}

// LogSubscriber forwards every event to the debug log.
func LogSubscriber(ev Event) {
	fields := logging.Fields{constants.LogFieldKind: ev.Kind}
	for k, v := range ev.Fields {
		fields[k] = v
	}
	logging.Debug(ev.Detail, fields)
}
