// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
	BodyCollision     Type = "body_collision"
	WallBounce        Type = "wall_bounce"
	BodyOutOfBounds   Type = "body_out_of_bounds"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies one registered handler. Cancel removes it.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Type:   eventType,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

// Unsubscribe removes the handler behind sub. Nil or already cancelled
// subscriptions are ignored.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.unsubscribe(sub.Type, sub.ID)
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			// Copy so a Publish iterating the old slice is not disturbed.
			kept := make([]subscriber, 0, len(subs)-1)
			kept = append(kept, subs[:i]...)
			b.handlers[eventType] = append(kept, subs[i+1:]...)
			return
		}
	}
}

// HasSubscribers reports whether anything listens for eventType, letting
// publishers skip building events nobody reads.
func (b *Bus) HasSubscribers(eventType Type) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// CollisionEvent is published once per bounced pair.
type CollisionEvent struct {
	BaseEvent
	Tick uint64
	A    uint64
	B    uint64
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, tick, a, b uint64) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{EventType: BodyCollision, Source: source},
		Tick:      tick,
		A:         a,
		B:         b,
	}
}

// WallEvent reports a body bouncing off one or more walls. Hits holds the
// collision.WallHits bit set.
type WallEvent struct {
	BaseEvent
	Tick uint64
	Body uint64
	Hits uint8
}

// NewWallEvent creates a new wall bounce event
func NewWallEvent(source interface{}, tick, body uint64, hits uint8) *WallEvent {
	return &WallEvent{
		BaseEvent: BaseEvent{EventType: WallBounce, Source: source},
		Tick:      tick,
		Body:      body,
		Hits:      hits,
	}
}

// OutOfBoundsEvent reports a body the spatial index refused this tick.
type OutOfBoundsEvent struct {
	BaseEvent
	Tick uint64
	Body uint64
	Err  error
}

// NewOutOfBoundsEvent creates a new out of bounds event
func NewOutOfBoundsEvent(source interface{}, tick, body uint64, err error) *OutOfBoundsEvent {
	return &OutOfBoundsEvent{
		BaseEvent: BaseEvent{EventType: BodyOutOfBounds, Source: source},
		Tick:      tick,
		Body:      body,
		Err:       err,
	}
}
