package eventbus

import (
	"runtime/debug"
	"sync"

	"issuerpick/internal/domain"
	"issuerpick/internal/logging"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventClick         = domain.EventClick
	EventInput         = domain.EventInput
	EventFormSubmitted = domain.EventFormSubmitted
	EventError         = domain.EventError
	EventConfigLoaded  = domain.EventConfigLoaded
	EventConfigChanged = domain.EventConfigChanged
)

// Re-export domain event types
type ClickEvent = domain.ClickEvent
type InputEvent = domain.InputEvent
type FormSubmittedEvent = domain.FormSubmittedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigChangedEvent = domain.ConfigChangedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	// Publish delivers the event to every subscriber of its type, in
	// subscription order, before returning
	Publish(event DomainEvent)
	// Subscribe registers a handler and returns a function removing it
	Subscribe(eventType EventType, handler EventHandler) func()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	nextID   uint64
}

// New creates a new event bus
func New() EventBus {
	return &bus{
		handlers: make(map[EventType][]subscription),
	}
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	switch event.Type() {
	case EventClick, EventInput:
		// too frequent to log
	default:
		logging.Debugf("EventBus: Publishing event %s", event.Type())
	}

	// Copy so handlers may subscribe or unsubscribe while being called
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[event.Type()]))
	copy(subs, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, s := range subs {
		if !b.subscribed(event.Type(), s.id) {
			continue
		}
		b.call(s.handler, event)
	}
}

// call runs one handler; a panic aborts that handler only
func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("Event handler panic for %s: %v\nStack: %s", event.Type(), r, debug.Stack())
		}
	}()
	h(event)
}

func (b *bus) subscribed(eventType EventType, id uint64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.handlers[eventType] {
		if s.id == id {
			return true
		}
	}
	return false
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			handlers := b.handlers[eventType]
			for i, s := range handlers {
				if s.id == id {
					kept := make([]subscription, 0, len(handlers)-1)
					kept = append(kept, handlers[:i]...)
					b.handlers[eventType] = append(kept, handlers[i+1:]...)
					break
				}
			}
		})
	}
}
