// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Craft lifecycle and contact event types
const (
	LevelLoaded          Type = "level_loaded"
	LevelTransition      Type = "level_transition"
	ContactResolved      Type = "contact_resolved"
	ShieldPickedUp       Type = "shield_picked_up"
	ShieldAbsorbed       Type = "shield_absorbed"
	CraftCrashed         Type = "craft_crashed"
	LevelCompleted       Type = "level_completed"
	InvincibilityStarted Type = "invincibility_started"
	InvincibilityEnded   Type = "invincibility_ended"
	ControlRestored      Type = "control_restored"
	ControlsFrozen       Type = "controls_frozen"
	ControlsUnfrozen     Type = "controls_unfrozen"
	CollisionToggled     Type = "collision_toggled"
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

// Subscription identifies a registered handler. Cancel removes it from the bus.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type registeredHandler struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]registeredHandler
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registeredHandler),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registeredHandler{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[eventType]
	for i, h := range handlers {
		if h.id == id {
			b.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers.
// Handlers run synchronously on the caller's goroutine, in subscription order.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]registeredHandler(nil), b.handlers[event.GetType()]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h.handler(event)
	}
}

// Specific event implementations

// CraftEvent carries a craft state transition
type CraftEvent struct {
	BaseEvent
	CraftID uint64
}

// NewCraftEvent creates a new craft event
func NewCraftEvent(eventType Type, source interface{}, craftID uint64) *CraftEvent {
	return &CraftEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		CraftID: craftID,
	}
}

// ContactEvent reports how a contact was classified and resolved
type ContactEvent struct {
	BaseEvent
	CraftID  uint64
	ObjectID uint64
	Category string
	Outcome  string
}

// NewContactEvent creates a new contact resolution event
func NewContactEvent(source interface{}, craftID, objectID uint64, category, outcome string) *ContactEvent {
	return &ContactEvent{
		BaseEvent: BaseEvent{
			EventType: ContactResolved,
			Source:    source,
		},
		CraftID:  craftID,
		ObjectID: objectID,
		Category: category,
		Outcome:  outcome,
	}
}

// LevelEvent contains information about level loads and transitions
type LevelEvent struct {
	BaseEvent
	From   int
	To     int
	Reason string
}

// NewLevelEvent creates a new level event
func NewLevelEvent(eventType Type, source interface{}, from, to int, reason string) *LevelEvent {
	return &LevelEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		From:   from,
		To:     to,
		Reason: reason,
	}
}
