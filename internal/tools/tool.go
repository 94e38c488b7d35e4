// Package tools arbitrates exclusive control of pointer and keyboard
// input among pluggable editing tools. A registry owns the single
// active-tool slot and routes every input and handle event to whichever
// tool holds it.
package tools

import (
	"geoedit/internal/events"
	"geoedit/internal/handles"
	"geoedit/internal/surface"
)

// State is a tool's activation state.
type State string

const (
	StateInactive State = "inactive"
	StateActive   State = "active"
)

// EventType enumerates tool lifecycle events.
type EventType string

const (
	EventActivate   EventType = "activate"
	EventDeactivate EventType = "deactivate"
	EventStart      EventType = "start"
	EventUpdate     EventType = "update"
	EventComplete   EventType = "complete"
	EventCancel     EventType = "cancel"
)

// Event is the payload for tool lifecycle events.
type Event struct {
	Tool  Tool
	Type  EventType
	State State
}

// Tool is the explicit capability contract every editing tool
// implements. Concrete tools embed Base and override what they need.
type Tool interface {
	ID() string
	State() State
	Activate()
	Deactivate()
	Destroy()

	OnClick(ev surface.PointerEvent)
	OnPointerDown(ev surface.PointerEvent)
	OnPointerMove(ev surface.PointerEvent)
	OnPointerUp(ev surface.PointerEvent)
	OnKeyDown(ev surface.KeyEvent)
	OnHandle(ev handles.Event)

	// Events exposes the tool's lifecycle emitter so a registry can
	// re-emit (bubble) tool events to its own listeners.
	Events() *events.Emitter[EventType, Event]
}

// Base is the no-op tool variant. It tracks activation state and emits
// lifecycle events; every input hook does nothing.
type Base struct {
	id      string
	state   State
	self    Tool
	emitter *events.Emitter[EventType, Event]
}

func NewBase(id string) Base {
	return Base{
		id:      id,
		state:   StateInactive,
		emitter: events.NewEmitter[EventType, Event](),
	}
}

// Attach records the concrete tool embedding this Base so emitted
// events carry the outer value. Constructors of concrete tools call it.
func (b *Base) Attach(self Tool) { b.self = self }

func (b *Base) ID() string   { return b.id }
func (b *Base) State() State { return b.state }

// Activate flips to active. Re-activating an active tool is a no-op.
func (b *Base) Activate() {
	if b.state == StateActive {
		return
	}
	b.state = StateActive
	b.Emit(EventActivate)
}

// Deactivate flips to inactive. Deactivating an inactive tool is a
// no-op.
func (b *Base) Deactivate() {
	if b.state == StateInactive {
		return
	}
	b.state = StateInactive
	b.Emit(EventDeactivate)
}

func (b *Base) Destroy() { b.Deactivate() }

func (b *Base) OnClick(surface.PointerEvent)       {}
func (b *Base) OnPointerDown(surface.PointerEvent) {}
func (b *Base) OnPointerMove(surface.PointerEvent) {}
func (b *Base) OnPointerUp(surface.PointerEvent)   {}
func (b *Base) OnKeyDown(surface.KeyEvent)         {}
func (b *Base) OnHandle(handles.Event)             {}

func (b *Base) Events() *events.Emitter[EventType, Event] { return b.emitter }

// Emit publishes a lifecycle event for the tool.
func (b *Base) Emit(t EventType) {
	var tool Tool = b.self
	b.emitter.Emit(t, Event{Tool: tool, Type: t, State: b.state})
}
