package tools

import (
	"github.com/rs/zerolog"

	"geoedit/internal/events"
	"geoedit/internal/handles"
	"geoedit/internal/surface"
)

var bubbledTypes = []EventType{
	EventActivate, EventDeactivate, EventStart, EventUpdate, EventComplete, EventCancel,
}

// Registry owns the registered tools and the single active-tool slot.
// Input events reach the active tool only; with no active tool they are
// dropped silently.
type Registry struct {
	surf surface.Surface
	log  zerolog.Logger

	order   []string
	byID    map[string]Tool
	bubbles map[string][]events.Disposer
	active  Tool

	emitter   *events.Emitter[EventType, Event]
	disposers []events.Disposer
}

func NewRegistry(surf surface.Surface, log zerolog.Logger) *Registry {
	return &Registry{
		surf:    surf,
		log:     log.With().Str("component", "tools").Logger(),
		byID:    make(map[string]Tool),
		bubbles: make(map[string][]events.Disposer),
		emitter: events.NewEmitter[EventType, Event](),
	}
}

// On subscribes to registry-level tool events (bubbled from every
// registered tool).
func (r *Registry) On(t EventType, fn func(Event)) events.Disposer {
	return r.emitter.On(t, fn)
}

// Register stores the tool and re-emits its lifecycle events to
// registry listeners. Registering an id twice overwrites the previous
// registration.
func (r *Registry) Register(t Tool) Tool {
	id := t.ID()
	if old, ok := r.byID[id]; ok {
		r.dropBubbles(id)
		if r.active == old {
			old.Deactivate()
			r.active = nil
		}
	} else {
		r.order = append(r.order, id)
	}
	r.byID[id] = t
	for _, et := range bubbledTypes {
		et := et
		d := t.Events().On(et, func(ev Event) {
			if ev.Tool == nil {
				ev.Tool = t
			}
			r.emitter.Emit(et, ev)
		})
		r.bubbles[id] = append(r.bubbles[id], d)
	}
	r.log.Debug().Str("tool", id).Msg("registered")
	return t
}

// Unregister deactivates the tool if it was active, tears it down, and
// removes it. False for unknown ids.
func (r *Registry) Unregister(id string) bool {
	t, ok := r.byID[id]
	if !ok {
		return false
	}
	if r.active == t {
		t.Deactivate()
		r.active = nil
	}
	t.Destroy()
	r.dropBubbles(id)
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Activate makes the named tool the active one, deactivating the prior
// holder first. Unknown ids change nothing. Activating the already
// active tool is a no-op.
func (r *Registry) Activate(id string) (Tool, bool) {
	t, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	if r.active == t {
		return t, true
	}
	if r.active != nil {
		r.active.Deactivate()
	}
	r.active = t
	t.Activate()
	r.log.Debug().Str("tool", id).Msg("activated")
	return t, true
}

// Deactivate releases the active-tool slot; false if it was empty.
func (r *Registry) Deactivate() bool {
	if r.active == nil {
		return false
	}
	r.active.Deactivate()
	r.active = nil
	return true
}

// Active returns the tool currently holding the slot, or nil.
func (r *Registry) Active() Tool { return r.active }

// Get returns a registered tool by id.
func (r *Registry) Get(id string) (Tool, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// Bind subscribes the registry to the surface's input stream.
func (r *Registry) Bind() {
	if len(r.disposers) > 0 {
		return
	}
	in := r.surf.Input()
	r.disposers = append(r.disposers,
		in.OnPointerDown(func(ev surface.PointerEvent) {
			if r.active != nil {
				r.active.OnPointerDown(ev)
			}
		}),
		in.OnPointerMove(func(ev surface.PointerEvent) {
			if r.active != nil {
				r.active.OnPointerMove(ev)
			}
		}),
		in.OnPointerUp(func(ev surface.PointerEvent) {
			if r.active != nil {
				r.active.OnPointerUp(ev)
			}
		}),
		in.OnClick(func(ev surface.PointerEvent) {
			if r.active != nil {
				r.active.OnClick(ev)
			}
		}),
		in.OnKeyDown(func(ev surface.KeyEvent) {
			if r.active != nil {
				r.active.OnKeyDown(ev)
			}
		}),
	)
}

// Unbind releases the surface input subscriptions.
func (r *Registry) Unbind() {
	for _, d := range r.disposers {
		d()
	}
	r.disposers = nil
}

// RouteHandle forwards a handle-originated event to the active tool.
func (r *Registry) RouteHandle(ev handles.Event) {
	if r.active != nil {
		r.active.OnHandle(ev)
	}
}

func (r *Registry) dropBubbles(id string) {
	for _, d := range r.bubbles[id] {
		d()
	}
	delete(r.bubbles, id)
}
