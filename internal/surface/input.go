package surface

import (
	"github.com/paulmach/orb"

	"geoedit/internal/events"
)

// PointerEvent is a pointer interaction delivered with both the
// geographic coordinate under the pointer and the renderer coordinate.
type PointerEvent struct {
	Point    orb.Point
	Screen   ScreenPoint
	Original any // raw host event, opaque to the core
}

// KeyEvent is a key press. Key uses the host's key naming; the core
// only ever inspects "esc".
type KeyEvent struct {
	Key      string
	Original any
}

type pointerKind string

const (
	pointerDown  pointerKind = "pointerdown"
	pointerMove  pointerKind = "pointermove"
	pointerUp    pointerKind = "pointerup"
	pointerClick pointerKind = "click"
)

// Input fans pointer and keyboard events from a renderer out to
// subscribers in registration order. Renderers call the Dispatch*
// methods from their event loop; consumers subscribe via On*.
type Input struct {
	pointer *events.Emitter[pointerKind, PointerEvent]
	keys    *events.Emitter[string, KeyEvent]
}

func NewInput() *Input {
	return &Input{
		pointer: events.NewEmitter[pointerKind, PointerEvent](),
		keys:    events.NewEmitter[string, KeyEvent](),
	}
}

func (in *Input) OnPointerDown(fn func(PointerEvent)) events.Disposer {
	return in.pointer.On(pointerDown, fn)
}

func (in *Input) OnPointerMove(fn func(PointerEvent)) events.Disposer {
	return in.pointer.On(pointerMove, fn)
}

func (in *Input) OnPointerUp(fn func(PointerEvent)) events.Disposer {
	return in.pointer.On(pointerUp, fn)
}

func (in *Input) OnClick(fn func(PointerEvent)) events.Disposer {
	return in.pointer.On(pointerClick, fn)
}

func (in *Input) OnKeyDown(fn func(KeyEvent)) events.Disposer {
	return in.keys.On("keydown", fn)
}

func (in *Input) DispatchPointerDown(ev PointerEvent) { in.pointer.Emit(pointerDown, ev) }
func (in *Input) DispatchPointerMove(ev PointerEvent) { in.pointer.Emit(pointerMove, ev) }
func (in *Input) DispatchPointerUp(ev PointerEvent)   { in.pointer.Emit(pointerUp, ev) }
func (in *Input) DispatchClick(ev PointerEvent)       { in.pointer.Emit(pointerClick, ev) }
func (in *Input) DispatchKeyDown(ev KeyEvent)         { in.keys.Emit("keydown", ev) }
