package tools

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"geoedit/internal/surface"
	"geoedit/internal/surface/surfacetest"
)

type stubTool struct {
	Base
	clicks int
	keys   int
}

func newStubTool(id string) *stubTool {
	t := &stubTool{Base: NewBase(id)}
	t.Attach(t)
	return t
}

func (t *stubTool) OnClick(surface.PointerEvent) { t.clicks++ }
func (t *stubTool) OnKeyDown(surface.KeyEvent)   { t.keys++ }

func newRegistry() (*surfacetest.Fake, *Registry) {
	surf := surfacetest.New()
	return surf, NewRegistry(surf, zerolog.Nop())
}

func TestRegistry_ActivateIsExclusive(t *testing.T) {
	_, reg := newRegistry()
	a := newStubTool("a")
	b := newStubTool("b")
	reg.Register(a)
	reg.Register(b)

	var seq []string
	reg.On(EventActivate, func(ev Event) { seq = append(seq, ev.Tool.ID()+":on") })
	reg.On(EventDeactivate, func(ev Event) { seq = append(seq, ev.Tool.ID()+":off") })

	if _, ok := reg.Activate("a"); !ok {
		t.Fatalf("Activate(a) failed")
	}
	if _, ok := reg.Activate("b"); !ok {
		t.Fatalf("Activate(b) failed")
	}

	if a.State() != StateInactive {
		t.Fatalf("a still active after b took the slot")
	}
	if b.State() != StateActive || reg.Active() != Tool(b) {
		t.Fatalf("b not active")
	}
	want := []string{"a:on", "a:off", "b:on"}
	if len(seq) != len(want) {
		t.Fatalf("event seq = %v, want %v", seq, want)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("event seq = %v, want %v", seq, want)
		}
	}
}

func TestRegistry_ActivateSameToolTwice(t *testing.T) {
	_, reg := newRegistry()
	a := newStubTool("a")
	reg.Register(a)

	activations := 0
	reg.On(EventActivate, func(Event) { activations++ })

	reg.Activate("a")
	reg.Activate("a")
	if activations != 1 {
		t.Fatalf("activations = %d, want 1", activations)
	}
}

func TestRegistry_ActivateUnknownID(t *testing.T) {
	_, reg := newRegistry()
	a := newStubTool("a")
	reg.Register(a)
	reg.Activate("a")

	tool, ok := reg.Activate("nope")
	if ok || tool != nil {
		t.Fatalf("Activate(unknown) = %v, %v", tool, ok)
	}
	if reg.Active() != Tool(a) {
		t.Fatalf("unknown id displaced the active tool")
	}
}

func TestRegistry_UnregisterActiveTool(t *testing.T) {
	_, reg := newRegistry()
	a := newStubTool("a")
	reg.Register(a)
	reg.Activate("a")

	if !reg.Unregister("a") {
		t.Fatalf("Unregister(a) = false")
	}
	if reg.Active() != nil {
		t.Fatalf("active slot not released")
	}
	if a.State() != StateInactive {
		t.Fatalf("unregistered tool still active")
	}
	if reg.Unregister("a") {
		t.Fatalf("Unregister of unknown id = true")
	}
}

func TestRegistry_RoutesInputToActiveToolOnly(t *testing.T) {
	surf, reg := newRegistry()
	a := newStubTool("a")
	b := newStubTool("b")
	reg.Register(a)
	reg.Register(b)
	reg.Bind()

	ev := surf.PointerAt(orb.Point{0, 0})

	// no active tool: events are dropped
	surf.In.DispatchClick(ev)
	if a.clicks != 0 || b.clicks != 0 {
		t.Fatalf("input reached a tool with no active slot")
	}

	reg.Activate("a")
	surf.In.DispatchClick(ev)
	surf.In.DispatchKeyDown(surface.KeyEvent{Key: "esc"})
	if a.clicks != 1 || a.keys != 1 {
		t.Fatalf("active tool missed input: clicks=%d keys=%d", a.clicks, a.keys)
	}
	if b.clicks != 0 || b.keys != 0 {
		t.Fatalf("inactive tool received input")
	}

	reg.Unbind()
	surf.In.DispatchClick(ev)
	if a.clicks != 1 {
		t.Fatalf("unbound registry still routing")
	}
}

func TestRegistry_DeactivateReleasesSlot(t *testing.T) {
	_, reg := newRegistry()
	a := newStubTool("a")
	reg.Register(a)

	if reg.Deactivate() {
		t.Fatalf("Deactivate with empty slot = true")
	}
	reg.Activate("a")
	if !reg.Deactivate() {
		t.Fatalf("Deactivate = false")
	}
	if reg.Active() != nil || a.State() != StateInactive {
		t.Fatalf("slot not released")
	}
}
