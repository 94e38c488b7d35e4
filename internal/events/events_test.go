package events

import "testing"

func TestOrder_ListenersFireInRegistrationOrder(t *testing.T) {
	e := NewEmitter[string, int]()
	var got []int
	e.On("tick", func(int) { got = append(got, 1) })
	e.On("tick", func(int) { got = append(got, 2) })
	e.On("tick", func(int) { got = append(got, 3) })
	e.Emit("tick", 0)
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("listeners fired out of order: %v", got)
	}
}

func TestDisposer_RemovesOnlyItsListener(t *testing.T) {
	e := NewEmitter[string, int]()
	var a, b int
	dispose := e.On("tick", func(int) { a++ })
	e.On("tick", func(int) { b++ })
	e.Emit("tick", 0)
	dispose()
	dispose() // second call must be a no-op
	e.Emit("tick", 0)
	if a != 1 {
		t.Fatalf("disposed listener fired again: a=%d", a)
	}
	if b != 2 {
		t.Fatalf("surviving listener missed an event: b=%d", b)
	}
	if e.Count("tick") != 1 {
		t.Fatalf("expected 1 remaining listener, got %d", e.Count("tick"))
	}
}

func TestEmit_KeysAreIndependent(t *testing.T) {
	e := NewEmitter[string, string]()
	var got string
	e.On("select", func(v string) { got = v })
	e.Emit("deselect", "x")
	if got != "" {
		t.Fatalf("listener fired for wrong key")
	}
	e.Emit("select", "y")
	if got != "y" {
		t.Fatalf("listener did not receive payload, got %q", got)
	}
}

func TestEmit_SelfUnsubscribeDuringDispatchIsSafe(t *testing.T) {
	e := NewEmitter[string, int]()
	var fired int
	var dispose Disposer
	dispose = e.On("tick", func(int) {
		fired++
		dispose()
	})
	e.On("tick", func(int) { fired++ })
	e.Emit("tick", 0)
	if fired != 2 {
		t.Fatalf("expected both listeners to fire once, got %d", fired)
	}
	e.Emit("tick", 0)
	if fired != 3 {
		t.Fatalf("unsubscribed listener fired again: %d", fired)
	}
}
