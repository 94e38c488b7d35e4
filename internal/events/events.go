// Package events provides enum-keyed listener tables with explicit
// subscription disposal. Emitters are owned by a single store each and
// must only be used from the event loop goroutine that drives the store.
package events

// Disposer removes a previously registered listener. Calling it more
// than once is a no-op.
type Disposer func()

type listener[E any] struct {
	id int
	fn func(E)
}

// Emitter dispatches typed events to listeners registered per key.
// Listeners for a key fire in registration order.
type Emitter[K comparable, E any] struct {
	listeners map[K][]listener[E]
	nextID    int
}

func NewEmitter[K comparable, E any]() *Emitter[K, E] {
	return &Emitter[K, E]{listeners: make(map[K][]listener[E])}
}

// On registers fn for events emitted under key and returns its disposer.
func (e *Emitter[K, E]) On(key K, fn func(E)) Disposer {
	e.nextID++
	id := e.nextID
	e.listeners[key] = append(e.listeners[key], listener[E]{id: id, fn: fn})
	return func() {
		ls := e.listeners[key]
		for i, l := range ls {
			if l.id == id {
				e.listeners[key] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every listener registered under key, in registration order.
// The listener slice is snapshotted first so a listener that unsubscribes
// itself (or others) mid-dispatch cannot skip entries.
func (e *Emitter[K, E]) Emit(key K, ev E) {
	ls := e.listeners[key]
	snapshot := make([]listener[E], len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		l.fn(ev)
	}
}

// Count reports how many listeners are registered under key.
func (e *Emitter[K, E]) Count(key K) int { return len(e.listeners[key]) }
