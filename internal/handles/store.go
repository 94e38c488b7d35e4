package handles

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"geoedit/internal/events"
	"geoedit/internal/surface"
)

// EventType enumerates handle-originated events.
type EventType string

const (
	EventDragStart EventType = "dragstart"
	EventDrag      EventType = "drag"
	EventDragEnd   EventType = "dragend"
	EventClick     EventType = "click"
	EventMouseOver EventType = "mouseover"
	EventMouseOut  EventType = "mouseout"
)

// Event carries a snapshot of the handle at emission time.
type Event struct {
	Type     EventType
	Handle   Handle
	Position orb.Point
	Original any
}

// Options configures a Store. Zero values select the defaults.
type Options struct {
	SourceID     string  // defaults to "edit-handles"
	LayerID      string  // defaults to SourceID
	GridStep     float64 // snap quantum in degrees, defaults to DefaultGridStep
	HitTolerance float64 // hit-test radius in screen units, defaults to 6
	Logger       zerolog.Logger
}

// Store owns the handle set, renders it as a point-feature source on
// the surface, and runs the drag state machine. Not safe for concurrent
// use; drive it from the surface's event loop.
type Store struct {
	surf surface.Surface
	opts Options
	log  zerolog.Logger

	order []string
	byID  map[string]Handle

	emitter *events.Emitter[EventType, Event]
	anyFns  []func(Event)

	drag    *dragSession
	hoverID string

	disposers []events.Disposer
}

// NewStore creates the store and registers its source/layer pair on the
// surface. Pointer events are not consumed until Bind is called.
func NewStore(surf surface.Surface, opts Options) *Store {
	if opts.SourceID == "" {
		opts.SourceID = "edit-handles"
	}
	if opts.LayerID == "" {
		opts.LayerID = opts.SourceID
	}
	if opts.GridStep <= 0 {
		opts.GridStep = DefaultGridStep
	}
	if opts.HitTolerance <= 0 {
		opts.HitTolerance = 6
	}
	s := &Store{
		surf:    surf,
		opts:    opts,
		log:     opts.Logger.With().Str("component", "handles").Logger(),
		byID:    make(map[string]Handle),
		emitter: events.NewEmitter[EventType, Event](),
	}
	surf.AddSource(opts.SourceID, geojson.NewFeatureCollection())
	surf.AddLayer(surface.LayerSpec{
		ID:      opts.LayerID,
		Source:  opts.SourceID,
		Type:    surface.LayerHandle,
		Visible: true,
	})
	return s
}

// Bind subscribes the drag state machine to the surface's pointer
// stream. Unbind releases the subscriptions again.
func (s *Store) Bind() {
	if len(s.disposers) > 0 {
		return
	}
	in := s.surf.Input()
	s.disposers = append(s.disposers,
		in.OnPointerDown(s.pointerDown),
		in.OnPointerMove(s.pointerMove),
		in.OnPointerUp(s.pointerUp),
		in.OnClick(s.click),
	)
}

func (s *Store) Unbind() {
	for _, d := range s.disposers {
		d()
	}
	s.disposers = nil
}

// On subscribes to one handle event type.
func (s *Store) On(t EventType, fn func(Event)) events.Disposer {
	return s.emitter.On(t, fn)
}

// OnAny subscribes to every handle event type. Any-listeners fire after
// the type-specific ones.
func (s *Store) OnAny(fn func(Event)) events.Disposer {
	s.anyFns = append(s.anyFns, fn)
	i := len(s.anyFns) - 1
	return func() {
		if i < len(s.anyFns) && s.anyFns[i] != nil {
			s.anyFns[i] = nil
		}
	}
}

func (s *Store) emit(ev Event) {
	s.emitter.Emit(ev.Type, ev)
	for _, fn := range s.anyFns {
		if fn != nil {
			fn(ev)
		}
	}
}

// Create builds a handle with kind-derived defaults. When no position
// is given the handle is placed at the current view center. The handle
// is not added to the store.
func (s *Store) Create(kind Kind, shape Shape, pos ...orb.Point) Handle {
	p := s.surf.ViewCenter()
	if len(pos) > 0 {
		p = pos[0]
	}
	return newHandle(kind, shape, p)
}

// Add inserts h and re-renders the handle source.
func (s *Store) Add(h Handle) {
	if _, ok := s.byID[h.ID]; !ok {
		s.order = append(s.order, h.ID)
	}
	s.byID[h.ID] = h
	s.render()
}

// AddAll inserts every handle, re-rendering once.
func (s *Store) AddAll(hs []Handle) {
	for _, h := range hs {
		if _, ok := s.byID[h.ID]; !ok {
			s.order = append(s.order, h.ID)
		}
		s.byID[h.ID] = h
	}
	s.render()
}

// Remove deletes the handle; false if the id is unknown.
func (s *Store) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.drag != nil && s.drag.handleID == id {
		s.drag = nil
	}
	if s.hoverID == id {
		s.hoverID = ""
	}
	s.render()
	return true
}

// Update merges the patch into the stored handle and returns the new
// value; ok is false for unknown ids.
func (s *Store) Update(id string, p Patch) (Handle, bool) {
	h, ok := s.byID[id]
	if !ok {
		return Handle{}, false
	}
	h = h.apply(p)
	s.byID[id] = h
	s.render()
	return h, true
}

// SetPosition moves the handle.
func (s *Store) SetPosition(id string, pos orb.Point) bool {
	_, ok := s.Update(id, Patch{Position: &pos})
	return ok
}

// SetVisibility shows or hides the handle without removing it.
func (s *Store) SetVisibility(id string, visible bool) bool {
	_, ok := s.Update(id, Patch{Visible: &visible})
	return ok
}

// Clear empties the set and discards any drag in progress.
func (s *Store) Clear() {
	s.order = nil
	s.byID = make(map[string]Handle)
	s.drag = nil
	s.hoverID = ""
	s.render()
}

// Get returns a copy of the handle.
func (s *Store) Get(id string) (Handle, bool) {
	h, ok := s.byID[id]
	return h, ok
}

// List returns copies of all handles in insertion order.
func (s *Store) List() []Handle {
	out := make([]Handle, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len reports the number of handles.
func (s *Store) Len() int { return len(s.order) }

// SourceID returns the id of the feature source the store renders into.
func (s *Store) SourceID() string { return s.opts.SourceID }

func (s *Store) render() {
	fc := geojson.NewFeatureCollection()
	for _, id := range s.order {
		h := s.byID[id]
		if !h.Visible {
			continue
		}
		f := geojson.NewFeature(h.Position)
		f.ID = h.ID
		f.Properties = geojson.Properties{
			"kind":      string(h.Kind),
			"shape":     string(h.Shape),
			"color":     h.Color,
			"cursor":    h.Cursor,
			"draggable": h.Draggable,
		}
		fc.Append(f)
	}
	s.surf.UpdateSourceData(s.opts.SourceID, fc)
}
