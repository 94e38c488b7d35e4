package handles

import (
	"math"

	"github.com/paulmach/orb"

	"geoedit/internal/surface"
)

// dragSession is the ephemeral state between a handle's drag-start and
// drag-end. At most one exists per store.
type dragSession struct {
	handleID string
	start    orb.Point
	current  orb.Point
}

// Dragging reports whether a drag session is in progress.
func (s *Store) Dragging() bool { return s.drag != nil }

// DragStart returns the position captured at drag-start of the active
// session.
func (s *Store) DragStart() (orb.Point, bool) {
	if s.drag == nil {
		return orb.Point{}, false
	}
	return s.drag.start, true
}

// HitTest returns the topmost visible handle within the store's hit
// tolerance of the given screen position.
func (s *Store) HitTest(sp surface.ScreenPoint) (Handle, bool) {
	best := Handle{}
	bestD := math.Inf(1)
	for _, id := range s.order {
		h := s.byID[id]
		if !h.Visible {
			continue
		}
		hp := s.surf.Project(h.Position)
		dx := hp.X - sp.X
		dy := hp.Y - sp.Y
		d := math.Hypot(dx, dy)
		if d <= s.opts.HitTolerance && d <= bestD {
			best = h
			bestD = d
		}
	}
	return best, !math.IsInf(bestD, 1)
}

// pointerDown moves the machine idle→dragging when the pointer lands on
// a draggable handle. A pointer-down during an active drag is ignored.
func (s *Store) pointerDown(ev surface.PointerEvent) {
	if s.drag != nil {
		return
	}
	h, ok := s.HitTest(ev.Screen)
	if !ok || !h.Draggable {
		return
	}
	s.drag = &dragSession{handleID: h.ID, start: h.Position, current: h.Position}
	s.surf.SetCursor(h.Cursor)
	s.log.Debug().Str("handle", h.ID).Str("kind", string(h.Kind)).Msg("drag start")
	s.emit(Event{Type: EventDragStart, Handle: h, Position: h.Position, Original: ev.Original})
}

// pointerMove either advances the active drag under constraint
// resolution or, when idle, maintains hover state and the cursor.
func (s *Store) pointerMove(ev surface.PointerEvent) {
	if s.drag == nil {
		s.updateHover(ev)
		return
	}
	h, ok := s.byID[s.drag.handleID]
	if !ok {
		// handle vanished mid-drag; drop the session
		s.drag = nil
		return
	}
	pos := resolveConstraints(h.Constraints, s.drag.start, ev.Point, s.opts.GridStep)
	s.drag.current = pos
	h.Position = pos
	s.byID[h.ID] = h
	s.render()
	s.emit(Event{Type: EventDrag, Handle: h, Position: pos, Original: ev.Original})
}

// pointerUp moves dragging→idle and discards the session.
func (s *Store) pointerUp(ev surface.PointerEvent) {
	if s.drag == nil {
		return
	}
	h, ok := s.byID[s.drag.handleID]
	s.drag = nil
	s.surf.SetCursor(surface.CursorDefault)
	if !ok {
		return
	}
	s.log.Debug().Str("handle", h.ID).Msg("drag end")
	s.emit(Event{Type: EventDragEnd, Handle: h, Position: h.Position, Original: ev.Original})
}

func (s *Store) click(ev surface.PointerEvent) {
	if s.drag != nil {
		return
	}
	h, ok := s.HitTest(ev.Screen)
	if !ok {
		return
	}
	s.emit(Event{Type: EventClick, Handle: h, Position: h.Position, Original: ev.Original})
}

func (s *Store) updateHover(ev surface.PointerEvent) {
	h, ok := s.HitTest(ev.Screen)
	if ok && h.ID == s.hoverID {
		return
	}
	if s.hoverID != "" {
		if prev, exists := s.byID[s.hoverID]; exists {
			s.emit(Event{Type: EventMouseOut, Handle: prev, Position: prev.Position, Original: ev.Original})
		}
		s.hoverID = ""
		s.surf.SetCursor(surface.CursorDefault)
	}
	if ok {
		s.hoverID = h.ID
		s.surf.SetCursor(h.Cursor)
		s.emit(Event{Type: EventMouseOver, Handle: h, Position: h.Position, Original: ev.Original})
	}
}
