// Package handles owns the set of draggable anchor points overlaid on a
// map surface, their point-feature rendering, and the drag state
// machine that resolves pointer motion into constrained positions.
package handles

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"geoedit/internal/surface"
)

// Kind determines a handle's default color, cursor and constraint set.
type Kind string

const (
	KindResize Kind = "resize"
	KindRotate Kind = "rotate"
	KindMove   Kind = "move"
	KindCurve  Kind = "curve"
	KindLabel  Kind = "label"
	KindSnap   Kind = "snap"
)

// Shape is the visual convention for a handle: square = free two-axis
// move, circle = single-axis move, triangle = "add" affordance, diamond
// reserved.
type Shape string

const (
	ShapeSquare   Shape = "square"
	ShapeCircle   Shape = "circle"
	ShapeDiamond  Shape = "diamond"
	ShapeTriangle Shape = "triangle"
)

// Axis selects a locked coordinate axis for drag constraints.
type Axis string

const (
	AxisNone Axis = ""
	AxisX    Axis = "x"
	AxisY    Axis = "y"
)

// Constraints restrict how a drag may move a handle.
type Constraints struct {
	SnapToGrid   bool
	LockAxis     Axis
	Proportional bool
}

// Handle is a draggable anchor point. Handles are plain values: the
// store hands out copies, and updates replace the stored value rather
// than mutating shared state.
type Handle struct {
	ID          string
	Kind        Kind
	Shape       Shape
	Position    orb.Point
	Color       string
	Cursor      string
	Constraints Constraints
	Draggable   bool
	Visible     bool
}

type kindDefaults struct {
	color       string
	cursor      string
	constraints Constraints
}

var defaultsByKind = map[Kind]kindDefaults{
	KindResize: {color: "#FF4500", cursor: surface.CursorResizeNWSE, constraints: Constraints{Proportional: true}},
	KindRotate: {color: "#1E90FF", cursor: surface.CursorCrosshair},
	KindMove:   {color: "#2ECC71", cursor: surface.CursorMove},
	KindCurve:  {color: "#9B59B6", cursor: surface.CursorPointer},
	KindLabel:  {color: "#FFBF00", cursor: surface.CursorText},
	KindSnap:   {color: "#FF69B4", cursor: surface.CursorCell, constraints: Constraints{SnapToGrid: true}},
}

func newHandle(kind Kind, shape Shape, pos orb.Point) Handle {
	d := defaultsByKind[kind]
	return Handle{
		ID:          uuid.NewString(),
		Kind:        kind,
		Shape:       shape,
		Position:    pos,
		Color:       d.color,
		Cursor:      d.cursor,
		Constraints: d.constraints,
		Draggable:   true,
		Visible:     true,
	}
}

// Patch is a partial handle update; nil fields are left unchanged.
type Patch struct {
	Position    *orb.Point
	Color       *string
	Cursor      *string
	Constraints *Constraints
	Draggable   *bool
	Visible     *bool
}

func (h Handle) apply(p Patch) Handle {
	if p.Position != nil {
		h.Position = *p.Position
	}
	if p.Color != nil {
		h.Color = *p.Color
	}
	if p.Cursor != nil {
		h.Cursor = *p.Cursor
	}
	if p.Constraints != nil {
		h.Constraints = *p.Constraints
	}
	if p.Draggable != nil {
		h.Draggable = *p.Draggable
	}
	if p.Visible != nil {
		h.Visible = *p.Visible
	}
	return h
}
