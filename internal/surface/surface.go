// Package surface defines the capability interface the editing core
// consumes from a map renderer: feature source mutation, feature
// queries, geo↔screen projection, cursor styling, and raw input events.
// The core never talks to a renderer any other way.
package surface

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ScreenPoint is a renderer-space coordinate. For the terminal renderer
// a unit is one micro-pixel; for a GUI host it would be a CSS pixel.
type ScreenPoint struct {
	X float64
	Y float64
}

// ScreenRect is an axis-aligned rectangle in renderer space.
type ScreenRect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent of r.
func (r ScreenRect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of r.
func (r ScreenRect) Height() float64 { return r.MaxY - r.MinY }

// Area returns the pixel area of r.
func (r ScreenRect) Area() float64 { return r.Width() * r.Height() }

// LayerType selects how a renderer paints a source.
type LayerType string

const (
	LayerPoint  LayerType = "point"
	LayerLine   LayerType = "line"
	LayerFill   LayerType = "fill"
	LayerHandle LayerType = "handle" // shaped, colored anchor glyphs
)

// LayerSpec describes one rendered layer over a source.
type LayerSpec struct {
	ID      string
	Source  string
	Type    LayerType
	Visible bool
}

// QueriedFeature is a feature hit returned by the query operations,
// together with its provenance so edits can be routed back.
type QueriedFeature struct {
	Feature  *geojson.Feature
	SourceID string
	LayerID  string
}

// Cursor names follow the CSS convention; a renderer maps them to
// whatever affordance it has.
const (
	CursorDefault    = "default"
	CursorMove       = "move"
	CursorPointer    = "pointer"
	CursorCrosshair  = "crosshair"
	CursorText       = "text"
	CursorCell       = "cell"
	CursorResizeEW   = "ew-resize"
	CursorResizeNS   = "ns-resize"
	CursorResizeNWSE = "nwse-resize"
	CursorResizeNESW = "nesw-resize"
)

// Surface is the minimal map capability set the editing core consumes.
// Implementations are driven from a single goroutine; no method blocks.
type Surface interface {
	// Source and layer mutation. Each store owns its own source/layer
	// pair and is the only writer to it.
	AddSource(id string, fc *geojson.FeatureCollection)
	UpdateSourceData(id string, fc *geojson.FeatureCollection) bool
	RemoveSource(id string) bool
	AddLayer(spec LayerSpec)
	RemoveLayer(id string) bool
	SetLayerVisibility(id string, visible bool) bool

	// UpdateFeatureGeometry writes a single feature's geometry back to
	// its owning source without replacing the rest of the source data.
	UpdateFeatureGeometry(sourceID, featureID string, g orb.Geometry) bool

	// Feature queries. An empty layer filter means "all layers".
	QueryFeaturesAtPoint(pt orb.Point, layers []string) []QueriedFeature
	QueryFeaturesInBox(rect ScreenRect, layers []string) []QueriedFeature

	// Projection between geographic and renderer coordinates.
	Project(pt orb.Point) ScreenPoint
	Unproject(sp ScreenPoint) orb.Point

	// ViewCenter reports the geographic coordinate at the viewport center.
	ViewCenter() orb.Point

	SetCursor(name string)

	// Input exposes the surface's pointer/keyboard event stream.
	Input() *Input
}
