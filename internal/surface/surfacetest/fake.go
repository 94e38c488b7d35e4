// Package surfacetest provides an in-memory Surface for tests: a flat
// projection of 100 screen units per degree with y growing south, plus
// naive geometric feature queries.
package surfacetest

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"geoedit/internal/surface"
)

const unitsPerDegree = 100

// Fake implements surface.Surface over plain maps.
type Fake struct {
	In      *surface.Input
	Sources map[string]*geojson.FeatureCollection
	Layers  map[string]surface.LayerSpec
	Order   []string // layer ids in add order
	Cursor  string
	Center  orb.Point
	Updates int // UpdateSourceData call count
}

func New() *Fake {
	return &Fake{
		In:      surface.NewInput(),
		Sources: make(map[string]*geojson.FeatureCollection),
		Layers:  make(map[string]surface.LayerSpec),
		Cursor:  surface.CursorDefault,
	}
}

func (f *Fake) AddSource(id string, fc *geojson.FeatureCollection) { f.Sources[id] = fc }

func (f *Fake) UpdateSourceData(id string, fc *geojson.FeatureCollection) bool {
	if _, ok := f.Sources[id]; !ok {
		return false
	}
	f.Sources[id] = fc
	f.Updates++
	return true
}

func (f *Fake) RemoveSource(id string) bool {
	if _, ok := f.Sources[id]; !ok {
		return false
	}
	delete(f.Sources, id)
	return true
}

func (f *Fake) AddLayer(spec surface.LayerSpec) {
	if _, ok := f.Layers[spec.ID]; !ok {
		f.Order = append(f.Order, spec.ID)
	}
	f.Layers[spec.ID] = spec
}

func (f *Fake) RemoveLayer(id string) bool {
	if _, ok := f.Layers[id]; !ok {
		return false
	}
	delete(f.Layers, id)
	for i, v := range f.Order {
		if v == id {
			f.Order = append(f.Order[:i], f.Order[i+1:]...)
			break
		}
	}
	return true
}

func (f *Fake) SetLayerVisibility(id string, visible bool) bool {
	spec, ok := f.Layers[id]
	if !ok {
		return false
	}
	spec.Visible = visible
	f.Layers[id] = spec
	return true
}

func (f *Fake) UpdateFeatureGeometry(sourceID, featureID string, g orb.Geometry) bool {
	fc, ok := f.Sources[sourceID]
	if !ok {
		return false
	}
	for _, feat := range fc.Features {
		if idString(feat.ID) == featureID {
			feat.Geometry = g
			return true
		}
	}
	return false
}

func (f *Fake) QueryFeaturesAtPoint(pt orb.Point, layers []string) []surface.QueriedFeature {
	var out []surface.QueriedFeature
	for _, layerID := range f.Order {
		spec := f.Layers[layerID]
		if !spec.Visible || !layerAllowed(layerID, layers) {
			continue
		}
		fc := f.Sources[spec.Source]
		if fc == nil {
			continue
		}
		for _, feat := range fc.Features {
			if feat.Geometry == nil {
				continue
			}
			if hitsPoint(feat.Geometry, pt) {
				out = append(out, surface.QueriedFeature{Feature: feat, SourceID: spec.Source, LayerID: layerID})
			}
		}
	}
	return out
}

func (f *Fake) QueryFeaturesInBox(rect surface.ScreenRect, layers []string) []surface.QueriedFeature {
	min := f.Unproject(surface.ScreenPoint{X: rect.MinX, Y: rect.MaxY})
	max := f.Unproject(surface.ScreenPoint{X: rect.MaxX, Y: rect.MinY})
	box := orb.Bound{Min: min, Max: max}

	var out []surface.QueriedFeature
	for _, layerID := range f.Order {
		spec := f.Layers[layerID]
		if !spec.Visible || !layerAllowed(layerID, layers) {
			continue
		}
		fc := f.Sources[spec.Source]
		if fc == nil {
			continue
		}
		for _, feat := range fc.Features {
			if feat.Geometry == nil {
				continue
			}
			if box.Intersects(feat.Geometry.Bound()) {
				out = append(out, surface.QueriedFeature{Feature: feat, SourceID: spec.Source, LayerID: layerID})
			}
		}
	}
	return out
}

func (f *Fake) Project(pt orb.Point) surface.ScreenPoint {
	return surface.ScreenPoint{X: pt[0] * unitsPerDegree, Y: -pt[1] * unitsPerDegree}
}

func (f *Fake) Unproject(sp surface.ScreenPoint) orb.Point {
	return orb.Point{sp.X / unitsPerDegree, -sp.Y / unitsPerDegree}
}

func (f *Fake) ViewCenter() orb.Point { return f.Center }

func (f *Fake) SetCursor(name string) { f.Cursor = name }

func (f *Fake) Input() *surface.Input { return f.In }

// PointerAt builds a pointer event for a geographic coordinate through
// the fake's projection.
func (f *Fake) PointerAt(p orb.Point) surface.PointerEvent {
	return surface.PointerEvent{Point: p, Screen: f.Project(p)}
}

// hitsPoint uses a ~0.05 degree tolerance for point and line features.
const hitToleranceDeg = 0.05

func hitsPoint(g orb.Geometry, pt orb.Point) bool {
	switch t := g.(type) {
	case orb.Point:
		return math.Hypot(t[0]-pt[0], t[1]-pt[1]) <= hitToleranceDeg
	case orb.Polygon:
		return planar.PolygonContains(t, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(t, pt)
	default:
		return planar.DistanceFrom(g, pt) <= hitToleranceDeg
	}
}

func layerAllowed(id string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, v := range filter {
		if v == id {
			return true
		}
	}
	return false
}

func idString(id any) string {
	if id == nil {
		return ""
	}
	if s, ok := id.(string); ok {
		return s
	}
	return fmt.Sprint(id)
}

var _ surface.Surface = (*Fake)(nil)
