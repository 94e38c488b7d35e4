package tui

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"geoedit/internal/surface"
)

// micro-pixel density of a terminal cell (braille resolution)
const (
	microPerCellX = 2
	microPerCellY = 4
)

// pixel radius for point-feature hit tests
const queryToleranceMic = 6

// mapSurface implements surface.Surface over the terminal renderer.
// Screen coordinates are braille micro-pixels; the viewport is the data
// bbox scaled by zoom and shifted by the pan offset.
type mapSurface struct {
	in *surface.Input

	sources map[string]*geojson.FeatureCollection
	layers  map[string]surface.LayerSpec
	order   []string

	bbox    orb.Bound
	zoom    float64
	offsetX int // pan, in cells
	offsetY int
	mapW    int // map viewport, in cells
	mapH    int

	cursor string
}

func newMapSurface() *mapSurface {
	return &mapSurface{
		in:      surface.NewInput(),
		sources: make(map[string]*geojson.FeatureCollection),
		layers:  make(map[string]surface.LayerSpec),
		bbox:    orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}},
		zoom:    1.0,
		mapW:    80,
		mapH:    24,
		cursor:  surface.CursorDefault,
	}
}

// fitTo recenters the viewport on the collection's bbox and resets
// zoom and pan.
func (s *mapSurface) fitTo(fc *geojson.FeatureCollection) {
	var b orb.Bound
	first := true
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		gb := f.Geometry.Bound()
		if first {
			b = gb
			first = false
		} else {
			b = b.Union(gb)
		}
	}
	if first {
		return
	}
	// degenerate bbox (single point): pad so projection stays invertible
	if b.Max[0]-b.Min[0] < 1e-9 || b.Max[1]-b.Min[1] < 1e-9 {
		b = b.Pad(0.01)
	}
	s.bbox = b
	s.zoom = 1.0
	s.offsetX, s.offsetY = 0, 0
}

func (s *mapSurface) setViewport(wCells, hCells int) {
	if wCells > 0 {
		s.mapW = wCells
	}
	if hCells > 0 {
		s.mapH = hCells
	}
}

func (s *mapSurface) AddSource(id string, fc *geojson.FeatureCollection) {
	s.sources[id] = fc
}

func (s *mapSurface) UpdateSourceData(id string, fc *geojson.FeatureCollection) bool {
	if _, ok := s.sources[id]; !ok {
		return false
	}
	s.sources[id] = fc
	return true
}

func (s *mapSurface) RemoveSource(id string) bool {
	if _, ok := s.sources[id]; !ok {
		return false
	}
	delete(s.sources, id)
	return true
}

func (s *mapSurface) AddLayer(spec surface.LayerSpec) {
	if _, ok := s.layers[spec.ID]; !ok {
		s.order = append(s.order, spec.ID)
	}
	s.layers[spec.ID] = spec
}

func (s *mapSurface) RemoveLayer(id string) bool {
	if _, ok := s.layers[id]; !ok {
		return false
	}
	delete(s.layers, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *mapSurface) SetLayerVisibility(id string, visible bool) bool {
	spec, ok := s.layers[id]
	if !ok {
		return false
	}
	spec.Visible = visible
	s.layers[id] = spec
	return true
}

func (s *mapSurface) UpdateFeatureGeometry(sourceID, featureID string, g orb.Geometry) bool {
	fc, ok := s.sources[sourceID]
	if !ok {
		return false
	}
	for _, f := range fc.Features {
		if featureIDString(f.ID) == featureID {
			f.Geometry = g
			return true
		}
	}
	return false
}

func (s *mapSurface) QueryFeaturesAtPoint(pt orb.Point, layers []string) []surface.QueriedFeature {
	tol := s.degreesPerMicro() * queryToleranceMic
	var out []surface.QueriedFeature
	for _, layerID := range s.order {
		spec := s.layers[layerID]
		if !spec.Visible || !layerInFilter(layerID, layers) {
			continue
		}
		fc := s.sources[spec.Source]
		if fc == nil {
			continue
		}
		for _, f := range fc.Features {
			if f.Geometry == nil {
				continue
			}
			if geometryHits(f.Geometry, pt, tol) {
				out = append(out, surface.QueriedFeature{Feature: f, SourceID: spec.Source, LayerID: layerID})
			}
		}
	}
	return out
}

func (s *mapSurface) QueryFeaturesInBox(rect surface.ScreenRect, layers []string) []surface.QueriedFeature {
	// rect is screen-space: min Y is the geographic top
	min := s.Unproject(surface.ScreenPoint{X: rect.MinX, Y: rect.MaxY})
	max := s.Unproject(surface.ScreenPoint{X: rect.MaxX, Y: rect.MinY})
	box := orb.Bound{Min: min, Max: max}

	var out []surface.QueriedFeature
	for _, layerID := range s.order {
		spec := s.layers[layerID]
		if !spec.Visible || !layerInFilter(layerID, layers) {
			continue
		}
		fc := s.sources[spec.Source]
		if fc == nil {
			continue
		}
		for _, f := range fc.Features {
			if f.Geometry == nil {
				continue
			}
			if box.Intersects(f.Geometry.Bound()) {
				out = append(out, surface.QueriedFeature{Feature: f, SourceID: spec.Source, LayerID: layerID})
			}
		}
	}
	return out
}

// Project maps lon/lat to micro-pixel coordinates through the zoomed
// and panned viewport.
func (s *mapSurface) Project(pt orb.Point) surface.ScreenPoint {
	dx := s.bbox.Max[0] - s.bbox.Min[0]
	dy := s.bbox.Max[1] - s.bbox.Min[1]
	nx := (pt[0] - s.bbox.Min[0]) / dx
	ny := (pt[1] - s.bbox.Min[1]) / dy
	zx := 0.5 + (nx-0.5)*s.zoom
	zy := 0.5 + (ny-0.5)*s.zoom
	wMic := float64(s.mapW*microPerCellX - 1)
	hMic := float64(s.mapH*microPerCellY - 1)
	return surface.ScreenPoint{
		X: zx*wMic + float64(s.offsetX*microPerCellX),
		Y: (1.0-zy)*hMic + float64(s.offsetY*microPerCellY),
	}
}

func (s *mapSurface) Unproject(sp surface.ScreenPoint) orb.Point {
	dx := s.bbox.Max[0] - s.bbox.Min[0]
	dy := s.bbox.Max[1] - s.bbox.Min[1]
	wMic := float64(s.mapW*microPerCellX - 1)
	hMic := float64(s.mapH*microPerCellY - 1)
	zx := (sp.X - float64(s.offsetX*microPerCellX)) / wMic
	zy := 1.0 - (sp.Y-float64(s.offsetY*microPerCellY))/hMic
	nx := 0.5 + (zx-0.5)/s.zoom
	ny := 0.5 + (zy-0.5)/s.zoom
	return orb.Point{
		s.bbox.Min[0] + nx*dx,
		s.bbox.Min[1] + ny*dy,
	}
}

func (s *mapSurface) ViewCenter() orb.Point {
	wMic := float64(s.mapW*microPerCellX-1) / 2
	hMic := float64(s.mapH*microPerCellY-1) / 2
	return s.Unproject(surface.ScreenPoint{X: wMic, Y: hMic})
}

func (s *mapSurface) SetCursor(name string) { s.cursor = name }

func (s *mapSurface) Input() *surface.Input { return s.in }

// degreesPerMicro is the geographic span of one micro-pixel at the
// current zoom, taken on the wider axis.
func (s *mapSurface) degreesPerMicro() float64 {
	dx := (s.bbox.Max[0] - s.bbox.Min[0]) / s.zoom / float64(s.mapW*microPerCellX-1)
	dy := (s.bbox.Max[1] - s.bbox.Min[1]) / s.zoom / float64(s.mapH*microPerCellY-1)
	return math.Max(dx, dy)
}

func geometryHits(g orb.Geometry, pt orb.Point, tol float64) bool {
	switch t := g.(type) {
	case orb.Point:
		return math.Hypot(t[0]-pt[0], t[1]-pt[1]) <= tol
	case orb.Polygon:
		return planar.PolygonContains(t, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(t, pt)
	default:
		return planar.DistanceFrom(g, pt) <= tol
	}
}

func layerInFilter(id string, filter []string) bool {
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

func featureIDString(id any) string {
	if id == nil {
		return ""
	}
	if s, ok := id.(string); ok {
		return s
	}
	return fmt.Sprint(id)
}

var _ surface.Surface = (*mapSurface)(nil)
