// Package geomath wraps the pure geometry queries the editing core needs:
// aggregate bounds, area and perimeter over GeoJSON features. All
// measurements are geodesic (meters / square meters) via orb's geo
// functions; coordinates are plain lon/lat pairs.
package geomath

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// Bounds is a derived, read-only snapshot of a feature set.
type Bounds struct {
	BBox      orb.Bound
	Center    orb.Point
	Area      float64 // m², polygonal members only
	Perimeter float64 // m, polygon rings plus line members
}

// ComputeBounds merges the given features and returns their combined
// bounds, or nil when the set is empty or carries no geometry.
func ComputeBounds(features []*geojson.Feature) *Bounds {
	var (
		bbox  orb.Bound
		seen  bool
		area  float64
		perim float64
	)
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if !seen {
			bbox = b
			seen = true
		} else {
			bbox = bbox.Union(b)
		}
		area += Area(f.Geometry)
		perim += Perimeter(f.Geometry)
	}
	if !seen {
		return nil
	}
	return &Bounds{BBox: bbox, Center: bbox.Center(), Area: area, Perimeter: perim}
}

// Area returns the geodesic area of the polygonal parts of g in m².
// Points and lines contribute zero.
func Area(g orb.Geometry) float64 {
	switch t := g.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return math.Abs(geo.Area(t))
	case orb.Collection:
		var sum float64
		for _, child := range t {
			sum += Area(child)
		}
		return sum
	default:
		return 0
	}
}

// Perimeter returns the geodesic boundary length of g in meters: ring
// lengths for polygonal members, line lengths for line members, zero
// for points.
func Perimeter(g orb.Geometry) float64 {
	switch t := g.(type) {
	case orb.LineString, orb.MultiLineString:
		return geo.Length(t)
	case orb.Polygon:
		var sum float64
		for _, ls := range BoundaryLines(t) {
			sum += geo.Length(ls)
		}
		return sum
	case orb.MultiPolygon:
		var sum float64
		for _, p := range t {
			sum += Perimeter(p)
		}
		return sum
	case orb.Collection:
		var sum float64
		for _, child := range t {
			sum += Perimeter(child)
		}
		return sum
	default:
		return 0
	}
}

// BoundaryLines converts every ring of p into a line string.
func BoundaryLines(p orb.Polygon) []orb.LineString {
	out := make([]orb.LineString, 0, len(p))
	for _, ring := range p {
		ls := make(orb.LineString, len(ring))
		copy(ls, ring)
		out = append(out, ls)
	}
	return out
}

// BBoxPolygon returns the rectangle polygon covering b.
func BBoxPolygon(b orb.Bound) orb.Polygon {
	return b.ToPolygon()
}
