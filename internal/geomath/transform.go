package geomath

import "github.com/paulmach/orb"

// Translate returns a copy of g with every vertex shifted by (dx, dy)
// degrees. The input geometry is never mutated.
func Translate(g orb.Geometry, dx, dy float64) orb.Geometry {
	return mapPoints(g, func(p orb.Point) orb.Point {
		return orb.Point{p[0] + dx, p[1] + dy}
	})
}

// Scale returns a copy of g with every vertex scaled about center by
// factor fx on the x axis and fy on the y axis.
func Scale(g orb.Geometry, center orb.Point, fx, fy float64) orb.Geometry {
	return mapPoints(g, func(p orb.Point) orb.Point {
		return orb.Point{
			center[0] + (p[0]-center[0])*fx,
			center[1] + (p[1]-center[1])*fy,
		}
	})
}

func mapPoints(g orb.Geometry, fn func(orb.Point) orb.Point) orb.Geometry {
	switch t := g.(type) {
	case orb.Point:
		return fn(t)
	case orb.MultiPoint:
		out := make(orb.MultiPoint, len(t))
		for i, p := range t {
			out[i] = fn(p)
		}
		return out
	case orb.LineString:
		out := make(orb.LineString, len(t))
		for i, p := range t {
			out[i] = fn(p)
		}
		return out
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(t))
		for i, ls := range t {
			out[i] = mapPoints(ls, fn).(orb.LineString)
		}
		return out
	case orb.Ring:
		out := make(orb.Ring, len(t))
		for i, p := range t {
			out[i] = fn(p)
		}
		return out
	case orb.Polygon:
		out := make(orb.Polygon, len(t))
		for i, r := range t {
			out[i] = mapPoints(r, fn).(orb.Ring)
		}
		return out
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(t))
		for i, p := range t {
			out[i] = mapPoints(p, fn).(orb.Polygon)
		}
		return out
	case orb.Collection:
		out := make(orb.Collection, len(t))
		for i, child := range t {
			out[i] = mapPoints(child, fn)
		}
		return out
	case orb.Bound:
		return mapPoints(t.ToPolygon(), fn)
	default:
		return g
	}
}
