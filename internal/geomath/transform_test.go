package geomath

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestTranslate_ShiftsEveryVertexAndKeepsInput(t *testing.T) {
	src := orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}}
	out := Translate(src, 2, -1).(orb.Polygon)
	want := orb.Polygon{orb.Ring{{2, -1}, {3, -1}, {3, 0}, {2, 0}, {2, -1}}}
	if !orb.Equal(out, want) {
		t.Fatalf("translate result %v, want %v", out, want)
	}
	// value semantics: source untouched
	if src[0][0] != (orb.Point{0, 0}) {
		t.Fatalf("translate mutated its input: %v", src)
	}
}

func TestScale_DoublesBoundAroundCenter(t *testing.T) {
	src := orb.LineString{{1, 1}, {3, 3}}
	center := orb.Point{2, 2}
	out := Scale(src, center, 2, 2).(orb.LineString)
	want := orb.LineString{{0, 0}, {4, 4}}
	if !orb.Equal(out, want) {
		t.Fatalf("scale result %v, want %v", out, want)
	}
}

func TestScale_SingleAxis(t *testing.T) {
	src := orb.Point{4, 6}
	out := Scale(src, orb.Point{2, 2}, 3, 1).(orb.Point)
	if out != (orb.Point{8, 6}) {
		t.Fatalf("x-axis scale result %v, want (8,6)", out)
	}
	out = Scale(src, orb.Point{2, 2}, 1, 0.5).(orb.Point)
	if out != (orb.Point{4, 4}) {
		t.Fatalf("y-axis scale result %v, want (4,4)", out)
	}
}

func TestMapPoints_CoversMultiGeometries(t *testing.T) {
	mp := orb.MultiPolygon{
		{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
		{orb.Ring{{5, 5}, {6, 5}, {6, 6}, {5, 5}}},
	}
	out := Translate(mp, 1, 1).(orb.MultiPolygon)
	if out[1][0][0] != (orb.Point{6, 6}) {
		t.Fatalf("multipolygon translate wrong: %v", out[1][0][0])
	}
	col := orb.Collection{orb.Point{0, 0}, orb.MultiPoint{{1, 1}, {2, 2}}}
	cout := Translate(col, -1, 0).(orb.Collection)
	if cout[0].(orb.Point) != (orb.Point{-1, 0}) {
		t.Fatalf("collection point translate wrong: %v", cout[0])
	}
	if cout[1].(orb.MultiPoint)[1] != (orb.Point{1, 2}) {
		t.Fatalf("collection multipoint translate wrong: %v", cout[1])
	}
}
