package selection

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geoedit/internal/surface/surfacetest"
)

func triangle(id string, lon, lat float64) *geojson.Feature {
	f := geojson.NewFeature(orb.Polygon{orb.Ring{
		{lon, lat},
		{lon + 0.02, lat},
		{lon + 0.01, lat + 0.02},
		{lon, lat},
	}})
	f.ID = id
	return f
}

func TestSelect_AtMostOneCurrent(t *testing.T) {
	s := NewStore(surfacetest.New(), Options{})

	f1 := triangle("f1", 0, 0)
	f2 := triangle("f2", 1, 1)
	s.Select(f1, "src", "layer", true)
	s.Select(f2, "src", "layer", true)

	sel := s.Selection()
	if len(sel) != 2 {
		t.Fatalf("selection size %d, want 2", len(sel))
	}
	var currents int
	for _, v := range sel {
		if v.Current {
			currents++
			if v.ID != "f2" {
				t.Fatalf("current is %s, want f2", v.ID)
			}
		}
	}
	if currents != 1 {
		t.Fatalf("%d current entries, want 1", currents)
	}

	// bounds cover both features
	b := s.Bounds()
	if b == nil {
		t.Fatal("bounds nil with two features selected")
	}
	if !b.BBox.Contains(orb.Point{0.01, 0.01}) || !b.BBox.Contains(orb.Point{1.01, 1.01}) {
		t.Fatalf("bounds %v do not cover both features", b.BBox)
	}
}

func TestSelect_WithoutCurrentLeavesFlagsAlone(t *testing.T) {
	s := NewStore(surfacetest.New(), Options{})
	s.Select(triangle("f1", 0, 0), "src", "layer", true)
	s.Select(triangle("f2", 1, 1), "src", "layer", false)

	sel := s.Selection()
	if !sel[0].Current || sel[1].Current {
		t.Fatalf("current flags wrong: %v %v", sel[0].Current, sel[1].Current)
	}
}

func TestBounds_NilIffEmpty(t *testing.T) {
	s := NewStore(surfacetest.New(), Options{})
	if s.Bounds() != nil {
		t.Fatal("bounds must start nil")
	}
	s.Select(triangle("f1", 0, 0), "src", "layer", true)
	if s.Bounds() == nil {
		t.Fatal("bounds nil with a selection present")
	}
	if !s.Deselect("f1") {
		t.Fatal("deselect of selected id failed")
	}
	if s.Bounds() != nil {
		t.Fatal("bounds must return to nil when the selection empties")
	}
}

func TestEvents_SpecificThenChange(t *testing.T) {
	s := NewStore(surfacetest.New(), Options{})
	var seq []EventType
	s.On(EventSelect, func(ev Event) { seq = append(seq, ev.Type) })
	s.On(EventDeselect, func(ev Event) { seq = append(seq, ev.Type) })
	s.On(EventClear, func(ev Event) { seq = append(seq, ev.Type) })
	s.On(EventChange, func(ev Event) { seq = append(seq, ev.Type) })

	s.Select(triangle("f1", 0, 0), "src", "layer", true)
	s.Deselect("f1")
	s.Select(triangle("f2", 0, 0), "src", "layer", true)
	s.Clear()

	want := []EventType{
		EventSelect, EventChange,
		EventDeselect, EventChange,
		EventSelect, EventChange,
		EventClear, EventChange,
	}
	if len(seq) != len(want) {
		t.Fatalf("event sequence %v, want %v", seq, want)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("event sequence %v, want %v", seq, want)
		}
	}
}

func TestClear_OnEmptyStoreEmitsNothing(t *testing.T) {
	s := NewStore(surfacetest.New(), Options{})
	var fired int
	s.On(EventClear, func(Event) { fired++ })
	s.On(EventChange, func(Event) { fired++ })
	s.Clear()
	if fired != 0 {
		t.Fatalf("clear on empty store fired %d events, want 0", fired)
	}
}

func TestDeselect_UnknownIDIsFalseAndSilent(t *testing.T) {
	s := NewStore(surfacetest.New(), Options{})
	var fired int
	s.On(EventDeselect, func(Event) { fired++ })
	if s.Deselect("ghost") {
		t.Fatal("deselect of unknown id must return false")
	}
	if fired != 0 {
		t.Fatalf("deselect of unknown id fired %d events", fired)
	}
}

func TestFeatureID_FallbackIsStableAndUnique(t *testing.T) {
	f := geojson.NewFeature(orb.Point{1, 2})
	id1 := FeatureID(f)
	if id1 == "" {
		t.Fatal("fallback id empty")
	}
	if id2 := FeatureID(f); id2 != id1 {
		t.Fatalf("fallback id not stable: %s vs %s", id1, id2)
	}
	other := geojson.NewFeature(orb.Point{1, 2})
	if FeatureID(other) == id1 {
		t.Fatal("fallback ids collide across features")
	}
	numbered := geojson.NewFeature(orb.Point{0, 0})
	numbered.ID = 7.0
	if FeatureID(numbered) != "7" {
		t.Fatalf("numeric id rendered as %q", FeatureID(numbered))
	}
}

func TestSetGeometry_RecomputesBoundsAndEmitsChange(t *testing.T) {
	s := NewStore(surfacetest.New(), Options{})
	s.Select(triangle("f1", 0, 0), "src", "layer", true)
	before := s.Bounds().BBox

	var changes int
	s.On(EventChange, func(Event) { changes++ })

	moved := triangle("f1", 5, 5).Geometry
	if !s.SetGeometry("f1", moved) {
		t.Fatal("set geometry on selected id failed")
	}
	if changes != 1 {
		t.Fatalf("change fired %d times, want 1", changes)
	}
	after := s.Bounds().BBox
	if after == before {
		t.Fatal("bounds not recomputed after geometry change")
	}
	if s.SetGeometry("ghost", moved) {
		t.Fatal("set geometry on unknown id must return false")
	}
}
