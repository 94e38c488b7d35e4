package editor

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geoedit/internal/surface"
	"geoedit/internal/surface/surfacetest"
	"geoedit/internal/tools"
)

func newEditor(t *testing.T) (*surfacetest.Fake, *Editor) {
	t.Helper()
	surf := surfacetest.New()

	square := geojson.NewFeature(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}})
	square.ID = "sq"
	fc := geojson.NewFeatureCollection()
	fc.Append(square)
	surf.AddSource("data", fc)
	surf.AddLayer(surface.LayerSpec{ID: "data", Source: "data", Type: surface.LayerFill, Visible: true})

	return surf, New(surf, Options{})
}

func TestNew_ActivatesTransformTool(t *testing.T) {
	_, e := newEditor(t)
	active := e.Tools().Active()
	if active == nil || active.ID() != tools.TransformToolID {
		t.Fatalf("active tool = %v", active)
	}
}

func TestEditor_EndToEndSelectAndDrag(t *testing.T) {
	surf, e := newEditor(t)

	surf.In.DispatchClick(surf.PointerAt(orb.Point{0.5, 0.5}))
	if len(e.Selection().Selection()) != 1 {
		t.Fatalf("click did not select")
	}
	if e.Handles().Len() == 0 {
		t.Fatalf("selection did not produce handles")
	}

	// drag the center move handle and verify the edit lands in the source
	surf.In.DispatchPointerDown(surf.PointerAt(orb.Point{0.5, 0.5}))
	surf.In.DispatchPointerMove(surf.PointerAt(orb.Point{1.5, 0.5}))
	surf.In.DispatchPointerUp(surf.PointerAt(orb.Point{1.5, 0.5}))

	poly := surf.Sources["data"].Features[0].Geometry.(orb.Polygon)
	if poly[0][0][0] != 1 {
		t.Fatalf("drag did not commit, first x = %v", poly[0][0][0])
	}
}

func TestClose_ReleasesInput(t *testing.T) {
	surf, e := newEditor(t)
	e.Close()

	surf.In.DispatchClick(surf.PointerAt(orb.Point{0.5, 0.5}))
	if len(e.Selection().Selection()) != 0 {
		t.Fatalf("closed editor still consuming input")
	}
}
