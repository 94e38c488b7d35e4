package tools

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"geoedit/internal/geomath"
	"geoedit/internal/handles"
	"geoedit/internal/selection"
	"geoedit/internal/surface"
)

// TransformToolID is the registry id of the built-in transform tool.
const TransformToolID = "transform"

// Overlay sources owned by the transform tool. Exported so renderers
// can style them.
const (
	PreviewSourceID = "edit-preview"
	DragBoxSourceID = "edit-dragbox"
)

// handle roles, stored in the session keyed by handle id
type handleRole struct {
	corner string // "nw" "ne" "sw" "se", "" for edges and move
	edge   string // "n" "s" "e" "w", "" for corners and move
	move   bool
}

// TransformOptions configures a TransformTool. Zero values select the
// defaults.
type TransformOptions struct {
	// Layers restricts click/box selection to these layer ids. Empty
	// means every layer except the tool's own overlays.
	Layers []string
	// MultiSelect keeps the existing selection when clicking or
	// box-selecting; off, each gesture replaces the selection.
	MultiSelect bool
	// MinBoxArea is the screen-area threshold below which a released
	// drag box is treated as a click. Defaults to 16.
	MinBoxArea float64
	// NoMoveHandle suppresses the center move handle.
	NoMoveHandle bool
	Logger       zerolog.Logger
}

type boxSession struct {
	anchor orb.Point
}

type transformSession struct {
	role         handleRole
	proportional bool            // the dragged handle's constraint
	start        orb.Point       // handle position at dragstart
	bounds       geomath.Bounds  // selection bounds at dragstart
	originals    []sessionTarget // geometry snapshots to transform from
}

type sessionTarget struct {
	id       string
	sourceID string
	geometry orb.Geometry
}

// TransformTool is the built-in selection and transform tool: click or
// rubber-band to select, then drag bound handles to move or resize the
// selected geometry. Commits write through the surface back to the
// owning sources.
type TransformTool struct {
	Base

	surf    surface.Surface
	hs      *handles.Store
	sel     *selection.Store
	opts    TransformOptions
	log     zerolog.Logger
	ownSrcs map[string]bool

	roles map[string]handleRole

	box     *boxSession
	session *transformSession

	// set when a drag just ended so the synthesized click that follows
	// the pointer-up does not clear the fresh selection
	suppressClick bool

	selDisposer func()
}

// NewTransformTool wires the tool to its collaborators. The tool does
// not consume input until a registry activates it.
func NewTransformTool(surf surface.Surface, hs *handles.Store, sel *selection.Store, opts TransformOptions) *TransformTool {
	if opts.MinBoxArea <= 0 {
		opts.MinBoxArea = 16
	}
	t := &TransformTool{
		Base: NewBase(TransformToolID),
		surf: surf,
		hs:   hs,
		sel:  sel,
		opts: opts,
		log:  opts.Logger.With().Str("component", "transform").Logger(),
		ownSrcs: map[string]bool{
			hs.SourceID():   true,
			sel.SourceID():  true,
			PreviewSourceID: true,
			DragBoxSourceID: true,
		},
		roles: make(map[string]handleRole),
	}
	t.Attach(t)
	surf.AddSource(PreviewSourceID, geojson.NewFeatureCollection())
	surf.AddLayer(surface.LayerSpec{ID: PreviewSourceID, Source: PreviewSourceID, Type: surface.LayerLine, Visible: true})
	surf.AddSource(DragBoxSourceID, geojson.NewFeatureCollection())
	surf.AddLayer(surface.LayerSpec{ID: DragBoxSourceID, Source: DragBoxSourceID, Type: surface.LayerLine, Visible: true})
	return t
}

// Activate starts listening for selection changes so bound handles
// track the selection.
func (t *TransformTool) Activate() {
	if t.State() == StateActive {
		return
	}
	t.Base.Activate()
	d := t.sel.On(selection.EventChange, func(selection.Event) {
		if t.session == nil {
			t.regenerateHandles()
		}
	})
	t.selDisposer = d
	t.regenerateHandles()
}

// Deactivate discards any in-progress gesture and clears the tool's
// handles and overlays. The selection itself survives deactivation.
func (t *TransformTool) Deactivate() {
	if t.State() == StateInactive {
		return
	}
	if t.selDisposer != nil {
		t.selDisposer()
		t.selDisposer = nil
	}
	t.box = nil
	t.session = nil
	t.suppressClick = false
	t.hs.Clear()
	t.roles = make(map[string]handleRole)
	t.clearOverlay(PreviewSourceID)
	t.clearOverlay(DragBoxSourceID)
	t.surf.SetCursor(surface.CursorDefault)
	t.Base.Deactivate()
}

// OnClick selects every feature stacked under the pointer, or clears
// the selection on a miss (unless multi-select is on). The last hit
// becomes current; in multi-select mode nothing is promoted.
func (t *TransformTool) OnClick(ev surface.PointerEvent) {
	if t.suppressClick {
		t.suppressClick = false
		return
	}
	hits := t.queryPoint(ev.Point)
	if len(hits) == 0 {
		if !t.opts.MultiSelect {
			t.sel.Clear()
		}
		return
	}
	if !t.opts.MultiSelect {
		t.sel.Clear()
	}
	for _, hit := range hits {
		t.sel.Select(hit.Feature, hit.SourceID, hit.LayerID, !t.opts.MultiSelect)
	}
}

// OnPointerDown anchors a rubber-band box when the press lands on empty
// map. Presses on a handle are the handle store's business.
func (t *TransformTool) OnPointerDown(ev surface.PointerEvent) {
	if t.session != nil {
		return
	}
	if _, onHandle := t.hs.HitTest(ev.Screen); onHandle {
		return
	}
	t.box = &boxSession{anchor: ev.Point}
}

// OnPointerMove redraws the rubber-band outline while a box drag is in
// progress.
func (t *TransformTool) OnPointerMove(ev surface.PointerEvent) {
	if t.box == nil {
		return
	}
	b := orb.MultiPoint{t.box.anchor, ev.Point}.Bound()
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(geomath.BBoxPolygon(b))
	f.ID = "drag-box"
	fc.Append(f)
	t.surf.UpdateSourceData(DragBoxSourceID, fc)
}

// OnPointerUp finishes a rubber-band drag: a box under the area
// threshold degrades to a click, a larger one selects everything it
// covers.
func (t *TransformTool) OnPointerUp(ev surface.PointerEvent) {
	if t.box == nil {
		return
	}
	anchor := t.box.anchor
	t.box = nil
	t.clearOverlay(DragBoxSourceID)

	rect := screenRect(t.surf.Project(anchor), t.surf.Project(ev.Point))
	if rect.Area() < t.opts.MinBoxArea {
		return
	}
	hits := t.filterHits(t.surf.QueryFeaturesInBox(rect, t.opts.Layers))
	if !t.opts.MultiSelect {
		t.sel.Clear()
	}
	for _, h := range hits {
		t.sel.Select(h.Feature, h.SourceID, h.LayerID, !t.opts.MultiSelect)
	}
	t.suppressClick = true
}

// OnKeyDown cancels the gesture in progress on escape.
func (t *TransformTool) OnKeyDown(ev surface.KeyEvent) {
	if ev.Key != "esc" && ev.Key != "escape" {
		return
	}
	t.cancel()
}

// OnHandle drives the transform session from handle drag events.
func (t *TransformTool) OnHandle(ev handles.Event) {
	switch ev.Type {
	case handles.EventDragStart:
		t.beginTransform(ev)
	case handles.EventDrag:
		t.updateTransform(ev)
	case handles.EventDragEnd:
		t.commitTransform(ev)
	case handles.EventMouseOver:
		// handle store already set the handle's cursor
	}
}

func (t *TransformTool) beginTransform(ev handles.Event) {
	b := t.sel.Bounds()
	if b == nil {
		return
	}
	role, ok := t.roles[ev.Handle.ID]
	if !ok {
		return
	}
	sess := &transformSession{
		role:         role,
		proportional: ev.Handle.Constraints.Proportional,
		start:        ev.Handle.Position,
		bounds:       *b,
	}
	for _, sf := range t.sel.Selection() {
		if sf.Feature == nil || sf.Feature.Geometry == nil {
			continue
		}
		sess.originals = append(sess.originals, sessionTarget{
			id:       sf.ID,
			sourceID: sf.SourceID,
			geometry: orb.Clone(sf.Feature.Geometry),
		})
	}
	if len(sess.originals) == 0 {
		return
	}
	t.session = sess
	t.surf.SetCursor(roleCursor(role))
	t.Emit(EventStart)
}

func (t *TransformTool) updateTransform(ev handles.Event) {
	if t.session == nil {
		return
	}
	fc := geojson.NewFeatureCollection()
	for _, tgt := range t.session.originals {
		g := t.transformed(tgt.geometry, ev.Position)
		f := geojson.NewFeature(g)
		f.ID = "preview-" + tgt.id
		fc.Append(f)
	}
	t.surf.UpdateSourceData(PreviewSourceID, fc)
	t.Emit(EventUpdate)
}

func (t *TransformTool) commitTransform(ev handles.Event) {
	sess := t.session
	if sess == nil {
		return
	}
	t.session = nil
	t.clearOverlay(PreviewSourceID)

	for _, tgt := range sess.originals {
		g := t.transformedFrom(sess, tgt.geometry, ev.Position)
		t.surf.UpdateFeatureGeometry(tgt.sourceID, tgt.id, g)
		t.sel.SetGeometry(tgt.id, g)
	}
	t.suppressClick = true
	t.surf.SetCursor(surface.CursorDefault)
	t.regenerateHandles()
	t.log.Debug().Int("features", len(sess.originals)).Msg("transform committed")
	t.Emit(EventComplete)
}

// cancel abandons whatever gesture is in progress. With nothing in
// progress it is silent.
func (t *TransformTool) cancel() {
	busy := t.box != nil || t.session != nil
	t.box = nil
	t.session = nil
	t.clearOverlay(DragBoxSourceID)
	t.clearOverlay(PreviewSourceID)
	if busy {
		t.surf.SetCursor(surface.CursorDefault)
		t.regenerateHandles()
		t.Emit(EventCancel)
	}
}

// transformed applies the active session's transform to a start-of-drag
// geometry snapshot, given the handle's current position.
func (t *TransformTool) transformed(g orb.Geometry, cur orb.Point) orb.Geometry {
	return t.transformedFrom(t.session, g, cur)
}

func (t *TransformTool) transformedFrom(sess *transformSession, g orb.Geometry, cur orb.Point) orb.Geometry {
	if sess.role.move {
		dx := cur[0] - sess.start[0]
		dy := cur[1] - sess.start[1]
		return geomath.Translate(g, dx, dy)
	}
	fx, fy := scaleFactors(sess, cur)
	return geomath.Scale(g, sess.bounds.Center, fx, fy)
}

// scaleFactors derives per-axis scale factors from how far the handle
// moved relative to the bounds center. Edge handles scale one axis;
// corner handles with the proportional constraint scale both by the
// Euclidean distance ratio.
func scaleFactors(sess *transformSession, cur orb.Point) (fx, fy float64) {
	c := sess.bounds.Center
	fx, fy = 1, 1
	switch {
	case sess.role.edge == "e" || sess.role.edge == "w":
		fx = axisFactor(cur[0], sess.start[0], c[0])
	case sess.role.edge == "n" || sess.role.edge == "s":
		fy = axisFactor(cur[1], sess.start[1], c[1])
	default: // corner
		if sess.proportional {
			ds := math.Hypot(sess.start[0]-c[0], sess.start[1]-c[1])
			dc := math.Hypot(cur[0]-c[0], cur[1]-c[1])
			f := 1.0
			if ds > 1e-12 {
				f = dc / ds
			}
			fx, fy = f, f
		} else {
			fx = axisFactor(cur[0], sess.start[0], c[0])
			fy = axisFactor(cur[1], sess.start[1], c[1])
		}
	}
	return fx, fy
}

// axisFactor is (cur-center)/(start-center) with a guard for handles
// that started on the center line.
func axisFactor(cur, start, center float64) float64 {
	d := start - center
	if math.Abs(d) < 1e-12 {
		return 1
	}
	return (cur - center) / d
}

// regenerateHandles rebuilds the bound handle set from the current
// selection bounds: square resize handles on the corners, circle
// resize handles on the edge midpoints, and a circle move handle at
// the center.
func (t *TransformTool) regenerateHandles() {
	t.hs.Clear()
	t.roles = make(map[string]handleRole)

	b := t.sel.Bounds()
	if b == nil {
		return
	}
	minX, minY := b.BBox.Min[0], b.BBox.Min[1]
	maxX, maxY := b.BBox.Max[0], b.BBox.Max[1]
	midX, midY := b.Center[0], b.Center[1]

	var hs []handles.Handle
	add := func(h handles.Handle, role handleRole) {
		hs = append(hs, h)
		t.roles[h.ID] = role
	}

	corner := func(x, y float64, name, cursor string) {
		h := t.hs.Create(handles.KindResize, handles.ShapeSquare, orb.Point{x, y})
		h.Cursor = cursor
		add(h, handleRole{corner: name})
	}
	corner(minX, maxY, "nw", surface.CursorResizeNWSE)
	corner(maxX, maxY, "ne", surface.CursorResizeNESW)
	corner(minX, minY, "sw", surface.CursorResizeNESW)
	corner(maxX, minY, "se", surface.CursorResizeNWSE)

	edge := func(x, y float64, name, cursor string, lock handles.Axis) {
		h := t.hs.Create(handles.KindResize, handles.ShapeCircle, orb.Point{x, y})
		h.Cursor = cursor
		h.Constraints = handles.Constraints{LockAxis: lock}
		add(h, handleRole{edge: name})
	}
	edge(midX, maxY, "n", surface.CursorResizeNS, handles.AxisX)
	edge(midX, minY, "s", surface.CursorResizeNS, handles.AxisX)
	edge(maxX, midY, "e", surface.CursorResizeEW, handles.AxisY)
	edge(minX, midY, "w", surface.CursorResizeEW, handles.AxisY)

	if !t.opts.NoMoveHandle {
		h := t.hs.Create(handles.KindMove, handles.ShapeCircle, orb.Point{midX, midY})
		h.Constraints = handles.Constraints{}
		add(h, handleRole{move: true})
	}
	t.hs.AddAll(hs)
}

// RoleOf reports the bound-handle role ("nw", "n", "move", ...) of a
// handle owned by this tool.
func (t *TransformTool) RoleOf(handleID string) (string, bool) {
	r, ok := t.roles[handleID]
	if !ok {
		return "", false
	}
	switch {
	case r.move:
		return "move", true
	case r.corner != "":
		return r.corner, true
	default:
		return r.edge, true
	}
}

func roleCursor(r handleRole) string {
	switch {
	case r.move:
		return surface.CursorMove
	case r.corner == "nw" || r.corner == "se":
		return surface.CursorResizeNWSE
	case r.corner == "ne" || r.corner == "sw":
		return surface.CursorResizeNESW
	case r.edge == "n" || r.edge == "s":
		return surface.CursorResizeNS
	default:
		return surface.CursorResizeEW
	}
}

func (t *TransformTool) queryPoint(pt orb.Point) []surface.QueriedFeature {
	return t.filterHits(t.surf.QueryFeaturesAtPoint(pt, t.opts.Layers))
}

// filterHits drops hits from the tool's own overlay sources so the
// selection outline and handles can never be selected.
func (t *TransformTool) filterHits(in []surface.QueriedFeature) []surface.QueriedFeature {
	out := in[:0]
	for _, h := range in {
		if t.ownSrcs[h.SourceID] {
			continue
		}
		out = append(out, h)
	}
	return out
}

func (t *TransformTool) clearOverlay(sourceID string) {
	t.surf.UpdateSourceData(sourceID, geojson.NewFeatureCollection())
}

func screenRect(a, b surface.ScreenPoint) surface.ScreenRect {
	return surface.ScreenRect{
		MinX: math.Min(a.X, b.X),
		MinY: math.Min(a.Y, b.Y),
		MaxX: math.Max(a.X, b.X),
		MaxY: math.Max(a.Y, b.Y),
	}
}
