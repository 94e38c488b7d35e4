package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geoedit/internal/surface"
	"geoedit/internal/tools"
)

// glyph overlay entry for handle layers: one shaped rune per cell
type cellGlyph struct {
	x, y  int
	ch    rune
	color string
}

var handleGlyphs = map[string]rune{
	"square":   '■',
	"circle":   '●',
	"diamond":  '◆',
	"triangle": '▲',
}

// overlayColors styles the editing overlays; data layers render in the
// default foreground.
var overlayColors = map[string]string{
	"edit-selection":      selectionColor,
	tools.PreviewSourceID: previewColor,
	tools.DragBoxSourceID: dragBoxColor,
}

// renderMap paints the layer stack bottom-up into a braille canvas and
// composites handle glyphs on top.
func (m Model) renderMap(w, h int) string {
	br := newBrailleBuf(w, h)
	var glyphs []cellGlyph

	for _, layerID := range m.surf.order {
		spec := m.surf.layers[layerID]
		if !spec.Visible {
			continue
		}
		fc := m.surf.sources[spec.Source]
		if fc == nil {
			continue
		}
		color := overlayColors[spec.Source]
		switch spec.Type {
		case surface.LayerFill:
			for _, f := range fc.Features {
				m.fillGeometry(br, f.Geometry, color)
			}
		case surface.LayerLine:
			for _, f := range fc.Features {
				m.strokeGeometry(br, f.Geometry, color)
			}
		case surface.LayerPoint:
			for _, f := range fc.Features {
				m.dotGeometry(br, f.Geometry, color)
			}
		case surface.LayerHandle:
			glyphs = append(glyphs, m.handleGlyphsFor(fc)...)
		}
	}

	lines := br.toLines()
	// pad rows to the full map width so glyph splicing is stable
	for y := range lines {
		if n := w - lipgloss.Width(lines[y]); n > 0 {
			lines[y] += strings.Repeat(" ", n)
		}
	}
	for _, g := range glyphs {
		if g.y < 0 || g.y >= len(lines) || g.x < 0 || g.x >= w {
			continue
		}
		styled := lipgloss.NewStyle().Foreground(lipgloss.Color(g.color)).Render(string(g.ch))
		lines[g.y] = spliceCell(lines[g.y], g.x, styled)
	}
	return strings.Join(lines, "\n")
}

// spliceCell replaces the cell at column x of a (possibly styled) row.
func spliceCell(row string, x int, repl string) string {
	// rows only carry ANSI sequences around single cells, so cut on
	// display width
	pre := truncateCells(row, x)
	post := trimCells(row, x+1)
	return pre + repl + post
}

func truncateCells(s string, n int) string {
	w := 0
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		if inEsc {
			b.WriteRune(r)
			if r == 'm' {
				inEsc = false
			}
			continue
		}
		if r == 0x1b {
			inEsc = true
			b.WriteRune(r)
			continue
		}
		if w >= n {
			break
		}
		b.WriteRune(r)
		w++
	}
	return b.String()
}

func trimCells(s string, n int) string {
	w := 0
	inEsc := false
	for i, r := range s {
		if inEsc {
			if r == 'm' {
				inEsc = false
			}
			continue
		}
		if r == 0x1b {
			inEsc = true
			continue
		}
		if w == n {
			return s[i:]
		}
		w++
	}
	return ""
}

func (m Model) projectMicro(pt orb.Point) (int, int) {
	sp := m.surf.Project(pt)
	return int(sp.X), int(sp.Y)
}

// dotGeometry plots every vertex of the geometry as a micro-pixel.
func (m Model) dotGeometry(br *brailleBuf, g orb.Geometry, color string) {
	switch t := g.(type) {
	case orb.Point:
		x, y := m.projectMicro(t)
		br.setPixel(x, y, color)
	case orb.MultiPoint:
		for _, p := range t {
			x, y := m.projectMicro(p)
			br.setPixel(x, y, color)
		}
	case orb.Collection:
		for _, sub := range t {
			m.dotGeometry(br, sub, color)
		}
	}
}

// strokeGeometry draws line strings and ring outlines.
func (m Model) strokeGeometry(br *brailleBuf, g orb.Geometry, color string) {
	switch t := g.(type) {
	case orb.LineString:
		m.strokePath(br, t, false, color)
	case orb.MultiLineString:
		for _, ls := range t {
			m.strokePath(br, ls, false, color)
		}
	case orb.Ring:
		m.strokePath(br, orb.LineString(t), true, color)
	case orb.Polygon:
		for _, ring := range t {
			m.strokePath(br, orb.LineString(ring), true, color)
		}
	case orb.MultiPolygon:
		for _, poly := range t {
			for _, ring := range poly {
				m.strokePath(br, orb.LineString(ring), true, color)
			}
		}
	case orb.Collection:
		for _, sub := range t {
			m.strokeGeometry(br, sub, color)
		}
	case orb.Point, orb.MultiPoint:
		m.dotGeometry(br, g, color)
	}
}

func (m Model) strokePath(br *brailleBuf, path orb.LineString, closed bool, color string) {
	if len(path) < 2 {
		return
	}
	prevX, prevY := m.projectMicro(path[0])
	firstX, firstY := prevX, prevY
	for _, p := range path[1:] {
		x, y := m.projectMicro(p)
		br.drawLineMicro(prevX, prevY, x, y, color)
		prevX, prevY = x, y
	}
	if closed {
		br.drawLineMicro(prevX, prevY, firstX, firstY, color)
	}
}

// fillGeometry fills polygons with an even-odd scanline over the outer
// ring on the microgrid, then strokes the edges for crisp boundaries.
func (m Model) fillGeometry(br *brailleBuf, g orb.Geometry, color string) {
	switch t := g.(type) {
	case orb.Polygon:
		m.fillPolygon(br, t, color)
	case orb.MultiPolygon:
		for _, poly := range t {
			m.fillPolygon(br, poly, color)
		}
	case orb.Collection:
		for _, sub := range t {
			m.fillGeometry(br, sub, color)
		}
	default:
		m.strokeGeometry(br, g, color)
	}
}

func (m Model) fillPolygon(br *brailleBuf, poly orb.Polygon, color string) {
	if len(poly) == 0 || len(poly[0]) < 3 {
		return
	}
	outer := make([][2]int, 0, len(poly[0]))
	for _, p := range poly[0] {
		x, y := m.projectMicro(p)
		outer = append(outer, [2]int{x, y})
	}

	hMic := br.h * microPerCellY
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for i := 0; i < len(outer); i++ {
			a := outer[i]
			b := outer[(i+1)%len(outer)]
			if a[1] == b[1] { // horizontal edge: skip
				continue
			}
			if (yMic >= a[1] && yMic < b[1]) || (yMic >= b[1] && yMic < a[1]) {
				t := float64(yMic-a[1]) / float64(b[1]-a[1])
				xs = append(xs, int(float64(a[0])+t*float64(b[0]-a[0])))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0, x1 := xs[i], xs[i+1]
			if x0 > x1 {
				x0, x1 = x1, x0
			}
			for x := max(0, x0); x <= x1; x++ {
				br.setPixel(x, yMic, color)
			}
		}
	}
	m.strokeGeometry(br, poly, color)
}

// handleGlyphsFor converts the handle source's point features to shaped
// colored glyphs at their cell positions.
func (m Model) handleGlyphsFor(fc *geojson.FeatureCollection) []cellGlyph {
	var out []cellGlyph
	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		x, y := m.projectMicro(pt)
		ch, ok := handleGlyphs[f.Properties.MustString("shape", "square")]
		if !ok {
			ch = '■'
		}
		color := f.Properties.MustString("color", "#FFFFFF")
		out = append(out, cellGlyph{x: x / microPerCellX, y: y / microPerCellY, ch: ch, color: color})
	}
	return out
}
