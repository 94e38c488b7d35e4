package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(zerolog.Nop())
	mod, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return mod.(Model)
}

func loadSquare(m Model) Model {
	f := geojson.NewFeature(orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}})
	f.ID = "sq"
	data := m.surf.sources[DataSourceID]
	data.Features = append(data.Features, f)
	m.surf.fitTo(data)
	return m
}

// mouseAt translates a geographic point to the terminal cell holding it.
func (m Model) mouseAt(pt orb.Point) (int, int) {
	_, _, _, _, originX, originY := m.layout()
	sp := m.surf.Project(pt)
	return int(sp.X)/microPerCellX + originX, int(sp.Y)/microPerCellY + originY
}

func TestModel_MouseClickSelectsFeature(t *testing.T) {
	m := loadSquare(newTestModel(t))
	x, y := m.mouseAt(orb.Point{5, 5})

	mod, _ := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = mod.(Model)
	mod, _ = m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease})
	m = mod.(Model)

	if got := len(m.ed.Selection().Selection()); got != 1 {
		t.Fatalf("selection size = %d, want 1", got)
	}
	if m.ed.Handles().Len() == 0 {
		t.Fatalf("no handles after selecting a feature")
	}
}

func TestModel_SelectionSummary(t *testing.T) {
	m := newTestModel(t)
	if got := m.selectionSummary(); got != "no selection" {
		t.Fatalf("summary = %q", got)
	}

	m = loadSquare(m)
	x, y := m.mouseAt(orb.Point{5, 5})
	mod, _ := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = mod.(Model)
	mod, _ = m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease})
	m = mod.(Model)

	if got := m.selectionSummary(); !strings.HasPrefix(got, "selected: 1") {
		t.Fatalf("summary = %q", got)
	}
}

func TestModel_LayerToggleKey(t *testing.T) {
	m := newTestModel(t)
	mod, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	m = mod.(Model)
	if m.surf.layers["data-fill"].Visible {
		t.Fatalf("fill layer still visible after toggle")
	}
	mod, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	m = mod.(Model)
	if !m.surf.layers["data-fill"].Visible {
		t.Fatalf("fill layer not restored")
	}
}

func TestModel_PasteWKT(t *testing.T) {
	m := newTestModel(t)
	mod, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = mod.(Model)
	if !m.pasteMode {
		t.Fatalf("paste mode not entered")
	}
	m.ta.SetValue("POINT (13.4 52.5)")
	mod, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mod.(Model)
	if m.pasteMode {
		t.Fatalf("paste mode not left after enter")
	}
	if got := len(m.surf.sources[DataSourceID].Features); got != 1 {
		t.Fatalf("features = %d, want 1", got)
	}
}

func TestModel_PasteWKTInvalid(t *testing.T) {
	m := newTestModel(t)
	mod, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = mod.(Model)
	m.ta.SetValue("not wkt")
	mod, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mod.(Model)
	if !strings.HasPrefix(m.status, "wkt error") {
		t.Fatalf("status = %q", m.status)
	}
	if got := len(m.surf.sources[DataSourceID].Features); got != 0 {
		t.Fatalf("invalid wkt added features")
	}
}

func TestModel_ViewRenders(t *testing.T) {
	m := loadSquare(newTestModel(t))
	out := m.View()
	if !strings.Contains(out, "geoedit") {
		t.Fatalf("view missing title")
	}
	if len(strings.Split(out, "\n")) < 10 {
		t.Fatalf("view suspiciously short")
	}
}

func TestModel_ViewRendersWithSidebar(t *testing.T) {
	m := loadSquare(newTestModel(t))
	mod, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = mod.(Model)
	if !m.showSidebar {
		t.Fatalf("tab did not open the sidebar")
	}
	if !strings.Contains(m.View(), "Files") {
		t.Fatalf("sidebar missing from view")
	}
}
