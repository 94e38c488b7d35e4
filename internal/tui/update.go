package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geoedit/internal/geomio"
	"geoedit/internal/surface"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// filtering list captures everything
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.pasteMode {
		return m.handlePasteKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.ed.Close()
		return m, tea.Quit
	case "esc":
		// the active tool decides whether this cancels a gesture
		m.surf.in.DispatchKeyDown(surface.KeyEvent{Key: "esc", Original: msg})
	case "1":
		m.toggleLayer("data-point")
	case "2":
		m.toggleLayer("data-line")
	case "3":
		m.toggleLayer("data-fill")
	case "+", "=":
		if m.surf.zoom < 64 {
			m.surf.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.surf.zoom)
		}
	case "-", "_":
		if m.surf.zoom > 0.05 {
			m.surf.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.surf.zoom)
		}
	case "up":
		m.surf.offsetY--
	case "down":
		m.surf.offsetY++
	case "left":
		m.surf.offsetX -= 2
	case "right":
		m.surf.offsetX += 2
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
		}
		m.applyLayout()
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.ta.Focus()
		m.status = "paste mode"
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}
	case "i":
		m.status = m.selectionSummary()
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
		}
	}

	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handlePasteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		fc, err := geomio.ParseWKT(w)
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return m, nil
		}
		data := m.surf.sources[DataSourceID]
		data.Features = append(data.Features, fc.Features...)
		m.surf.UpdateSourceData(DataSourceID, data)
		m.surf.fitTo(data)
		m.status = fmt.Sprintf("added WKT feature  features: %d", len(data.Features))
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// handleMouse translates terminal mouse messages into surface pointer
// events. A press and release on the same cell also synthesizes a
// click, matching pointer conventions the editing core expects.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	_, _, mapW, mapH, originX, originY := m.layout()
	cx := msg.X - originX
	cy := msg.Y - originY
	inMap := cx >= 0 && cx < mapW && cy >= 0 && cy < mapH
	ev := m.pointerEventAt(cx, cy, msg)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inMap {
			return
		}
		m.pressed = true
		m.pressX, m.pressY = cx, cy
		m.surf.in.DispatchPointerDown(ev)
	case tea.MouseActionMotion:
		if !inMap {
			return
		}
		m.surf.in.DispatchPointerMove(ev)
	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		sameCell := cx == m.pressX && cy == m.pressY
		m.pressed = false
		m.surf.in.DispatchPointerUp(ev)
		if sameCell && inMap {
			m.surf.in.DispatchClick(ev)
		}
	}
}

// pointerEventAt builds a pointer event for the center of a map cell.
func (m Model) pointerEventAt(cellX, cellY int, original tea.MouseMsg) surface.PointerEvent {
	sp := surface.ScreenPoint{
		X: float64(cellX*microPerCellX + 1),
		Y: float64(cellY*microPerCellY + 2),
	}
	return surface.PointerEvent{
		Point:    m.surf.Unproject(sp),
		Screen:   sp,
		Original: original,
	}
}

func (m *Model) toggleLayer(id string) {
	spec, ok := m.surf.layers[id]
	if !ok {
		return
	}
	m.surf.SetLayerVisibility(id, !spec.Visible)
	m.status = fmt.Sprintf("%s: %v", id, !spec.Visible)
}

func (m Model) selectionSummary() string {
	sel := m.ed.Selection().Selection()
	if len(sel) == 0 {
		return "no selection"
	}
	b := m.ed.Selection().Bounds()
	return fmt.Sprintf("selected: %d  bbox: [%.4f, %.4f, %.4f, %.4f]  area: %.0f m²",
		len(sel), b.BBox.Min[0], b.BBox.Min[1], b.BBox.Max[0], b.BBox.Max[1], b.Area)
}

// layout mirrors the View arrangement: header, optional sidebar, map
// column, footer.
func (m Model) layout() (sidebarW, contentH, mapW, mapH, mapOriginX, mapOriginY int) {
	if m.showSidebar {
		sidebarW = sidebarWidth
	}
	contentH = m.height - headerHeight - footerHeight
	if contentH < 4 {
		contentH = 4
	}
	contentW := max(10, m.width)
	mapW = contentW - sidebarW - 1
	if mapW < 10 {
		mapW = 10
	}
	mapH = contentH
	mapOriginX = sidebarW
	if m.showSidebar {
		mapOriginX++
	}
	mapOriginY = headerHeight
	return
}

func (m *Model) applyLayout() {
	_, contentH, mapW, mapH, _, _ := m.layout()
	m.surf.setViewport(mapW, mapH)
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, contentH-2)
	}
}
