package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"geoedit/internal/surface"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	sidebarW, _, mapW, mapH, _, _ := m.layout()
	contentW := max(10, m.width)

	header := titleStyle.Render(" geoedit ─ terminal geometry editor ")
	header = lipgloss.NewStyle().Width(contentW).Render(header)

	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarW).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, contentW-6)
		}
		maxW := min(mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapW, mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.pasteMode:
		m.ta.SetWidth(mapW)
		m.ta.SetHeight(min(mapH, 12))
		mapView = lipgloss.NewStyle().Width(mapW).Height(mapH).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(mapW).Height(mapH).Render(m.renderMap(mapW, mapH))
	}

	var body string
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	} else {
		body = mapView
	}

	status := dimStyle.Render(" " + m.status + " ")
	help := m.renderHelp()
	right := m.footerRight(contentW, lipgloss.Width(status)+lipgloss.Width(help))
	footer := lipgloss.NewStyle().Width(contentW).Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, status, help, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentW).Height(m.height).Render(ui)
}

// footerRight shows the live editing state: selection count and the
// active cursor affordance.
func (m Model) footerRight(contentW, usedW int) string {
	parts := []string{}
	if n := len(m.ed.Selection().Selection()); n > 0 {
		parts = append(parts, fmt.Sprintf("sel=%d", n))
	}
	if c := m.surf.cursor; c != surface.CursorDefault {
		parts = append(parts, "cursor="+c)
	}
	text := ""
	if len(parts) > 0 {
		text = dimStyle.Render("  " + strings.Join(parts, "  ") + "  ")
	}
	spacerW := max(0, contentW-usedW-lipgloss.Width(text))
	return lipgloss.Place(spacerW+lipgloss.Width(text), 1, lipgloss.Right, lipgloss.Center, text)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"click select",
		"drag handles",
		"esc cancel",
		"↑↓←→ pan",
		"+/- zoom",
		"Tab files",
		"Enter open",
		"p paste",
		"a attrs",
		"i info",
		"1/2/3 layers",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
