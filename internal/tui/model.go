// Package tui is the terminal host for the editing core: it renders
// the layer stack as braille, translates bubbletea mouse and key
// messages into surface input events, and shows the selection state.
package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"geoedit/internal/editor"
	"geoedit/internal/surface"
	"geoedit/internal/tools"
)

// DataSourceID is the source the file explorer and WKT paste load into.
const DataSourceID = "data"

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	status string
	log    zerolog.Logger

	surf *mapSurface
	ed   *editor.Editor

	// File explorer
	cwd     string
	l       list.Model
	selPath string

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// attributes table
	showAttrs bool
	tbl       table.Model

	// pressed cell, for click synthesis on release
	pressX, pressY int
	pressed        bool
}

func New(log zerolog.Logger) Model {
	surf := newMapSurface()
	m := Model{
		helpVisible: true,
		status:      "geoedit ready",
		log:         log.With().Str("component", "tui").Logger(),
		surf:        surf,
	}

	// data layers first so overlays paint above them
	surf.AddSource(DataSourceID, newEmptyCollection())
	surf.AddLayer(surface.LayerSpec{ID: "data-fill", Source: DataSourceID, Type: surface.LayerFill, Visible: true})
	surf.AddLayer(surface.LayerSpec{ID: "data-line", Source: DataSourceID, Type: surface.LayerLine, Visible: true})
	surf.AddLayer(surface.LayerSpec{ID: "data-point", Source: DataSourceID, Type: surface.LayerPoint, Visible: true})

	m.ed = editor.New(surf, editor.Options{
		Logger:    log,
		Transform: transformOptions(),
	})

	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT (POINT, LINESTRING, POLYGON, ...). Enter to add; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)

	m.refreshDir()
	return m
}

// NewWithPath preloads a file's data at launch.
func NewWithPath(log zerolog.Logger, path string) Model {
	m := New(log)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func newEmptyCollection() *geojson.FeatureCollection {
	return geojson.NewFeatureCollection()
}

// transformOptions restricts selection to the data layers so the tool
// never picks up its own overlays through the renderer.
func transformOptions() tools.TransformOptions {
	return tools.TransformOptions{
		Layers: []string{"data-fill", "data-line", "data-point"},
	}
}
