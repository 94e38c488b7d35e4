package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"geoedit/internal/geomio"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		switch ext {
		case ".geojson", ".json", ".csv", ".kml", ".wkt":
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath replaces the data source with a file's features and fits
// the viewport to them. Any active selection refers to stale features,
// so it is cleared first.
func (m *Model) loadPath(p string) {
	fc, err := geomio.LoadFile(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		m.log.Warn().Err(err).Str("path", p).Msg("load failed")
		return
	}
	m.ed.Selection().Clear()
	m.selPath = p
	m.surf.UpdateSourceData(DataSourceID, fc)
	m.surf.fitTo(fc)
	m.status = fmt.Sprintf("loaded: %s  features: %d", filepath.Base(p), len(fc.Features))
	m.log.Info().Str("path", p).Int("features", len(fc.Features)).Msg("loaded")

	if m.showAttrs {
		m.refreshAttrs()
	}
}
