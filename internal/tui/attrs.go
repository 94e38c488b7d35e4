package tui

import (
	"encoding/json"
	"fmt"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshAttrs rebuilds the attribute table from the in-memory data
// source: one row per feature, columns the union of property keys.
func (m *Model) refreshAttrs() {
	fc := m.surf.sources[DataSourceID]
	if fc == nil || len(fc.Features) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}

	var order []string
	seen := map[string]bool{}
	for _, f := range fc.Features {
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}

	tcols := make([]table.Column, 0, len(order)+2)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	tcols = append(tcols, table.Column{Title: "geometry", Width: 12})
	for _, c := range order {
		w := len(c) + 2
		if w > 24 {
			w = 24
		}
		if w < 6 {
			w = 6
		}
		tcols = append(tcols, table.Column{Title: c, Width: w})
	}

	trows := make([]table.Row, 0, len(fc.Features))
	for i, f := range fc.Features {
		row := make([]string, 0, len(order)+2)
		row = append(row, fmt.Sprintf("%d", i+1))
		if f.Geometry != nil {
			row = append(row, f.Geometry.GeoJSONType())
		} else {
			row = append(row, "")
		}
		for _, k := range order {
			row = append(row, propertyString(f.Properties[k]))
		}
		trows = append(trows, table.Row(row))
	}

	// clear rows first so columns and rows never disagree mid-update
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

func propertyString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
