package tui

import (
	"encoding/json"
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"urbanview/internal/draw"
	"urbanview/internal/geom"
)

func polygonColumns(width int) []table.Column {
	rest := width - 3 - 8 - 4 - 12 - 8
	if rest < 10 {
		rest = 10
	}
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "id", Width: 8},
		{Title: "pts", Width: 4},
		{Title: "area", Width: 12},
		{Title: "first vertex", Width: rest},
	}
}

// refreshPolygons rebuilds the table rows from the store, keeping the cursor in range.
func (m *Model) refreshPolygons() {
	list := m.store.List()
	rows := make([]table.Row, 0, len(list))
	for i, p := range list {
		rings := p.Vertices()
		n, first := 0, "-"
		if len(rings) > 0 {
			n = len(rings[0])
			if n > 0 {
				first = fmt.Sprintf("%.5f, %.5f", rings[0][0].Lat, rings[0][0].Lon)
			}
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			p.ID().String()[:8],
			fmt.Sprintf("%d", n),
			geom.FormatArea(geom.Area(rings)),
			first,
		})
	}
	m.tbl.SetRows(rows)
	if c := m.tbl.Cursor(); c >= len(rows) {
		m.tbl.SetCursor(max(0, len(rows)-1))
	}
}

func (m Model) selectedShape() (*draw.Shape, bool) {
	list := m.store.List()
	c := m.tbl.Cursor()
	if c < 0 || c >= len(list) {
		return nil, false
	}
	s, ok := list[c].(*draw.Shape)
	return s, ok
}

// polygonPreview shows the selected polygon as its lat/lon rings and as WKT.
func (m Model) polygonPreview() string {
	s, ok := m.selectedShape()
	if !ok {
		return dimStyle.Render("no polygons yet: press d on the map to draw, p to paste")
	}
	rings := s.Vertices()
	b, err := json.Marshal(rings)
	if err != nil {
		return "error: " + err.Error()
	}
	return string(b) + "\n\n" + geom.FormatWKT(rings)
}
