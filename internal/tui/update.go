package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"urbanview/internal/annotate"
	"urbanview/internal/draw"
	"urbanview/internal/geocode"
	"urbanview/internal/geom"
	"urbanview/internal/search"
)

// hitRadius is how close (in micro-pixels) a press must be to grab a vertex.
const hitRadius = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case setQueryMsg:
		m.input.SetValue(msg.text)
		m.pick = 0
		return m, m.search.SetQuery(msg.text)
	case search.SelectedMsg:
		m.vp.Sync(msg.Selection)
		m.input.SetValue(msg.Selection.DisplayName)
		m.input.CursorEnd()
		m.pick = 0
		m.status = "→ " + msg.Selection.DisplayName
		return m, nil
	case search.NoticeMsg:
		m.status = noticeText(msg.Err)
		return m, nil
	case draw.CreatedMsg:
		m.store.OnCreate(msg.Shape)
		m.refreshPolygons()
		m.status = fmt.Sprintf("polygon added, %s (%d total)", geom.FormatArea(msg.Shape.Area()), m.store.Len())
		return m, nil
	case draw.DeletedMsg:
		ps := make([]annotate.Polygon, len(msg.Shapes))
		for i, s := range msg.Shapes {
			ps[i] = s
		}
		m.store.OnDelete(ps...)
		m.refreshPolygons()
		m.status = fmt.Sprintf("%d polygon(s) deleted", len(ps))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	}

	// debounce ticks, lookup results and cursor blinks
	cmd := m.search.Update(msg)
	if m.pick >= len(m.search.Suggestions()) {
		m.pick = 0
	}
	var icmd tea.Cmd
	m.input, icmd = m.input.Update(msg)
	return m, tea.Batch(cmd, icmd)
}

func noticeText(err error) string {
	var nf *search.NotFoundError
	var le *geocode.LookupError
	switch {
	case errors.As(err, &nf):
		return "Address not found :("
	case errors.As(err, &le):
		return "search failed: " + le.Err.Error()
	}
	return "error: " + err.Error()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.pasteMode {
		return m.pasteKey(msg)
	}
	if msg.String() == "tab" {
		m.setFocus((m.focus + 1) % 3)
		return m, nil
	}
	if msg.String() == "shift+tab" {
		m.setFocus((m.focus + 2) % 3)
		return m, nil
	}
	switch m.focus {
	case focusSearch:
		return m.searchKey(msg)
	case focusMap:
		return m.mapKey(msg)
	}
	return m.polygonsKey(msg)
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusSearch {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	if f == focusPolygons {
		m.tbl.Focus()
	} else {
		m.tbl.Blur()
	}
	m.status = "focus: " + f.String()
}

// commonKey handles the keys shared by the map and polygon panes.
func (m *Model) commonKey(key string) (tea.Cmd, bool) {
	switch key {
	case "q":
		return tea.Quit, true
	case "h":
		m.helpVisible = !m.helpVisible
		return nil, true
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		return m.ta.Focus(), true
	}
	return nil, false
}

func (m Model) searchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sugs := m.search.Suggestions()
	switch msg.String() {
	case "up":
		if m.pick > 0 {
			m.pick--
		}
		return m, nil
	case "down":
		if m.pick < len(sugs)-1 {
			m.pick++
		}
		return m, nil
	case "enter":
		if m.search.State() == search.SuggestionsShown && m.pick < len(sugs) {
			return m, m.search.SelectSuggestion(sugs[m.pick])
		}
		cmd := m.search.CommitSearch()
		if cmd != nil {
			m.status = "searching " + m.search.Query()
		}
		return m, cmd
	case "esc":
		m.setFocus(focusMap)
		return m, nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.pick = 0
		return m, tea.Batch(cmd, m.search.SetQuery(v))
	}
	return m, cmd
}

func (m Model) mapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if cmd, ok := m.commonKey(key); ok {
		return m, cmd
	}
	l := m.layout()
	stepX, stepY := float64(l.mapW*2)/4, float64(l.mapH*4)/4
	switch key {
	case "up":
		m.pan(0, -stepY)
	case "down":
		m.pan(0, stepY)
	case "left":
		m.pan(-stepX, 0)
	case "right":
		m.pan(stepX, 0)
	case "+", "=":
		m.vp.ZoomIn()
		m.status = fmt.Sprintf("zoom: %d", m.vp.Zoom())
	case "-", "_":
		m.vp.ZoomOut()
		m.status = fmt.Sprintf("zoom: %d", m.vp.Zoom())
	case "d":
		m.tk.Begin()
		m.status = "drawing: click or space to add vertices, enter to finish, esc to cancel"
	case " ":
		lat, lon := m.vp.Center()
		m.addVertex(geom.LatLng{Lat: lat, Lon: lon})
	case "enter":
		if !m.tk.Drawing() {
			return m, nil
		}
		cmd, err := m.tk.Finish()
		if err != nil {
			m.status = "draw: " + err.Error()
			return m, nil
		}
		return m, cmd
	case "backspace":
		if m.tk.Drawing() {
			m.tk.Undo()
			m.status = fmt.Sprintf("drawing: %d vertices", len(m.tk.Draft()))
		}
	case "esc":
		if m.tk.Drawing() {
			m.tk.Cancel()
			m.status = "drawing cancelled"
		}
	}
	return m, nil
}

func (m *Model) pan(dx, dy float64) {
	dLat, dLon := m.canvas.panDelta(dx, dy)
	m.vp.Pan(dLat, dLon)
}

func (m *Model) addVertex(p geom.LatLng) {
	if err := m.tk.Add(p); err != nil {
		if errors.Is(err, draw.ErrNotDrawing) {
			m.status = "press d to start a polygon"
		} else {
			m.status = "draw: " + err.Error()
		}
		return
	}
	m.status = fmt.Sprintf("drawing: %d vertices", len(m.tk.Draft()))
}

func (m Model) polygonsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if cmd, ok := m.commonKey(key); ok {
		return m, cmd
	}
	switch key {
	case "x":
		if s, ok := m.selectedShape(); ok {
			return m, m.tk.Delete(s)
		}
		return m, nil
	case "X":
		return m, m.tk.Delete(shapesOf(m.store.List())...)
	case "e":
		if err := m.store.WriteGeoJSON(m.exportPath); err != nil {
			m.status = "export error: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("exported %d polygon(s) to %s", m.store.Len(), m.exportPath)
		return m, nil
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m Model) pasteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.status = "paste cancelled"
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		polys, err := parsePasted(w)
		if err != nil {
			m.status = "paste error: " + err.Error()
			return m, nil
		}
		var cmds []tea.Cmd
		var all [][]geom.LatLng
		for _, rings := range polys {
			cmd, err := m.tk.FromRings(rings)
			if err != nil {
				m.status = "paste error: " + err.Error()
				return m, nil
			}
			cmds = append(cmds, cmd)
			all = append(all, rings...)
		}
		if bounds := geom.BoundsOf(all); bounds.Valid() {
			c := bounds.Center()
			lat, lon := m.vp.Center()
			m.vp.Pan(c.Lat-lat, c.Lon-lon)
		}
		m.pasteMode = false
		m.ta.Blur()
		log.Info().Int("polygons", len(polys)).Msg("geometry pasted")
		return m, tea.Batch(cmds...)
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// parsePasted accepts GeoJSON (anything starting with '{') or a WKT POLYGON.
func parsePasted(text string) ([][][]geom.LatLng, error) {
	if strings.HasPrefix(text, "{") {
		return geom.ParsePolygonGeoJSON([]byte(text))
	}
	rings, err := geom.ParsePolygonWKT(text)
	if err != nil {
		return nil, err
	}
	return [][][]geom.LatLng{rings}, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	l := m.layout()
	cx, cy := msg.X-l.mapX, msg.Y-l.mapY
	inside := !m.pasteMode && cx >= 0 && cx < l.mapW && cy >= 0 && cy < l.mapH

	if m.drag != nil {
		switch msg.Action {
		case tea.MouseActionMotion:
			if inside {
				p := m.canvas.cellToLatLng(cx, cy, l.mapW, l.mapH)
				if err := m.drag.shape.MoveVertex(m.drag.ring, m.drag.idx, p); err != nil {
					m.status = "draw: " + err.Error()
				}
			}
		case tea.MouseActionRelease:
			log.Debug().Str("id", m.drag.shape.ID().String()).Int("vertex", m.drag.idx).Msg("polygon edited")
			m.drag = nil
			m.refreshPolygons()
			m.status = "polygon edited"
		}
		return m
	}

	if !inside {
		m.hovering = false
		m.hoverVertex = false
		return m
	}
	m.hovering = true
	m.hoverCellX, m.hoverCellY = cx, cy
	p := m.canvas.cellToLatLng(cx, cy, l.mapW, l.mapH)
	m.hoverLat, m.hoverLon = p.Lat, p.Lon
	hit, hx, hy := m.nearestVertex(cx*2+1, cy*4+2, l.mapW, l.mapH)
	m.hoverVertex = hit != nil
	m.hoverMicX, m.hoverMicY = hx, hy

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if m.focus != focusMap {
			m.setFocus(focusMap)
		}
		switch {
		case m.tk.Drawing():
			m.addVertex(p)
		case hit != nil:
			m.drag = hit
			m.status = "dragging vertex"
		}
	}
	return m
}

// nearestVertex finds the stored polygon vertex closest to the micro-pixel (mx, my)
// within hitRadius.
func (m Model) nearestVertex(mx, my, w, h int) (*dragState, int, int) {
	best := hitRadius*hitRadius + 1
	var hit *dragState
	var bx, by int
	for _, s := range shapesOf(m.store.List()) {
		for ri, ring := range s.Vertices() {
			for i, p := range ring {
				px, py := m.canvas.toMicro(p, w, h)
				dx, dy := px-mx, py-my
				if abs(dx) > hitRadius || abs(dy) > hitRadius {
					continue
				}
				if d := dx*dx + dy*dy; d < best {
					best = d
					hit = &dragState{shape: s, ring: ri, idx: i}
					bx, by = px, py
				}
			}
		}
	}
	return hit, bx, by
}

// shapesOf keeps the toolkit-owned handles; only those can be edited or deleted.
func shapesOf(ps []annotate.Polygon) []*draw.Shape {
	out := make([]*draw.Shape, 0, len(ps))
	for _, p := range ps {
		if s, ok := p.(*draw.Shape); ok {
			out = append(out, s)
		}
	}
	return out
}
