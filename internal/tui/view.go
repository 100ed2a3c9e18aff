package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"urbanview/internal/search"
)

const (
	headerHeight = 1
	footerHeight = 2
)

// layout is shared by View and the mouse handler so clicks land where things are drawn.
type layout struct {
	sugH   int
	mapX   int
	mapY   int
	mapW   int
	mapH   int
	panelW int
}

func (m Model) layout() layout {
	var l layout
	if m.search.State() == search.SuggestionsShown {
		l.sugH = len(m.search.Suggestions())
	}
	contentWidth := max(10, m.width)
	contentHeight := max(4, m.height-headerHeight-footerHeight-l.sugH)
	l.panelW = min(48, contentWidth/3)
	if l.panelW < 24 {
		l.panelW = 0
	}
	l.mapW = max(10, contentWidth-l.panelW-1)
	l.mapH = contentHeight
	l.mapY = headerHeight + l.sugH
	return l
}

// resize fits the widgets whose size is state rather than render-time.
func (m *Model) resize() {
	l := m.layout()
	m.input.Width = max(10, m.width-20)
	if l.panelW > 0 {
		m.tbl.SetColumns(polygonColumns(l.panelW - 4))
		m.tbl.SetWidth(l.panelW - 4)
		m.tbl.SetHeight(max(3, l.mapH/2-2))
	}
	m.ta.SetWidth(l.mapW)
	m.ta.SetHeight(min(l.mapH, 12))
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()
	contentWidth := max(10, m.width)

	// Header
	header := titleStyle.Render(" urbanview ") + " " + m.input.View()
	header = lipgloss.NewStyle().Width(contentWidth).MaxHeight(1).Render(header)

	parts := []string{header}
	if l.sugH > 0 {
		parts = append(parts, m.renderSuggestions(contentWidth))
	}

	var mapView string
	if m.pasteMode {
		mapView = m.ta.View()
	} else {
		mapView = m.renderMap(l.mapW, l.mapH)
	}
	mapView = lipgloss.NewStyle().Width(l.mapW).Height(l.mapH).Render(mapView)

	body := mapView
	if l.panelW > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, mapView, " ", m.renderPanel(l.panelW, l.mapH))
	}
	parts = append(parts, body)

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	coords := fmt.Sprintf("  z%d", m.vp.Zoom())
	if m.hovering {
		coords = fmt.Sprintf("  lat=%.5f lon=%.5f%s", m.hoverLat, m.hoverLon, coords)
	}
	coords = dimStyle.Render(coords + "  ")
	spacerW := max(0, contentWidth-lipgloss.Width(status)-lipgloss.Width(coords))
	line1 := lipgloss.JoinHorizontal(lipgloss.Bottom, status, strings.Repeat(" ", spacerW), coords)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinVertical(lipgloss.Left, line1, help))
	parts = append(parts, footer)

	ui := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderSuggestions(width int) string {
	sugs := m.search.Suggestions()
	lines := make([]string, len(sugs))
	for i, s := range sugs {
		text := truncate(s.DisplayName, width-4)
		if i == m.pick {
			lines[i] = pickStyle.Render(" › " + text)
		} else {
			lines[i] = "   " + text
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPanel(w, h int) string {
	box := boxStyle
	if m.focus == focusPolygons {
		box = focusStyle
	}
	title := titleStyle.Render(fmt.Sprintf("Polygons (%d)", m.store.Len()))
	tbl := m.tbl.View()
	used := lipgloss.Height(title) + lipgloss.Height(tbl) + 2
	preview := lipgloss.NewStyle().Width(w - 4).MaxHeight(max(1, h-used-1)).Render(m.polygonPreview())
	inner := lipgloss.JoinVertical(lipgloss.Left, title, tbl, "", preview)
	return box.Width(w - 2).Height(h - 2).Render(inner)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	var keys []string
	switch m.focus {
	case focusSearch:
		keys = []string{"type to search", "↑↓ pick", "Enter go", "Esc map", "Tab focus"}
	case focusMap:
		keys = []string{"↑↓←→ pan", "+/- zoom", "d draw", "Enter finish", "⌫ undo", "drag vertex", "p paste", "Tab focus", "q quit"}
	default:
		keys = []string{"↑↓ select", "x delete", "X delete all", "e export", "p paste", "Tab focus", "q quit"}
	}
	return dimStyle.Render("  [" + m.focus.String() + "]  " + strings.Join(keys, "  "))
}
