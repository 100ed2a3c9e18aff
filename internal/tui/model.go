// Package tui is the terminal front end: a search box with suggestions, a braille map
// that follows the selection, and the list of drawn polygons.
package tui

import (
	textarea "github.com/charmbracelet/bubbles/textarea"
	table "github.com/charmbracelet/bubbles/table"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"urbanview/internal/annotate"
	"urbanview/internal/draw"
	"urbanview/internal/geom"
	"urbanview/internal/search"
	"urbanview/internal/viewport"
)

type focus int

const (
	focusSearch focus = iota
	focusMap
	focusPolygons
)

func (f focus) String() string {
	switch f {
	case focusSearch:
		return "search"
	case focusMap:
		return "map"
	}
	return "polygons"
}

type Options struct {
	Search       *search.Controller
	Center       geom.LatLng
	Zoom         int
	SelectZoom   int
	ExportPath   string
	InitialQuery string
}

type Model struct {
	width  int
	height int

	helpVisible bool
	focus       focus
	status      string

	// search box and dropdown
	search *search.Controller
	input  textinput.Model
	pick   int

	// map
	canvas *mapCanvas
	vp     *viewport.Controller

	// polygons
	store      *annotate.Store
	tk         *draw.Toolkit
	tbl        table.Model
	exportPath string

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverLat    float64
	hoverLon    float64
	hoverVertex bool
	hoverMicX   int
	hoverMicY   int

	// vertex being dragged
	drag *dragState

	initialQuery string
}

type dragState struct {
	shape     *draw.Shape
	ring, idx int
}

func New(opts Options) Model {
	m := Model{
		helpVisible:  true,
		status:       "urbanview ready",
		search:       opts.Search,
		canvas:       &mapCanvas{},
		store:        annotate.NewStore(),
		tk:           &draw.Toolkit{},
		exportPath:   opts.ExportPath,
		initialQuery: opts.InitialQuery,
	}
	m.vp = viewport.New(m.canvas, opts.Center.Lat, opts.Center.Lon, opts.Zoom, opts.SelectZoom)

	m.input = textinput.New()
	m.input.Prompt = "🔍 "
	m.input.Placeholder = "Search address"
	m.input.CharLimit = 256
	m.input.Focus()

	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste a WKT POLYGON or GeoJSON here. Press Enter to add; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	m.tbl = table.New(table.WithColumns(polygonColumns(40)), table.WithHeight(8))
	return m
}

func (m Model) Init() tea.Cmd {
	if m.initialQuery == "" {
		return textinput.Blink
	}
	q := m.initialQuery
	return tea.Batch(textinput.Blink, func() tea.Msg { return setQueryMsg{text: q} })
}

// setQueryMsg fills the search box from outside the keyboard (the -q flag).
type setQueryMsg struct {
	text string
}
