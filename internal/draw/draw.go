// Package draw is the polygon drawing toolkit. It owns shape geometry: shapes are
// created, edited and deleted here and announced to the rest of the program as
// bubbletea messages.
package draw

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"urbanview/internal/geom"
)

var (
	ErrNotDrawing       = errors.New("no polygon is being drawn")
	ErrTooFewPoints     = errors.New("a polygon needs at least 3 vertices")
	ErrVertexMissing    = errors.New("vertex out of range")
	ErrNotFinite        = errors.New("coordinate is not a finite number")
	ErrSelfIntersecting = errors.New("polygon edges cannot cross")
)

// Shape is a polygon handle. Identity is the ID, not the geometry.
type Shape struct {
	id    uuid.UUID
	rings [][]geom.LatLng
}

func newShape(rings [][]geom.LatLng) *Shape {
	return &Shape{id: uuid.New(), rings: geom.CloneRings(rings)}
}

func (s *Shape) ID() uuid.UUID { return s.id }

// Vertices returns a snapshot of the current rings, outer ring first.
func (s *Shape) Vertices() [][]geom.LatLng { return geom.CloneRings(s.rings) }

// Area is the geodesic area in square meters.
func (s *Shape) Area() float64 { return geom.Area(s.rings) }

// MoveVertex edits the shape in place. A move that would make edges cross is undone.
func (s *Shape) MoveVertex(ring, i int, pt geom.LatLng) error {
	if ring < 0 || ring >= len(s.rings) || i < 0 || i >= len(s.rings[ring]) {
		return ErrVertexMissing
	}
	if !pt.Finite() {
		return ErrNotFinite
	}
	prev := s.rings[ring][i]
	s.rings[ring][i] = pt
	if geom.SelfIntersects(s.rings) {
		s.rings[ring][i] = prev
		return ErrSelfIntersecting
	}
	return nil
}

// CreatedMsg is sent when a shape is finished or pasted.
type CreatedMsg struct {
	Shape *Shape
}

// DeletedMsg is sent when shapes are removed from the map.
type DeletedMsg struct {
	Shapes []*Shape
}

// Toolkit holds the in-progress draft.
type Toolkit struct {
	drawing bool
	draft   []geom.LatLng
}

func (t *Toolkit) Begin() {
	t.drawing = true
	t.draft = nil
}

func (t *Toolkit) Drawing() bool { return t.drawing }

// Draft returns the vertices placed so far.
func (t *Toolkit) Draft() []geom.LatLng { return append([]geom.LatLng(nil), t.draft...) }

func (t *Toolkit) Add(pt geom.LatLng) error {
	if !t.drawing {
		return ErrNotDrawing
	}
	if !pt.Finite() {
		return ErrNotFinite
	}
	if n := len(t.draft); n > 0 && t.draft[n-1] == pt {
		return nil
	}
	next := append(append([]geom.LatLng(nil), t.draft...), pt)
	if geom.PathSelfIntersects(next) {
		return ErrSelfIntersecting
	}
	t.draft = next
	return nil
}

// Undo drops the last vertex; it is a no-op on an empty draft.
func (t *Toolkit) Undo() {
	if n := len(t.draft); n > 0 {
		t.draft = t.draft[:n-1]
	}
}

func (t *Toolkit) Cancel() {
	t.drawing = false
	t.draft = nil
}

// Finish closes the draft into a shape. The draft stays open on error.
func (t *Toolkit) Finish() (tea.Cmd, error) {
	if !t.drawing {
		return nil, ErrNotDrawing
	}
	if len(t.draft) < 3 {
		return nil, ErrTooFewPoints
	}
	if geom.SelfIntersects([][]geom.LatLng{t.draft}) {
		return nil, ErrSelfIntersecting
	}
	s := newShape([][]geom.LatLng{t.draft})
	t.Cancel()
	return created(s), nil
}

// FromRings creates a shape from already-known geometry, e.g. pasted WKT.
func (t *Toolkit) FromRings(rings [][]geom.LatLng) (tea.Cmd, error) {
	if len(rings) == 0 || len(rings[0]) < 3 {
		return nil, ErrTooFewPoints
	}
	for _, r := range rings {
		for _, p := range r {
			if !p.Finite() {
				return nil, ErrNotFinite
			}
		}
	}
	if geom.SelfIntersects(rings) {
		return nil, ErrSelfIntersecting
	}
	return created(newShape(rings)), nil
}

// Delete announces removal of the given shapes.
func (t *Toolkit) Delete(shapes ...*Shape) tea.Cmd {
	if len(shapes) == 0 {
		return nil
	}
	out := append([]*Shape(nil), shapes...)
	return func() tea.Msg { return DeletedMsg{Shapes: out} }
}

func created(s *Shape) tea.Cmd {
	return func() tea.Msg { return CreatedMsg{Shape: s} }
}
