// Package annotate keeps the list of user-drawn polygons.
package annotate

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"urbanview/internal/geom"
	"urbanview/internal/metrics"
)

// Polygon is a handle owned by the drawing toolkit. The store never edits it; reading
// Vertices always gives the handle's current geometry.
type Polygon interface {
	ID() uuid.UUID
	Vertices() [][]geom.LatLng
}

// Store tracks polygons by identity in insertion order.
type Store struct {
	items []Polygon
}

func NewStore() *Store { return &Store{} }

// OnCreate appends p. A handle that is already stored is ignored.
func (s *Store) OnCreate(p Polygon) {
	if s.index(p.ID()) >= 0 {
		log.Debug().Str("id", p.ID().String()).Msg("polygon already tracked")
		return
	}
	s.items = append(s.items, p)
	metrics.Annotations.Set(float64(len(s.items)))
	log.Info().Str("id", p.ID().String()).Int("total", len(s.items)).Msg("polygon created")
}

// OnDelete removes every given handle; unknown ones are skipped.
func (s *Store) OnDelete(ps ...Polygon) {
	for _, p := range ps {
		i := s.index(p.ID())
		if i < 0 {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		log.Info().Str("id", p.ID().String()).Int("total", len(s.items)).Msg("polygon deleted")
	}
	metrics.Annotations.Set(float64(len(s.items)))
}

// List returns the polygons in creation order.
func (s *Store) List() []Polygon { return append([]Polygon(nil), s.items...) }

func (s *Store) Len() int { return len(s.items) }

func (s *Store) Get(id uuid.UUID) (Polygon, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return nil, false
}

// Rings snapshots the geometry of every polygon, in List order.
func (s *Store) Rings() [][][]geom.LatLng {
	out := make([][][]geom.LatLng, len(s.items))
	for i, p := range s.items {
		out[i] = p.Vertices()
	}
	return out
}

func (s *Store) index(id uuid.UUID) int {
	for i, p := range s.items {
		if p.ID() == id {
			return i
		}
	}
	return -1
}
