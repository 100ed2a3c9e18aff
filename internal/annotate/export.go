package annotate

import (
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"urbanview/internal/geom"
)

// FeatureCollection renders the store as GeoJSON polygons tagged with their id.
func (s *Store) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range s.items {
		f := geojson.NewFeature(geom.ToOrbPolygon(p.Vertices()))
		f.ID = p.ID().String()
		f.Properties["id"] = p.ID().String()
		fc.Append(f)
	}
	return fc
}

func (s *Store) MarshalGeoJSON() ([]byte, error) {
	return s.FeatureCollection().MarshalJSON()
}

// WriteGeoJSON exports the store to path, replacing any existing file.
func (s *Store) WriteGeoJSON(path string) error {
	b, err := s.MarshalGeoJSON()
	if err != nil {
		return fmt.Errorf("encode annotations: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("polygons", len(s.items)).Msg("annotations exported")
	return nil
}
