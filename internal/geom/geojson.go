package geom

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ToOrbPolygon converts open lat/lon rings into a closed orb.Polygon ([lon, lat] order).
func ToOrbPolygon(rings [][]LatLng) orb.Polygon {
	poly := make(orb.Polygon, 0, len(rings))
	for _, ring := range rings {
		r := make(orb.Ring, 0, len(ring)+1)
		for _, p := range ring {
			r = append(r, orb.Point{p.Lon, p.Lat})
		}
		if len(r) > 0 && !r.Closed() {
			r = append(r, r[0])
		}
		poly = append(poly, r)
	}
	return poly
}

// FromOrbPolygon converts an orb.Polygon back into open lat/lon rings.
func FromOrbPolygon(poly orb.Polygon) [][]LatLng {
	rings := make([][]LatLng, 0, len(poly))
	for _, r := range poly {
		ring := make([]LatLng, 0, len(r))
		for _, pt := range r {
			ring = append(ring, LatLng{Lat: pt.Lat(), Lon: pt.Lon()})
		}
		rings = append(rings, openRing(ring))
	}
	return rings
}

// ParsePolygonGeoJSON extracts every Polygon (and MultiPolygon member) from a GeoJSON
// geometry, Feature or FeatureCollection.
func ParsePolygonGeoJSON(data []byte) ([][][]LatLng, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	var geoms []orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, f.Geometry)
	case "":
		return nil, errors.New("invalid geojson: missing type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, g.Geometry())
	}

	var out [][][]LatLng
	for _, g := range geoms {
		switch t := g.(type) {
		case orb.Polygon:
			out = append(out, FromOrbPolygon(t))
		case orb.MultiPolygon:
			for _, p := range t {
				out = append(out, FromOrbPolygon(p))
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no polygons found in geojson %s", head.Type)
	}
	return out, nil
}
