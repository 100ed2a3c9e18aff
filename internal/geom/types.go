package geom

import "math"

// LatLng is a WGS84 coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Finite reports whether both components are usable numbers.
func (p LatLng) Finite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) && !math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0)
}

// BBox is a lon/lat bounding box (X = lon, Y = lat).
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64

	set bool
}

// Extend grows the box to include p.
func (b *BBox) Extend(p LatLng) {
	if !b.set {
		*b = BBox{MinX: p.Lon, MinY: p.Lat, MaxX: p.Lon, MaxY: p.Lat, set: true}
		return
	}
	if p.Lon < b.MinX {
		b.MinX = p.Lon
	}
	if p.Lat < b.MinY {
		b.MinY = p.Lat
	}
	if p.Lon > b.MaxX {
		b.MaxX = p.Lon
	}
	if p.Lat > b.MaxY {
		b.MaxY = p.Lat
	}
}

// Valid reports whether at least one point was added.
func (b BBox) Valid() bool { return b.set }

func (b BBox) Center() LatLng {
	return LatLng{Lat: (b.MinY + b.MaxY) / 2, Lon: (b.MinX + b.MaxX) / 2}
}

// BoundsOf returns the bbox of all ring vertices.
func BoundsOf(rings [][]LatLng) BBox {
	var b BBox
	for _, ring := range rings {
		for _, p := range ring {
			b.Extend(p)
		}
	}
	return b
}

// CloneRings deep-copies rings so callers can keep a snapshot.
func CloneRings(rings [][]LatLng) [][]LatLng {
	out := make([][]LatLng, len(rings))
	for i, r := range rings {
		out[i] = append([]LatLng(nil), r...)
	}
	return out
}
