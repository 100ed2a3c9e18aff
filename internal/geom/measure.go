package geom

import (
	"fmt"
	"math"

	"github.com/paulmach/orb/geo"
)

// Area is the geodesic area of the polygon in square meters, holes subtracted.
func Area(rings [][]LatLng) float64 {
	if len(rings) == 0 || len(rings[0]) < 3 {
		return 0
	}
	return math.Abs(geo.Area(ToOrbPolygon(rings)))
}

// FormatArea renders square meters the way map draw tools do: m² below a hectare,
// ha below a square kilometer, km² above.
func FormatArea(m2 float64) string {
	switch {
	case m2 >= 1e6:
		return fmt.Sprintf("%.2f km²", m2/1e6)
	case m2 >= 1e4:
		return fmt.Sprintf("%.2f ha", m2/1e4)
	}
	return fmt.Sprintf("%.0f m²", m2)
}

// SelfIntersects reports whether two edges of the closed rings touch or cross, edges that
// share a vertex within the same ring excepted. Rings are compared with each other too.
func SelfIntersects(rings [][]LatLng) bool {
	type edge struct {
		a, b    LatLng
		ring, i int
		n       int
	}
	var edges []edge
	for ri, r := range rings {
		if len(r) < 3 {
			continue
		}
		for i := range r {
			edges = append(edges, edge{a: r[i], b: r[(i+1)%len(r)], ring: ri, i: i, n: len(r)})
		}
	}
	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			s, t := edges[i], edges[j]
			if s.ring == t.ring && (t.i == s.i+1 || (s.i == 0 && t.i == s.n-1)) {
				continue
			}
			if segmentsIntersect(s.a, s.b, t.a, t.b) {
				return true
			}
		}
	}
	return false
}

// PathSelfIntersects is SelfIntersects for an open path (no closing edge).
func PathSelfIntersects(path []LatLng) bool {
	for i := 0; i+1 < len(path); i++ {
		for j := i + 2; j+1 < len(path); j++ {
			if segmentsIntersect(path[i], path[i+1], path[j], path[j+1]) {
				return true
			}
		}
	}
	return false
}

func orient(a, b, c LatLng) int {
	v := (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// onSegment assumes p is collinear with a-b.
func onSegment(a, b, p LatLng) bool {
	return p.Lon >= math.Min(a.Lon, b.Lon) && p.Lon <= math.Max(a.Lon, b.Lon) &&
		p.Lat >= math.Min(a.Lat, b.Lat) && p.Lat <= math.Max(a.Lat, b.Lat)
}

func segmentsIntersect(p1, p2, q1, q2 LatLng) bool {
	o1, o2 := orient(p1, p2, q1), orient(p1, p2, q2)
	o3, o4 := orient(q1, q2, p1), orient(q1, q2, p2)
	if o1 != o2 && o3 != o4 {
		return true
	}
	switch {
	case o1 == 0 && onSegment(p1, p2, q1):
		return true
	case o2 == 0 && onSegment(p1, p2, q2):
		return true
	case o3 == 0 && onSegment(q1, q2, p1):
		return true
	case o4 == 0 && onSegment(q1, q2, p2):
		return true
	}
	return false
}
