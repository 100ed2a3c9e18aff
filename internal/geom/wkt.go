package geom

import (
	"errors"
	"strconv"
	"strings"
)

// ParsePolygonWKT parses POLYGON((x y, ...), (x y, ...)) into lat/lon rings.
// WKT tuples are "lon lat"; the first ring is the outer ring, following rings are holes.
func ParsePolygonWKT(wkt string) ([][]LatLng, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	if !strings.HasPrefix(strings.ToUpper(s), "POLYGON") {
		return nil, errors.New("unsupported wkt type")
	}
	i := strings.Index(s, "((")
	j := strings.LastIndex(s, "))")
	if i < 0 || j <= i {
		return nil, errors.New("wkt polygon: invalid")
	}
	// normalize spaces around ring separators
	ringsStr := strings.ReplaceAll(s[i+2:j], "), (", "),(")
	ringsStr = strings.ReplaceAll(ringsStr, ") , (", "),(")
	var rings [][]LatLng
	for _, rp := range strings.Split(ringsStr, "),(") {
		ring := parseTuples(rp)
		if len(ring) == 0 {
			continue
		}
		rings = append(rings, openRing(ring))
	}
	if len(rings) == 0 {
		return nil, errors.New("wkt: no coordinates parsed")
	}
	return rings, nil
}

func parseTuples(block string) []LatLng {
	var out []LatLng
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(strings.TrimSpace(tup))
		if len(parts) < 2 {
			continue
		}
		x, e1 := strconv.ParseFloat(parts[0], 64)
		y, e2 := strconv.ParseFloat(parts[1], 64)
		if e1 != nil || e2 != nil {
			continue
		}
		out = append(out, LatLng{Lat: y, Lon: x})
	}
	return out
}

// openRing drops the closing vertex; rings are kept open in memory.
func openRing(ring []LatLng) []LatLng {
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		return ring[:n-1]
	}
	return ring
}

// FormatWKT renders rings as a closed WKT POLYGON.
func FormatWKT(rings [][]LatLng) string {
	if len(rings) == 0 {
		return "POLYGON EMPTY"
	}
	var b strings.Builder
	b.WriteString("POLYGON (")
	for ri, ring := range rings {
		if ri > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		closed := ring
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			closed = append(append([]LatLng(nil), ring...), ring[0])
		}
		for i, p := range closed {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatFloat(p.Lon, 'f', -1, 64))
			b.WriteString(" ")
			b.WriteString(strconv.FormatFloat(p.Lat, 'f', -1, 64))
		}
		b.WriteString(")")
	}
	b.WriteString(")")
	return b.String()
}
