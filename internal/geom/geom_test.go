package geom

import (
	"strings"
	"testing"
)

func TestParsePolygonWKT(t *testing.T) {
	rings, err := ParsePolygonWKT("POLYGON ((-3.70 40.41, -3.69 40.41, -3.69 40.42, -3.70 40.41), (-3.695 40.412, -3.694 40.412, -3.694 40.413))")
	if err != nil {
		t.Fatal(err)
	}
	if len(rings) != 2 {
		t.Fatalf("rings=%d", len(rings))
	}
	if len(rings[0]) != 3 {
		t.Fatalf("outer ring should drop closing vertex, got %d", len(rings[0]))
	}
	if rings[0][0] != (LatLng{Lat: 40.41, Lon: -3.70}) {
		t.Fatalf("unexpected first vertex %+v", rings[0][0])
	}
}

func TestParsePolygonWKTErrors(t *testing.T) {
	for _, in := range []string{"", "POINT (1 2)", "POLYGON (1 2)", "POLYGON ((a b))"} {
		if _, err := ParsePolygonWKT(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestFormatWKTClosesRings(t *testing.T) {
	rings := [][]LatLng{{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}, {Lat: 5, Lon: 6}}}
	got := FormatWKT(rings)
	want := "POLYGON ((2 1, 4 3, 6 5, 2 1))"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	back, err := ParsePolygonWKT(got)
	if err != nil {
		t.Fatal(err)
	}
	if len(back[0]) != 3 || back[0][2] != rings[0][2] {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if FormatWKT(nil) != "POLYGON EMPTY" {
		t.Fatal("empty polygon")
	}
}

func TestParsePolygonGeoJSON(t *testing.T) {
	fc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[-3.7,40.41],[-3.69,40.41],[-3.69,40.42],[-3.7,40.41]]]}},
		{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}},
		{"type":"Feature","properties":{},"geometry":{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]],[[[5,5],[6,5],[6,6],[5,5]]]]}}
	]}`
	polys, err := ParsePolygonGeoJSON([]byte(fc))
	if err != nil {
		t.Fatal(err)
	}
	if len(polys) != 3 {
		t.Fatalf("polys=%d", len(polys))
	}
	if polys[0][0][0] != (LatLng{Lat: 40.41, Lon: -3.7}) {
		t.Fatalf("unexpected vertex %+v", polys[0][0][0])
	}

	geomOnly := `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`
	polys, err = ParsePolygonGeoJSON([]byte(geomOnly))
	if err != nil || len(polys) != 1 || len(polys[0][0]) != 3 {
		t.Fatalf("geometry: %v %+v", err, polys)
	}

	if _, err := ParsePolygonGeoJSON([]byte(`{"type":"Point","coordinates":[1,2]}`)); err == nil || !strings.Contains(err.Error(), "no polygons") {
		t.Fatalf("expected no polygons error, got %v", err)
	}
	if _, err := ParsePolygonGeoJSON([]byte(`{}`)); err == nil {
		t.Fatal("expected missing type error")
	}
}

func TestOrbRoundTrip(t *testing.T) {
	rings := [][]LatLng{{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}, {Lat: 5, Lon: 6}}}
	poly := ToOrbPolygon(rings)
	if !poly[0].Closed() || len(poly[0]) != 4 {
		t.Fatalf("ring not closed: %v", poly[0])
	}
	back := FromOrbPolygon(poly)
	if len(back[0]) != 3 || back[0][1] != rings[0][1] {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestBBox(t *testing.T) {
	var b BBox
	if b.Valid() {
		t.Fatal("zero bbox should be invalid")
	}
	b = BoundsOf([][]LatLng{{{Lat: 1, Lon: -2}, {Lat: 3, Lon: 4}}})
	if !b.Valid() || b.MinX != -2 || b.MaxY != 3 {
		t.Fatalf("bbox %+v", b)
	}
	if c := b.Center(); c.Lat != 2 || c.Lon != 1 {
		t.Fatalf("center %+v", c)
	}
}
