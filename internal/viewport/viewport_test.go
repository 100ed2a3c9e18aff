package viewport

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"urbanview/internal/metrics"
	"urbanview/internal/search"
)

type setView struct {
	lat, lon float64
	zoom     int
}

type marker struct {
	lat, lon float64
	label    string
}

type recorder struct {
	views   []setView
	markers []marker
}

func (r *recorder) SetView(lat, lon float64, zoom int) {
	r.views = append(r.views, setView{lat, lon, zoom})
}

func (r *recorder) ShowMarker(lat, lon float64, label string) {
	r.markers = append(r.markers, marker{lat, lon, label})
}

var madrid = search.Selection{Lat: 40.4168, Lon: -3.7038, DisplayName: "Madrid, Spain"}

func newController(t *testing.T) (*Controller, *recorder) {
	t.Helper()
	r := &recorder{}
	c := New(r, 0, 0, 3, 13)
	r.views = nil
	return c, r
}

func TestNewPushesInitialView(t *testing.T) {
	r := &recorder{}
	c := New(r, 40.4168, -3.7038, 13, 13)
	if len(r.views) != 1 || r.views[0] != (setView{40.4168, -3.7038, 13}) {
		t.Fatalf("views=%+v", r.views)
	}
	if _, ok := c.Marker(); ok {
		t.Fatal("no marker before a selection")
	}
}

func TestSyncRecentersOnce(t *testing.T) {
	c, r := newController(t)
	before := testutil.ToFloat64(metrics.ViewportRecentersTotal)
	if !c.Sync(madrid) {
		t.Fatal("first sync should recenter")
	}
	if len(r.views) != 1 || r.views[0] != (setView{40.4168, -3.7038, 13}) {
		t.Fatalf("views=%+v", r.views)
	}
	if len(r.markers) != 1 || r.markers[0] != (marker{40.4168, -3.7038, "Madrid, Spain"}) {
		t.Fatalf("markers=%+v", r.markers)
	}
	if got := testutil.ToFloat64(metrics.ViewportRecentersTotal) - before; got != 1 {
		t.Fatalf("recenters metric delta=%v", got)
	}
	lat, lon := c.Center()
	if lat != 40.4168 || lon != -3.7038 || c.Zoom() != 13 {
		t.Fatalf("center=(%v,%v) zoom=%d", lat, lon, c.Zoom())
	}
}

func TestSyncSameCoordinatesIsIdempotent(t *testing.T) {
	c, r := newController(t)
	c.Sync(madrid)
	if c.Sync(madrid) {
		t.Fatal("second sync of same coordinates recentered")
	}
	if len(r.views) != 1 || len(r.markers) != 1 {
		t.Fatalf("views=%d markers=%d", len(r.views), len(r.markers))
	}
}

func TestSyncSameCoordinatesNewLabel(t *testing.T) {
	c, r := newController(t)
	c.Sync(madrid)
	renamed := madrid
	renamed.DisplayName = "Madrid, Comunidad de Madrid, España"
	if c.Sync(renamed) {
		t.Fatal("label change should not recenter")
	}
	if len(r.views) != 1 {
		t.Fatalf("views=%d", len(r.views))
	}
	m, _ := c.Marker()
	if m.Label != renamed.DisplayName || r.markers[len(r.markers)-1].label != renamed.DisplayName {
		t.Fatalf("label not refreshed: %+v", m)
	}
}

func TestSyncDifferentCoordinates(t *testing.T) {
	c, r := newController(t)
	c.Sync(madrid)
	nearby := madrid
	nearby.Lon = -3.70380000001
	if !c.Sync(nearby) {
		t.Fatal("distinct coordinates must recenter")
	}
	if len(r.views) != 2 {
		t.Fatalf("views=%d", len(r.views))
	}
}

func TestPanForgetsLastApplied(t *testing.T) {
	c, r := newController(t)
	c.Sync(madrid)
	c.Pan(1, 1)
	if !c.Sync(madrid) {
		t.Fatal("re-selecting after a pan should recenter")
	}
	if last := r.views[len(r.views)-1]; last != (setView{40.4168, -3.7038, 13}) {
		t.Fatalf("last view %+v", last)
	}
}

func TestPanClampsAndWraps(t *testing.T) {
	c, _ := newController(t)
	c.Pan(200, 190)
	lat, lon := c.Center()
	if lat != maxLat {
		t.Fatalf("lat=%v", lat)
	}
	if lon != -170 {
		t.Fatalf("lon=%v", lon)
	}
}

func TestZoomClamped(t *testing.T) {
	c, r := newController(t)
	for i := 0; i < 30; i++ {
		c.ZoomIn()
	}
	if c.Zoom() != MaxZoom {
		t.Fatalf("zoom=%d", c.Zoom())
	}
	n := len(r.views)
	c.ZoomIn()
	if len(r.views) != n {
		t.Fatal("zoom at the limit should not push a view")
	}
	for i := 0; i < 30; i++ {
		c.ZoomOut()
	}
	if c.Zoom() != MinZoom {
		t.Fatalf("zoom=%d", c.Zoom())
	}
}
