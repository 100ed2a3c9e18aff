package tui

import (
	"math"

	"urbanview/internal/geom"
)

// tileSize is the world width in micro-pixels at zoom 0. Each zoom level doubles it,
// the same way slippy map tiles do.
const tileSize = 256

// mapCanvas is the map as the viewport controller sees it. The controller pushes view
// and marker changes here and View reads them back when drawing.
type mapCanvas struct {
	lat, lon float64
	zoom     int

	marker    geom.LatLng
	label     string
	hasMarker bool
}

func (c *mapCanvas) SetView(lat, lon float64, zoom int) {
	c.lat, c.lon, c.zoom = lat, lon, zoom
}

func (c *mapCanvas) ShowMarker(lat, lon float64, label string) {
	c.marker = geom.LatLng{Lat: lat, Lon: lon}
	c.label = label
	c.hasMarker = true
}

func worldSize(zoom int) float64 { return tileSize * math.Exp2(float64(zoom)) }

// project maps a coordinate to Web Mercator world micro-pixels.
func project(p geom.LatLng, zoom int) (x, y float64) {
	s := worldSize(zoom)
	lat := math.Max(-85.05112878, math.Min(85.05112878, p.Lat))
	phi := lat * math.Pi / 180
	x = (p.Lon + 180) / 360 * s
	y = (1 - math.Log(math.Tan(phi)+1/math.Cos(phi))/math.Pi) / 2 * s
	return x, y
}

func unproject(x, y float64, zoom int) geom.LatLng {
	s := worldSize(zoom)
	lon := x/s*360 - 180
	lat := math.Atan(math.Sinh(math.Pi*(1-2*y/s))) * 180 / math.Pi
	return geom.LatLng{Lat: lat, Lon: lon}
}

// toMicro places p on a w x h cell canvas (2x4 micro-pixels per cell) centered on the view.
func (c *mapCanvas) toMicro(p geom.LatLng, w, h int) (int, int) {
	x, y := project(p, c.zoom)
	cx, cy := project(geom.LatLng{Lat: c.lat, Lon: c.lon}, c.zoom)
	return int(math.Floor(x - cx + float64(w*2)/2)), int(math.Floor(y - cy + float64(h*4)/2))
}

func (c *mapCanvas) fromMicro(mx, my, w, h int) geom.LatLng {
	cx, cy := project(geom.LatLng{Lat: c.lat, Lon: c.lon}, c.zoom)
	return unproject(float64(mx)-float64(w*2)/2+cx+0.5, float64(my)-float64(h*4)/2+cy+0.5, c.zoom)
}

// cellToLatLng converts a map cell back to a coordinate (cell center).
func (c *mapCanvas) cellToLatLng(cx, cy, w, h int) geom.LatLng {
	return c.fromMicro(cx*2+1, cy*4+2, w, h)
}

// panDelta returns the degrees that shift the view by dx, dy micro-pixels.
func (c *mapCanvas) panDelta(dx, dy float64) (dLat, dLon float64) {
	x, y := project(geom.LatLng{Lat: c.lat, Lon: c.lon}, c.zoom)
	to := unproject(x+dx, y+dy, c.zoom)
	return to.Lat - c.lat, to.Lon - c.lon
}
