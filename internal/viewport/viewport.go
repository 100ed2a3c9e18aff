// Package viewport keeps the map view in step with the committed search selection.
package viewport

import (
	"math"

	"github.com/rs/zerolog/log"

	"urbanview/internal/metrics"
	"urbanview/internal/search"
)

const (
	MinZoom = 1
	MaxZoom = 19

	maxLat = 85.05112878
)

// MapView is whatever draws the map. Both calls are side effects on the screen.
type MapView interface {
	SetView(lat, lon float64, zoom int)
	ShowMarker(lat, lon float64, label string)
}

// Marker is the pin shown at the selected place.
type Marker struct {
	Lat   float64
	Lon   float64
	Label string
}

type Controller struct {
	view       MapView
	center     search.Selection
	zoom       int
	selectZoom int

	marker    Marker
	hasMarker bool

	// bit patterns of the last coordinates we recentered on
	lastLat, lastLon uint64
	applied          bool
}

func New(view MapView, lat, lon float64, zoom, selectZoom int) *Controller {
	c := &Controller{
		view:       view,
		center:     search.Selection{Lat: lat, Lon: lon},
		zoom:       clampZoom(zoom),
		selectZoom: clampZoom(selectZoom),
	}
	c.view.SetView(lat, lon, c.zoom)
	return c
}

// Sync reflects sel on the map. It reports whether a recenter was issued; a selection
// whose coordinates are bit-identical to the last applied one only refreshes the label.
func (c *Controller) Sync(sel search.Selection) bool {
	latBits, lonBits := math.Float64bits(sel.Lat), math.Float64bits(sel.Lon)
	if c.applied && latBits == c.lastLat && lonBits == c.lastLon {
		if c.marker.Label != sel.DisplayName {
			c.marker.Label = sel.DisplayName
			c.view.ShowMarker(sel.Lat, sel.Lon, sel.DisplayName)
		}
		return false
	}
	c.lastLat, c.lastLon, c.applied = latBits, lonBits, true
	c.center = search.Selection{Lat: sel.Lat, Lon: sel.Lon}
	c.zoom = c.selectZoom
	c.marker = Marker{Lat: sel.Lat, Lon: sel.Lon, Label: sel.DisplayName}
	c.hasMarker = true

	c.view.SetView(sel.Lat, sel.Lon, c.zoom)
	c.view.ShowMarker(sel.Lat, sel.Lon, sel.DisplayName)
	metrics.ViewportRecentersTotal.Inc()
	log.Debug().Float64("lat", sel.Lat).Float64("lon", sel.Lon).Int("zoom", c.zoom).Msg("viewport recentered")
	return true
}

// Pan moves the center by the given degrees. The next Sync always recenters, even on
// the place already selected.
func (c *Controller) Pan(dLat, dLon float64) {
	lat := math.Max(-maxLat, math.Min(maxLat, c.center.Lat+dLat))
	lon := math.Mod(c.center.Lon+dLon+540, 360) - 180
	c.center.Lat, c.center.Lon = lat, lon
	c.applied = false
	c.view.SetView(lat, lon, c.zoom)
}

func (c *Controller) ZoomIn()  { c.setZoom(c.zoom + 1) }
func (c *Controller) ZoomOut() { c.setZoom(c.zoom - 1) }

func (c *Controller) setZoom(z int) {
	z = clampZoom(z)
	if z == c.zoom {
		return
	}
	c.zoom = z
	c.view.SetView(c.center.Lat, c.center.Lon, z)
}

func (c *Controller) Center() (lat, lon float64) { return c.center.Lat, c.center.Lon }
func (c *Controller) Zoom() int                  { return c.zoom }

// Marker returns the current pin, if any.
func (c *Controller) Marker() (Marker, bool) { return c.marker, c.hasMarker }

func clampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
