package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GeocodeRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "urbanview_geocode_requests_total",
		Help: "Total geocode requests sent to the provider",
	})
	GeocodeFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "urbanview_geocode_fail_total",
		Help: "Total geocode lookups that failed (transport, status or decode)",
	})
	GeocodeDroppedRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "urbanview_geocode_dropped_records_total",
		Help: "Provider records dropped because lat/lon did not parse",
	})
	GeocodeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "urbanview_geocode_duration_ms",
		Help:    "Geocode provider call duration in milliseconds",
		Buckets: []float64{10, 25, 50, 100, 200, 500, 1000, 2000, 5000},
	})
	GeocodeCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "urbanview_geocode_cache_hits_total",
		Help: "Total geocode cache hits",
	})
	GeocodeCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "urbanview_geocode_cache_misses_total",
		Help: "Total geocode cache misses",
	})
	SearchStaleDiscardedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "urbanview_search_stale_discarded_total",
		Help: "Lookup results discarded because a newer query or commit superseded them",
	})
	ViewportRecentersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "urbanview_viewport_recenters_total",
		Help: "Recenter side effects issued for new selections",
	})
	Annotations = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "urbanview_annotations",
		Help: "Polygons currently held by the annotation store",
	})
)

func init() {
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(GeocodeFailTotal)
	prometheus.MustRegister(GeocodeDroppedRecordsTotal)
	prometheus.MustRegister(GeocodeDurationMs)
	prometheus.MustRegister(GeocodeCacheHitsTotal)
	prometheus.MustRegister(GeocodeCacheMissesTotal)
	prometheus.MustRegister(SearchStaleDiscardedTotal)
	prometheus.MustRegister(ViewportRecentersTotal)
	prometheus.MustRegister(Annotations)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
