// Package geocode turns free-text addresses into coordinate suggestions using a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"urbanview/internal/metrics"
)

const (
	defaultEndpoint  = "https://nominatim.openstreetmap.org/search"
	defaultUserAgent = "urbanview/1.0"
)

// Config configures the provider endpoint and request policy.
type Config struct {
	Endpoint       string
	UserAgent      string
	AcceptLanguage string
	CountryCodes   string
	Timeout        time.Duration
	RateLimit      float64 // requests per second, <= 0 disables limiting
	Burst          int
}

// Client issues search queries. It keeps no per-query state and is safe for concurrent use.
type Client struct {
	endpoint  string
	userAgent string
	language  string
	countries string
	client    *http.Client
	limiter   *rate.Limiter
	cache     Cache
}

type Option func(*Client)

// WithCache memoises successful lookups in c.
func WithCache(c Cache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) { cl.client = hc }
}

// NewClient creates a client.
func NewClient(cfg Config, opts ...Option) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := &Client{
		endpoint:  endpoint,
		userAgent: ua,
		language:  cfg.AcceptLanguage,
		countries: cfg.CountryCodes,
		client:    &http.Client{Timeout: timeout},
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns up to maxResults suggestions for text, in provider order.
// Blank text returns no results without touching the network. On failure the
// result is empty and the error is a *LookupError.
func (c *Client) Search(ctx context.Context, text string, maxResults int) ([]Suggestion, error) {
	q := strings.TrimSpace(text)
	if q == "" {
		return nil, nil
	}
	if maxResults <= 0 {
		maxResults = 1
	}

	key := cacheKey(q, maxResults)
	if c.cache != nil {
		if res, ok := c.cache.Get(ctx, key); ok {
			metrics.GeocodeCacheHitsTotal.Inc()
			log.Debug().Str("query", q).Int("results", len(res)).Msg("geocode cache hit")
			return res, nil
		}
		metrics.GeocodeCacheMissesTotal.Inc()
	}

	res, err := c.fetch(ctx, q, maxResults)
	if err != nil {
		metrics.GeocodeFailTotal.Inc()
		log.Warn().Err(err).Str("query", q).Msg("geocode lookup failed")
		return nil, &LookupError{Query: q, Err: err}
	}
	if c.cache != nil {
		c.cache.Set(ctx, key, res)
	}
	return res, nil
}

func (c *Client) fetch(ctx context.Context, q string, limit int) ([]Suggestion, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(limit))
	if c.language != "" {
		params.Set("accept-language", c.language)
	}
	if c.countries != "" {
		params.Set("countrycodes", c.countries)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	t0 := time.Now()
	metrics.GeocodeRequestsTotal.Inc()
	log.Debug().Str("query", q).Int("limit", limit).Msg("geocode request")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("geocoder status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var records []nominatimRecord
	if err := json.NewDecoder(io.LimitReader(resp.Body, 2<<20)).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	dur := time.Since(t0)
	metrics.GeocodeDurationMs.Observe(float64(dur.Milliseconds()))

	out := make([]Suggestion, 0, len(records))
	for _, r := range records {
		s, err := r.suggestion()
		if err != nil {
			metrics.GeocodeDroppedRecordsTotal.Inc()
			log.Debug().Err(err).Str("display_name", r.DisplayName).Msg("geocode record dropped")
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	log.Debug().Str("query", q).Int("records", len(records)).Int("results", len(out)).Dur("duration", dur).Msg("geocode response")
	return out, nil
}

var errNotFinite = errors.New("coordinate is not finite")

func (r nominatimRecord) suggestion() (Suggestion, error) {
	lat, err := parseCoord(r.Lat)
	if err != nil {
		return Suggestion{}, fmt.Errorf("lat %q: %w", r.Lat, err)
	}
	lon, err := parseCoord(r.Lon)
	if err != nil {
		return Suggestion{}, fmt.Errorf("lon %q: %w", r.Lon, err)
	}
	id := r.PlaceID.String()
	if id == "" && r.OSMID != "" {
		id = r.OSMType + "/" + r.OSMID.String()
	}
	return Suggestion{
		ID:          id,
		DisplayName: strings.TrimSpace(r.DisplayName),
		Lat:         lat,
		Lon:         lon,
	}, nil
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}
