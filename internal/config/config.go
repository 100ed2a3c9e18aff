// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Geocoder Geocoder `yaml:"geocoder"`
	Cache    Cache    `yaml:"cache"`
	Search   Search   `yaml:"search"`
	Map      Map      `yaml:"map"`
	Export   Export   `yaml:"export"`
}

// Geocoder configures the Nominatim-compatible search endpoint.
type Geocoder struct {
	Endpoint       string        `yaml:"endpoint"        validate:"required,url"`
	UserAgent      string        `yaml:"user_agent"      validate:"required"`
	AcceptLanguage string        `yaml:"accept_language,omitempty"`
	CountryCodes   string        `yaml:"country_codes,omitempty"`
	Timeout        time.Duration `yaml:"timeout"         validate:"gt=0"`
	RateLimit      float64       `yaml:"rate_limit"      validate:"gt=0"` // requests per second
	Burst          int           `yaml:"burst"           validate:"min=1"`
}

// Cache selects where geocode results are memoised.
type Cache struct {
	Backend  string        `yaml:"backend"   validate:"oneof=none memory redis"`
	Size     int           `yaml:"size"      validate:"min=1"`
	TTL      time.Duration `yaml:"ttl"       validate:"gt=0"`
	RedisURL string        `yaml:"redis_url" validate:"required_if=Backend redis"`
}

// Search tunes the autocomplete pipeline.
type Search struct {
	Debounce       time.Duration `yaml:"debounce"        validate:"gt=0"`
	MaxSuggestions int           `yaml:"max_suggestions" validate:"min=1,max=50"`
}

// Map holds the initial view and the zoom used when a place is selected.
type Map struct {
	Center     Point `yaml:"center"`
	Zoom       int   `yaml:"zoom"        validate:"min=1,max=19"`
	SelectZoom int   `yaml:"select_zoom" validate:"min=1,max=19"`
}

type Point struct {
	Lat float64 `yaml:"lat" validate:"min=-90,max=90"`
	Lon float64 `yaml:"lon" validate:"min=-180,max=180"`
}

// Export configures where drawn polygons are written.
type Export struct {
	Path string `yaml:"path" validate:"required"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Geocoder: Geocoder{
			Endpoint:  "https://nominatim.openstreetmap.org/search",
			UserAgent: "urbanview/1.0",
			Timeout:   5 * time.Second,
			RateLimit: 1,
			Burst:     1,
		},
		Cache: Cache{
			Backend: "memory",
			Size:    256,
			TTL:     10 * time.Minute,
		},
		Search: Search{
			Debounce:       300 * time.Millisecond,
			MaxSuggestions: 5,
		},
		Map: Map{
			Center:     Point{Lat: 40.4168, Lon: -3.7038},
			Zoom:       13,
			SelectZoom: 13,
		},
		Export: Export{Path: "annotations.geojson"},
	}
}

// Load reads the YAML configuration over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
