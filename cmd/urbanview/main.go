package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"urbanview/internal/config"
	"urbanview/internal/geocode"
	"urbanview/internal/geom"
	"urbanview/internal/logger"
	"urbanview/internal/metrics"
	"urbanview/internal/search"
	"urbanview/internal/tui"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"       env:"CONFIG_FILE"       description:"Path to configuration file (defaults are used when empty)"`
	Endpoint    string `long:"endpoint"               env:"GEOCODER_ENDPOINT" description:"Nominatim-compatible search endpoint"`
	RedisURL    string `long:"redis-url"              env:"REDIS_URL"         description:"Share geocode results through this Redis (redis://...)"`
	MetricsAddr string `long:"metrics-addr"           env:"METRICS_ADDR"      description:"Serve Prometheus metrics on this address"`
	Export      string `short:"o" long:"export"       env:"EXPORT_PATH"       description:"Where the e key writes polygons as GeoJSON"`
	Query       string `short:"q" long:"query"                                description:"Initial search query"`
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	if err := opts.Logger.Setup(); err != nil {
		log.Fatal().Err(err).Str("file", opts.Logger.File).Msg("Failed to open log file")
	}

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	cache, closeCache, err := newCache(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Cache.Backend).Msg("Failed to set up geocode cache")
	}
	defer closeCache()

	client := geocode.NewClient(geocode.Config{
		Endpoint:       cfg.Geocoder.Endpoint,
		UserAgent:      cfg.Geocoder.UserAgent,
		AcceptLanguage: cfg.Geocoder.AcceptLanguage,
		CountryCodes:   cfg.Geocoder.CountryCodes,
		Timeout:        cfg.Geocoder.Timeout,
		RateLimit:      cfg.Geocoder.RateLimit,
		Burst:          cfg.Geocoder.Burst,
	}, geocode.WithCache(cache))

	ctrl := search.New(client, search.Options{
		Debounce:       cfg.Search.Debounce,
		MaxSuggestions: cfg.Search.MaxSuggestions,
		Timeout:        cfg.Geocoder.Timeout,
	})

	m := tui.New(tui.Options{
		Search:       ctrl,
		Center:       geom.LatLng{Lat: cfg.Map.Center.Lat, Lon: cfg.Map.Center.Lon},
		Zoom:         cfg.Map.Zoom,
		SelectZoom:   cfg.Map.SelectZoom,
		ExportPath:   cfg.Export.Path,
		InitialQuery: opts.Query,
	})

	log.Info().
		Str("endpoint", cfg.Geocoder.Endpoint).
		Str("cache", cfg.Cache.Backend).
		Str("metrics", opts.MetricsAddr).
		Msg("urbanview started")

	g, ctx := errgroup.WithContext(context.Background())

	var srv *http.Server
	if opts.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv = &http.Server{Addr: opts.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
		_, err := p.Run()
		if srv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("urbanview stopped")
	}
	log.Info().Msg("urbanview exited")
}

// applyOverrides lets flags and environment win over the config file.
func applyOverrides(cfg *config.Config, opts Options) {
	if opts.Endpoint != "" {
		cfg.Geocoder.Endpoint = opts.Endpoint
	}
	if opts.RedisURL != "" {
		cfg.Cache.Backend = "redis"
		cfg.Cache.RedisURL = opts.RedisURL
	}
	if opts.Export != "" {
		cfg.Export.Path = opts.Export
	}
}

func newCache(c config.Cache) (geocode.Cache, func(), error) {
	switch c.Backend {
	case "memory":
		return geocode.NewMemoryCache(c.Size, c.TTL), func() {}, nil
	case "redis":
		rdb, err := geocode.OpenRedis(c.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, lookups will miss the cache until it is back")
		}
		return geocode.NewRedisCache(rdb, c.TTL), func() { _ = rdb.Close() }, nil
	}
	return nil, func() {}, nil
}
