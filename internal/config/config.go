package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/Neerajpokala/NextWeather/internal/geocode"
)

var validate = validator.New()

type AppConfig struct {
	AppEnv   string     `validate:"oneof=dev prod"`
	LogLevel slog.Level `validate:"-"`
	Port     string     `validate:"required,numeric"`

	NWSBaseURL   string `validate:"required,url"`
	NWSUserAgent string `validate:"required"`

	NominatimBaseURL   string `validate:"required,url"`
	NominatimUserAgent string `validate:"required"`
	GoogleGeocoderKey  string

	// HTTPTimeout bounds each outbound request.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// Bundle cache retention.
	CacheTTL        time.Duration `validate:"gt=0"`
	CacheMaxEntries int           `validate:"gte=0"` // 0 = unlimited

	// PrewarmInterval controls how often prewarm locations are refreshed.
	PrewarmInterval  time.Duration `validate:"gt=0"`
	PrewarmLocations []geocode.Place

	OpenAIAPIKey  string
	OpenAIBaseURL string `validate:"omitempty,url"`
	OpenAIModel   string `validate:"required"`

	ChatMaxHistory  int `validate:"gte=0"`
	ChatMaxSessions int `validate:"gte=0"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level
	cfg.Port = getenvDefault("PORT", "8080")

	cfg.NWSBaseURL = getenvDefault("NWS_BASE_URL", "https://api.weather.gov")
	cfg.NWSUserAgent = getenvDefault("NWS_USER_AGENT", "(nextweather, contact@example.com)")
	cfg.NominatimBaseURL = getenvDefault("NOMINATIM_BASE_URL", geocode.NominatimHost)
	cfg.NominatimUserAgent = getenvDefault("NOMINATIM_USER_AGENT", geocode.DefaultNominatimUserAgent)
	cfg.GoogleGeocoderKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	cfg.CacheMaxEntries = getenvInt("CACHE_MAX_ENTRIES", 256)

	if cfg.PrewarmInterval, err = getenvDuration("PREWARM_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.PrewarmLocations, err = parseLocations(os.Getenv("PREWARM_LOCATIONS")); err != nil {
		return nil, err
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	cfg.OpenAIModel = getenvDefault("OPENAI_MODEL", "gpt-4o-mini")

	cfg.ChatMaxHistory = getenvInt("CHAT_MAX_HISTORY", 50)
	cfg.ChatMaxSessions = getenvInt("CHAT_MAX_SESSIONS", 1000)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LocationNames returns the names of the prewarm locations.
func (c *AppConfig) LocationNames() []string {
	names := make([]string, 0, len(c.PrewarmLocations))
	for _, p := range c.PrewarmLocations {
		names = append(names, p.Name)
	}
	return names
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

// parseLocations parses "name@lat,lon;name@lat,lon".
func parseLocations(s string) ([]geocode.Place, error) {
	var locs []geocode.Place
	for _, item := range strings.Split(s, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, coords, ok := strings.Cut(item, "@")
		if !ok {
			return nil, fmt.Errorf("invalid PREWARM_LOCATIONS entry %q: want name@lat,lon", item)
		}
		lat, lon, ok := geocode.ParseCoordinates(coords)
		if !ok {
			return nil, fmt.Errorf("invalid PREWARM_LOCATIONS coordinates %q", coords)
		}
		locs = append(locs, geocode.Place{Name: strings.TrimSpace(name), Lat: lat, Lon: lon})
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
