package config

import (
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/energy"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration assembled from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	ORSAPIKey   string

	// StationsPath is the feed file used when no database is configured.
	StationsPath string
	LogLevel     slog.Level

	SafetyMargin          float64
	CorridorRadiusMiles   float64
	MilesPerKwh           float64
	MinDwellMinutes       float64
	DefaultStationPowerKw float64
	CatalogTimeout        time.Duration
	Objective             domain.Objective

	StationCacheTTL time.Duration
	TripTTL         time.Duration
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", domain.ErrInvalidConfiguration, key, v)
	}
	return f, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a duration", domain.ErrInvalidConfiguration, key, v)
	}
	return d, nil
}

// Load reads the planner settings and validates their ranges.
func Load() (Config, error) {
	cfg := Config{
		Port:        Get("PORT", "8080"),
		DatabaseURL: Get("DATABASE_URL", ""),
		RedisAddr:   Get("REDIS_ADDR", ""),
		ORSAPIKey:   Get("ORS_API_KEY", ""),

		StationsPath: Get("STATIONS_PATH", "data/seeds/stations.json"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(Get("LOG_LEVEL", "INFO"))); err != nil {
		return Config{}, fmt.Errorf("load config: %w: LOG_LEVEL: %v", domain.ErrInvalidConfiguration, err)
	}

	floats := []struct {
		key      string
		fallback float64
		dst      *float64
	}{
		{"SAFETY_MARGIN", energy.DefaultSafetyMargin, &cfg.SafetyMargin},
		{"CORRIDOR_RADIUS_MILES", 5, &cfg.CorridorRadiusMiles},
		{"MILES_PER_KWH", energy.DefaultMilesPerKwh, &cfg.MilesPerKwh},
		{"MIN_DWELL_MINUTES", energy.DefaultMinDwellMinutes, &cfg.MinDwellMinutes},
		{"DEFAULT_STATION_POWER_KW", 50, &cfg.DefaultStationPowerKw},
	}
	for _, f := range floats {
		v, err := GetFloat(f.key, f.fallback)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		*f.dst = v
	}

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"CATALOG_TIMEOUT", 10 * time.Second, &cfg.CatalogTimeout},
		{"STATION_CACHE_TTL", 15 * time.Minute, &cfg.StationCacheTTL},
		{"TRIP_TTL", 24 * time.Hour, &cfg.TripTTL},
	}
	for _, d := range durations {
		v, err := GetDuration(d.key, d.fallback)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		*d.dst = v
	}

	objective, err := domain.ParseObjective(Get("PLAN_OBJECTIVE", string(domain.ObjectiveFewestStops)))
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.Objective = objective

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := energy.ValidateSafetyMargin(c.SafetyMargin); err != nil {
		return err
	}
	if err := c.EnergyModel().Validate(); err != nil {
		return err
	}
	if math.IsNaN(c.CorridorRadiusMiles) || c.CorridorRadiusMiles < 0 {
		return fmt.Errorf("%w: corridor radius must be non-negative, got %v", domain.ErrInvalidConfiguration, c.CorridorRadiusMiles)
	}
	if math.IsNaN(c.DefaultStationPowerKw) || c.DefaultStationPowerKw <= 0 {
		return fmt.Errorf("%w: default station power must be positive, got %v", domain.ErrInvalidConfiguration, c.DefaultStationPowerKw)
	}
	if c.CatalogTimeout < 0 {
		return fmt.Errorf("%w: catalog timeout must be non-negative", domain.ErrInvalidConfiguration)
	}
	return nil
}

func (c Config) EnergyModel() energy.Model {
	return energy.Model{MilesPerKwh: c.MilesPerKwh, MinDwellMinutes: c.MinDwellMinutes}
}
