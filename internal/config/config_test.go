package config

import (
	"ev-trip-planner/internal/domain"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SAFETY_MARGIN", "CORRIDOR_RADIUS_MILES", "MILES_PER_KWH", "MIN_DWELL_MINUTES",
		"DEFAULT_STATION_POWER_KW", "CATALOG_TIMEOUT", "PLAN_OBJECTIVE", "PORT", "LOG_LEVEL", "STATIONS_PATH"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 0.8, cfg.SafetyMargin)
	assert.Equal(t, 5.0, cfg.CorridorRadiusMiles)
	assert.Equal(t, 3.5, cfg.MilesPerKwh)
	assert.Equal(t, 5.0, cfg.MinDwellMinutes)
	assert.Equal(t, 50.0, cfg.DefaultStationPowerKw)
	assert.Equal(t, 10*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, domain.ObjectiveFewestStops, cfg.Objective)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "data/seeds/stations.json", cfg.StationsPath)
	assert.Equal(t, 24*time.Hour, cfg.TripTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SAFETY_MARGIN", "0.9")
	t.Setenv("CATALOG_TIMEOUT", "3s")
	t.Setenv("PLAN_OBJECTIVE", "least_charge_time")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.9, cfg.SafetyMargin)
	assert.Equal(t, 3*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, domain.ObjectiveLeastChargeTime, cfg.Objective)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SAFETY_MARGIN", "0"},
		{"SAFETY_MARGIN", "1.5"},
		{"SAFETY_MARGIN", "lots"},
		{"MILES_PER_KWH", "-2"},
		{"MIN_DWELL_MINUTES", "-1"},
		{"CORRIDOR_RADIUS_MILES", "-3"},
		{"CATALOG_TIMEOUT", "soon"},
		{"PLAN_OBJECTIVE", "cheapest"},
		{"LOG_LEVEL", "chatty"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("EV_TEST_KEY", "  value ")
	assert.Equal(t, "value", Get("EV_TEST_KEY", "fallback"))

	t.Setenv("EV_TEST_KEY", "")
	assert.Equal(t, "fallback", Get("EV_TEST_KEY", "fallback"))
}
