package catalog

import (
	"context"
	"errors"
	"ev-trip-planner/internal/domain"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedFeed = `{
	"superchargers": [
		{"name": "Barstow", "location": {"lat": 34.85, "lng": -117.08}, "available_stalls": 4, "charging_rate": 250},
		{"name": "No Rate", "location": {"lat": 35.0, "lng": -116.0}},
		{"name": "Lost", "available_stalls": 2}
	],
	"charge_points": [
		{"id": "ocm-1", "title": "Baker Plaza", "operator": "EVgo", "latitude": 35.26, "longitude": -116.07,
		 "quantity": 3, "connections": [{"power_kw": 50}, {"power_kw": 150}, {}]},
		{"title": "Bare Site", "latitude": 35.5, "longitude": -115.5, "connections": []},
		{"title": "Off Planet", "latitude": 120, "longitude": 0}
	]
}`

func TestParseFeedNormalizesBothShapes(t *testing.T) {
	n := Normalizer{DefaultPowerKw: 50}

	stations, err := n.ParseFeed([]byte(mixedFeed))
	require.NoError(t, err)
	require.Len(t, stations, 4)

	byName := map[string]domain.ChargingStation{}
	for _, s := range stations {
		byName[s.Name] = s
	}

	barstow := byName["Barstow"]
	assert.Equal(t, "supercharger", barstow.Network)
	assert.Equal(t, 250.0, barstow.PowerKw)
	require.NotNil(t, barstow.AvailableStalls)
	assert.Equal(t, 4, *barstow.AvailableStalls)
	assert.Equal(t, domain.Coordinates{Lat: 34.85, Lon: -117.08}, barstow.Location)
	assert.NotEmpty(t, barstow.ID)

	noRate := byName["No Rate"]
	assert.Equal(t, 50.0, noRate.PowerKw)
	assert.Nil(t, noRate.AvailableStalls)
	assert.True(t, noRate.HasAvailableStall())

	baker := byName["Baker Plaza"]
	assert.Equal(t, "ocm-1", baker.ID)
	assert.Equal(t, "EVgo", baker.Network)
	assert.Equal(t, 150.0, baker.PowerKw)
	require.NotNil(t, baker.AvailableStalls)
	assert.Equal(t, 3, *baker.AvailableStalls)

	bare := byName["Bare Site"]
	assert.Equal(t, "chargepoint", bare.Network)
	assert.Equal(t, 50.0, bare.PowerKw)
	assert.Nil(t, bare.AvailableStalls)
}

func TestParseFeedBareArray(t *testing.T) {
	n := Normalizer{DefaultPowerKw: 50}

	stations, err := n.ParseFeed([]byte(`[{"name": "A", "location": {"lat": 1, "lng": 2}, "charging_rate": 120}]`))
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, 120.0, stations[0].PowerKw)
}

func TestParseFeedInvalidJSON(t *testing.T) {
	_, err := Normalizer{}.ParseFeed([]byte(`{"superchargers": [`))
	require.Error(t, err)
}

func TestMemorySourceBounds(t *testing.T) {
	src := NewMemorySource([]domain.ChargingStation{
		{Name: "in", Location: domain.Coordinates{Lat: 1, Lon: 1}, PowerKw: 50},
		{Name: "out", Location: domain.Coordinates{Lat: 5, Lon: 5}, PowerKw: 50},
	})

	got, err := src.ListStationsInBounds(context.Background(), domain.Bounds{MinLat: 0, MinLon: 0, MaxLat: 2, MaxLon: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "in", got[0].Name)
	assert.Len(t, src.All(), 2)
}

func TestLoadFeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.json")
	require.NoError(t, os.WriteFile(path, []byte(mixedFeed), 0o600))

	src, err := LoadFeedFile(path, Normalizer{DefaultPowerKw: 50})
	require.NoError(t, err)
	assert.Len(t, src.All(), 4)

	_, err = LoadFeedFile(filepath.Join(t.TempDir(), "missing.json"), Normalizer{})
	require.Error(t, err)
}

// one degree of longitude on the equator is ~69.1 miles
func equatorPath() domain.RoutePath {
	return domain.RoutePath{
		Points: []domain.Coordinates{
			{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}, {Lat: 0, Lon: 3},
		},
		DistanceMiles: 207.3,
	}
}

func TestCorridorCatalogFiltersByRadius(t *testing.T) {
	src := NewMemorySource([]domain.ChargingStation{
		{Name: "on route", Location: domain.Coordinates{Lat: 0.01, Lon: 1}, PowerKw: 150},
		{Name: "near", Location: domain.Coordinates{Lat: 0.05, Lon: 2}, PowerKw: 150},
		{Name: "far", Location: domain.Coordinates{Lat: 0.5, Lon: 2}, PowerKw: 150},
		{Name: "outside box", Location: domain.Coordinates{Lat: 10, Lon: 10}, PowerKw: 150},
	})

	got, err := NewCorridorCatalog(src).StationsNear(context.Background(), equatorPath(), 5)
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, s := range got {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"on route", "near"}, names)
}

type failingSource struct{ err error }

func (f failingSource) ListStationsInBounds(context.Context, domain.Bounds) ([]domain.ChargingStation, error) {
	return nil, f.err
}

func TestCorridorCatalogErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewCorridorCatalog(failingSource{err: boom}).StationsNear(context.Background(), equatorPath(), 5)
	require.ErrorIs(t, err, boom)

	_, err = NewCorridorCatalog(failingSource{}).StationsNear(context.Background(), domain.RoutePath{}, 5)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewCorridorCatalog(failingSource{}).StationsNear(context.Background(), equatorPath(), -1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = (&CorridorCatalog{}).StationsNear(context.Background(), equatorPath(), 5)
	require.Error(t, err)
}
