package geo

import (
	"ev-trip-planner/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// One degree of longitude on the equator.
const degreeMiles = EarthRadiusMiles * 3.141592653589793 / 180

func equatorPath(distanceMiles float64, lons ...float64) domain.RoutePath {
	pts := make([]domain.Coordinates, 0, len(lons))
	for _, lon := range lons {
		pts = append(pts, domain.Coordinates{Lat: 0, Lon: lon})
	}
	return domain.RoutePath{Points: pts, DistanceMiles: distanceMiles}
}

func TestDistance(t *testing.T) {
	a := domain.Coordinates{Lat: 0, Lon: 0}
	b := domain.Coordinates{Lat: 0, Lon: 1}

	assert.InDelta(t, degreeMiles, Distance(a, b), 1e-6)
	assert.Equal(t, 0.0, Distance(a, a))
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-12)

	// Downtown Portland to PDX is roughly 7-9 miles.
	portland := domain.Coordinates{Lat: 45.5152, Lon: -122.6784}
	pdx := domain.Coordinates{Lat: 45.5898, Lon: -122.5951}
	d := Distance(portland, pdx)
	assert.Greater(t, d, 5.0)
	assert.Less(t, d, 12.0)
}

func TestCumulativeDistance(t *testing.T) {
	path := equatorPath(0, 0, 1, 2, 3)
	assert.InDelta(t, 3*degreeMiles, CumulativeDistance(path.Points), 1e-6)
	assert.Equal(t, 0.0, CumulativeDistance(path.Points[:1]))
	assert.Equal(t, 0.0, CumulativeDistance(nil))
}

func TestPolylineOffsetsScaleToProviderDistance(t *testing.T) {
	line := NewPolyline(equatorPath(300, 0, 1, 2, 3))

	require.Equal(t, 4, line.Len())
	assert.Equal(t, 300.0, line.Length())
	assert.Equal(t, 0.0, line.Offset(0))
	assert.InDelta(t, 100, line.Offset(1), 1e-9)
	assert.InDelta(t, 200, line.Offset(2), 1e-9)
	assert.Equal(t, 300.0, line.Offset(3))

	for i := 1; i < line.Len(); i++ {
		assert.GreaterOrEqual(t, line.Offset(i), line.Offset(i-1))
	}
}

func TestPolylineWithoutProviderDistance(t *testing.T) {
	line := NewPolyline(equatorPath(0, 0, 1, 2))
	assert.InDelta(t, 2*degreeMiles, line.Length(), 1e-6)
}

func TestPointAtDistance(t *testing.T) {
	line := NewPolyline(equatorPath(300, 0, 1, 2, 3))

	tests := []struct {
		name    string
		miles   float64
		wantLon float64
	}{
		{name: "start", miles: 0, wantLon: 0},
		{name: "vertex", miles: 100, wantLon: 1},
		{name: "mid segment", miles: 150, wantLon: 1.5},
		{name: "end", miles: 300, wantLon: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := line.PointAtDistance(tt.miles)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantLon, p.Lon, 1e-9)
			assert.InDelta(t, 0, p.Lat, 1e-9)
		})
	}
}

func TestPointAtDistanceOutOfRange(t *testing.T) {
	line := NewPolyline(equatorPath(300, 0, 1, 2, 3))

	_, err := line.PointAtDistance(-1)
	assert.ErrorIs(t, err, domain.ErrOutOfRangeDistance)

	_, err = line.PointAtDistance(300.5)
	assert.ErrorIs(t, err, domain.ErrOutOfRangeDistance)
}

func TestNearestVertex(t *testing.T) {
	line := NewPolyline(equatorPath(300, 0, 1, 2, 3))

	idx, d := line.NearestVertex(domain.Coordinates{Lat: 0.01, Lon: 2.1})
	assert.Equal(t, 2, idx)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 10.0)
}

func TestCorridorCandidates(t *testing.T) {
	line := NewPolyline(equatorPath(300, 0, 1, 2, 3))

	stations := []domain.ChargingStation{
		{Name: "near-1", Location: domain.Coordinates{Lat: 0.02, Lon: 1}, PowerKw: 150},
		{Name: "far-away", Location: domain.Coordinates{Lat: 5, Lon: 2}, PowerKw: 150},
		{Name: "near-3", Location: domain.Coordinates{Lat: -0.01, Lon: 3}, PowerKw: 250},
	}

	got := CorridorCandidates(line, stations, 5)
	require.Len(t, got, 2)

	assert.Equal(t, "near-1", got[0].Station.Name)
	assert.InDelta(t, 100, got[0].MilesFromStart, 1e-9)
	assert.Less(t, got[0].OffsetMiles, 5.0)

	assert.Equal(t, "near-3", got[1].Station.Name)
	assert.Equal(t, 300.0, got[1].MilesFromStart)
}

func TestCorridorCandidatesEmpty(t *testing.T) {
	line := NewPolyline(equatorPath(300, 0, 1, 2, 3))
	assert.Empty(t, CorridorCandidates(line, nil, 5))
	assert.Nil(t, CorridorCandidates(nil, []domain.ChargingStation{{Name: "x"}}, 5))
}

func TestBoundingBox(t *testing.T) {
	pts := []domain.Coordinates{{Lat: 45, Lon: -122}, {Lat: 47, Lon: -120}}

	b := BoundingBox(pts, 0)
	assert.Equal(t, domain.Bounds{MinLat: 45, MinLon: -122, MaxLat: 47, MaxLon: -120}, b)

	padded := BoundingBox(pts, 10)
	assert.Less(t, padded.MinLat, 45.0)
	assert.Greater(t, padded.MaxLon, -120.0)

	// A point 10 miles north of the box edge must still be inside the padded box.
	north := domain.Coordinates{Lat: 47 + 9.9/degreeMiles, Lon: -121}
	assert.True(t, padded.Contains(north))
	assert.False(t, b.Contains(north))
}

func TestInterpolate(t *testing.T) {
	a := domain.Coordinates{Lat: 0, Lon: 0}
	b := domain.Coordinates{Lat: 10, Lon: 20}

	pts := Interpolate(a, b, 10)
	require.Len(t, pts, 11)
	assert.Equal(t, a, pts[0])
	assert.Equal(t, b, pts[10])
	assert.InDelta(t, 5, pts[5].Lat, 1e-9)
	assert.InDelta(t, 10, pts[5].Lon, 1e-9)
}
