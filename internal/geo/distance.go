// Package geo holds the geometry used by the planner: great-circle distances,
// along-path offsets, interpolation and the station corridor test.
//
// Distances are in statute miles. Great-circle distance is only used for
// proximity; along-path distance always follows the route polyline.
package geo

import (
	"ev-trip-planner/internal/domain"
	"math"
)

const (
	// EarthRadiusMiles is the mean radius of Earth.
	EarthRadiusMiles = 3958.8

	MetersPerMile = 1609.344
)

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// Distance returns the haversine great-circle distance between a and b.
func Distance(a, b domain.Coordinates) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLon*sinLon

	return 2 * EarthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

// CumulativeDistance sums consecutive great-circle segment lengths.
func CumulativeDistance(points []domain.Coordinates) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// Interpolate returns n+1 evenly spaced points from a to b inclusive.
func Interpolate(a, b domain.Coordinates, n int) []domain.Coordinates {
	if n < 1 {
		n = 1
	}
	out := make([]domain.Coordinates, n+1)
	for i := 0; i <= n; i++ {
		ratio := float64(i) / float64(n)
		out[i] = domain.Coordinates{
			Lat: a.Lat + (b.Lat-a.Lat)*ratio,
			Lon: a.Lon + (b.Lon-a.Lon)*ratio,
		}
	}
	// Avoid float drift on the endpoint.
	out[n] = b
	return out
}

// BoundingBox returns the box around points, padded by padMiles on every side.
// Longitude padding uses the latitude farthest from the equator so the box
// never undershoots.
func BoundingBox(points []domain.Coordinates, padMiles float64) domain.Bounds {
	if len(points) == 0 {
		return domain.Bounds{}
	}

	b := domain.Bounds{MinLat: points[0].Lat, MaxLat: points[0].Lat, MinLon: points[0].Lon, MaxLon: points[0].Lon}
	for _, p := range points[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}

	if padMiles <= 0 {
		return b
	}

	milesPerDegLat := EarthRadiusMiles * math.Pi / 180
	padLat := padMiles / milesPerDegLat

	maxAbsLat := math.Min(89.9, math.Max(math.Abs(b.MinLat), math.Abs(b.MaxLat))+padLat)
	padLon := padMiles / (milesPerDegLat * math.Max(0.01, math.Cos(degToRad(maxAbsLat))))

	b.MinLat = math.Max(-90, b.MinLat-padLat)
	b.MaxLat = math.Min(90, b.MaxLat+padLat)
	b.MinLon = math.Max(-180, b.MinLon-padLon)
	b.MaxLon = math.Min(180, b.MaxLon+padLon)

	return b
}
