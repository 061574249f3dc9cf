package geo

import (
	"ev-trip-planner/internal/domain"
	"fmt"
	"math"
	"sort"
)

// distance tolerance for comparisons against the path length
const eps = 1e-9

// Polyline is a RoutePath with precomputed along-path offsets per vertex.
//
// Offsets are cumulative great-circle distances rescaled so that the last
// vertex sits at the provider's road distance. Without a provider distance
// the raw great-circle sum is used.
type Polyline struct {
	points  []domain.Coordinates
	offsets []float64
	length  float64
}

func NewPolyline(path domain.RoutePath) *Polyline {
	n := len(path.Points)
	offsets := make([]float64, n)
	for i := 1; i < n; i++ {
		offsets[i] = offsets[i-1] + Distance(path.Points[i-1], path.Points[i])
	}

	length := 0.0
	if n > 0 {
		length = offsets[n-1]
	}

	if path.DistanceMiles > 0 {
		if length > 0 {
			scale := path.DistanceMiles / length
			for i := range offsets {
				offsets[i] *= scale
			}
			// Pin the endpoint exactly so the last vertex equals the route length.
			offsets[n-1] = path.DistanceMiles
		}
		length = path.DistanceMiles
	}

	return &Polyline{points: path.Points, offsets: offsets, length: length}
}

// Length is the along-path length of the route.
func (p *Polyline) Length() float64 { return p.length }

// Offset returns the along-path distance of vertex i.
func (p *Polyline) Offset(i int) float64 { return p.offsets[i] }

func (p *Polyline) Len() int { return len(p.points) }

// PointAtDistance interpolates linearly between the two vertices bracketing
// targetMiles. Callers must clamp: negative targets or targets past the end
// fail with ErrOutOfRangeDistance.
func (p *Polyline) PointAtDistance(targetMiles float64) (domain.Coordinates, error) {
	if len(p.points) == 0 {
		return domain.Coordinates{}, fmt.Errorf("%w: empty path", domain.ErrOutOfRangeDistance)
	}
	if math.IsNaN(targetMiles) || targetMiles < 0 || targetMiles > p.length+eps {
		return domain.Coordinates{}, fmt.Errorf(
			"%w: %.3f miles is outside [0, %.3f]",
			domain.ErrOutOfRangeDistance, targetMiles, p.length,
		)
	}

	i := sort.SearchFloat64s(p.offsets, targetMiles)
	if i == 0 {
		return p.points[0], nil
	}
	if i >= len(p.points) {
		return p.points[len(p.points)-1], nil
	}

	seg := p.offsets[i] - p.offsets[i-1]
	if seg <= 0 {
		return p.points[i], nil
	}

	t := (targetMiles - p.offsets[i-1]) / seg
	a, b := p.points[i-1], p.points[i]
	return domain.Coordinates{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lon: a.Lon + (b.Lon-a.Lon)*t,
	}, nil
}

// NearestVertex returns the index of the path vertex closest to c and its
// great-circle distance. On ties the earliest vertex wins.
func (p *Polyline) NearestVertex(c domain.Coordinates) (int, float64) {
	best := -1
	bestDist := math.Inf(1)
	milesPerDegLat := EarthRadiusMiles * math.Pi / 180

	for i, v := range p.points {
		// Latitude difference alone is a lower bound on great-circle distance.
		if math.Abs(v.Lat-c.Lat)*milesPerDegLat >= bestDist {
			continue
		}
		d := Distance(v, c)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}

// Candidate is a station projected onto the route.
type Candidate struct {
	Station        domain.ChargingStation
	MilesFromStart float64
	OffsetMiles    float64
}

// CorridorCandidates keeps the stations whose nearest path vertex lies within
// radiusMiles and records the along-path distance at that vertex. The result
// preserves the input order.
//
// Projection is to the nearest vertex, not the perpendicular foot on a segment;
// on sparse polylines a station beside a long straight segment can be missed.
func CorridorCandidates(line *Polyline, stations []domain.ChargingStation, radiusMiles float64) []Candidate {
	if line == nil || len(line.points) == 0 || radiusMiles < 0 {
		return nil
	}

	out := make([]Candidate, 0, len(stations))
	for _, s := range stations {
		idx, d := line.NearestVertex(s.Location)
		if idx < 0 || d > radiusMiles {
			continue
		}
		out = append(out, Candidate{
			Station:        s,
			MilesFromStart: line.offsets[idx],
			OffsetMiles:    d,
		})
	}
	return out
}
