package domain

import (
	"fmt"
	"math"
)

// RoutePath is the road-following polyline of one planning segment.
// Distance and duration come from the directions provider and are trusted as-is.
// A RoutePath is never mutated once a plan has been requested for it.
type RoutePath struct {
	Points          []Coordinates `json:"points"`
	DistanceMiles   float64       `json:"distance_miles"`
	DurationMinutes float64       `json:"duration_minutes"`
}

// NewRoutePath validates the polyline and the provider-supplied totals.
func NewRoutePath(points []Coordinates, distanceMiles, durationMinutes float64) (RoutePath, error) {
	if len(points) == 0 {
		return RoutePath{}, fmt.Errorf("%w: route path must contain at least one point", ErrInvalidInput)
	}
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return RoutePath{}, fmt.Errorf("route point %d: %w", i, err)
		}
	}
	if math.IsNaN(distanceMiles) || distanceMiles < 0 {
		return RoutePath{}, fmt.Errorf("%w: route distance %v must be non-negative", ErrInvalidInput, distanceMiles)
	}
	if math.IsNaN(durationMinutes) || durationMinutes < 0 {
		return RoutePath{}, fmt.Errorf("%w: route duration %v must be non-negative", ErrInvalidInput, durationMinutes)
	}

	pts := make([]Coordinates, len(points))
	copy(pts, points)

	return RoutePath{
		Points:          pts,
		DistanceMiles:   distanceMiles,
		DurationMinutes: durationMinutes,
	}, nil
}

// Origin returns the first point of the path.
func (r RoutePath) Origin() Coordinates { return r.Points[0] }

// Destination returns the last point of the path.
func (r RoutePath) Destination() Coordinates { return r.Points[len(r.Points)-1] }

// Route is the full directions result: one RoutePath per leg, where legs are
// separated by the requested waypoints.
type Route struct {
	Legs []RoutePath `json:"legs"`
}

func (r Route) DistanceMiles() float64 {
	total := 0.0
	for _, l := range r.Legs {
		total += l.DistanceMiles
	}
	return total
}

func (r Route) DurationMinutes() float64 {
	total := 0.0
	for _, l := range r.Legs {
		total += l.DurationMinutes
	}
	return total
}

// Waypoint is a mandatory intermediate stop, e.g. a hotel.
// Arrival charge carries over unless the waypoint is itself a charger.
type Waypoint struct {
	Location  Coordinates `json:"location"`
	Name      string      `json:"name,omitempty"`
	IsCharger bool        `json:"is_charger"`
}
