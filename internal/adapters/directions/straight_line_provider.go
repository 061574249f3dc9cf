package directions

import (
	"context"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/geo"
	"fmt"
)

// StraightLineProvider builds legs as interpolated great-circle chords.
// It is a stand-in when no directions service is configured: distances are
// under-estimates of the road distance, scaled by DetourFactor.
type StraightLineProvider struct {
	// PointsPerLeg is the number of interpolation steps per leg.
	PointsPerLeg int
	// AverageSpeedMph converts distance to duration.
	AverageSpeedMph float64
	// DetourFactor multiplies the chord length to approximate road distance.
	DetourFactor float64
}

func NewStraightLineProvider() *StraightLineProvider {
	return &StraightLineProvider{PointsPerLeg: 50, AverageSpeedMph: 60, DetourFactor: 1.2}
}

func (s *StraightLineProvider) GetRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	waypoints []domain.Coordinates,
) (*domain.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCancelled, err)
	}

	stops := make([]domain.Coordinates, 0, len(waypoints)+2)
	stops = append(stops, origin)
	stops = append(stops, waypoints...)
	stops = append(stops, destination)

	detour := s.DetourFactor
	if detour < 1 {
		detour = 1
	}

	legs := make([]domain.RoutePath, 0, len(stops)-1)
	for i := 1; i < len(stops); i++ {
		miles := geo.Distance(stops[i-1], stops[i]) * detour

		minutes := 0.0
		if s.AverageSpeedMph > 0 {
			minutes = miles / s.AverageSpeedMph * 60
		}

		leg, err := domain.NewRoutePath(geo.Interpolate(stops[i-1], stops[i], s.PointsPerLeg), miles, minutes)
		if err != nil {
			return nil, fmt.Errorf("straight line leg %d: %w", i, err)
		}
		legs = append(legs, leg)
	}

	return &domain.Route{Legs: legs}, nil
}
