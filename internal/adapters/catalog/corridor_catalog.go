package catalog

import (
	"context"
	"errors"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/geo"
	"ev-trip-planner/internal/platform/obs"
	"ev-trip-planner/internal/ports"
	"fmt"
	"math"
)

// CorridorCatalog implements StationCatalog over any StationSource.
//
// The source is asked once for the route's padded bounding box; the result is
// then narrowed to the corridor with the same nearest-vertex test the planner
// uses for along-path distances.
type CorridorCatalog struct {
	Source ports.StationSource
}

func NewCorridorCatalog(source ports.StationSource) *CorridorCatalog {
	return &CorridorCatalog{Source: source}
}

func (c *CorridorCatalog) StationsNear(
	ctx context.Context,
	path domain.RoutePath,
	corridorRadiusMiles float64,
) (_ []domain.ChargingStation, err error) {
	defer obs.Time(ctx, "catalog.StationsNear")(&err)

	if c.Source == nil {
		return nil, errors.New("corridor catalog: source is nil")
	}
	if len(path.Points) == 0 {
		return nil, fmt.Errorf("corridor catalog: %w: empty path", domain.ErrInvalidInput)
	}
	if math.IsNaN(corridorRadiusMiles) || corridorRadiusMiles < 0 {
		return nil, fmt.Errorf("corridor catalog: %w: radius %v", domain.ErrInvalidInput, corridorRadiusMiles)
	}

	bounds := geo.BoundingBox(path.Points, corridorRadiusMiles)
	inBox, err := c.Source.ListStationsInBounds(ctx, bounds)
	if err != nil {
		return nil, fmt.Errorf("corridor catalog: list stations: %w", err)
	}

	candidates := geo.CorridorCandidates(geo.NewPolyline(path), inBox, corridorRadiusMiles)

	out := make([]domain.ChargingStation, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, cand.Station)
	}
	return out, nil
}
