package ports

import (
	"context"
	"ev-trip-planner/internal/domain"
)

// StationCatalog is the planner's only view of charging-network data.
type StationCatalog interface {
	// Return every known station within corridorRadiusMiles of the path.
	// The result is unordered.
	StationsNear(ctx context.Context, path domain.RoutePath, corridorRadiusMiles float64) ([]domain.ChargingStation, error)
}

// Port: a boundary for retrieving normalized stations from a data source.
type StationSource interface {
	// Retrieve stations located inside the bounding box.
	ListStationsInBounds(ctx context.Context, bounds domain.Bounds) ([]domain.ChargingStation, error)
}
