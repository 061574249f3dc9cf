package ports

import (
	"context"
	"ev-trip-planner/internal/domain"
)

// Contract for retrieving a road-following route.
type DirectionsProvider interface {
	// Return one RoutePath per leg: origin -> waypoints... -> destination.
	// Fails with domain.ErrRouteNotFound or domain.ErrProviderError.
	GetRoute(ctx context.Context, origin domain.Coordinates, destination domain.Coordinates, waypoints []domain.Coordinates) (*domain.Route, error)
}

// Persistent cache for directions results keyed by a normalized request.
type RouteCache interface {
	Get(ctx context.Context, key string) (*domain.Route, bool, error)
	Put(ctx context.Context, key string, route *domain.Route) error
}
