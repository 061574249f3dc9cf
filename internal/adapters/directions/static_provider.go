package directions

import (
	"context"
	"encoding/json"
	"ev-trip-planner/internal/domain"
	"fmt"
	"os"
)

// StaticDirectionsProvider serves a route loaded ahead of time, e.g. a
// directions response saved to disk for offline planning.
type StaticDirectionsProvider struct {
	route *domain.Route
}

func NewStaticDirectionsProvider(route *domain.Route) *StaticDirectionsProvider {
	return &StaticDirectionsProvider{route: route}
}

// routeFile is the on-disk format: either a single path or explicit legs.
type routeFile struct {
	Legs            []routeFileLeg       `json:"legs"`
	Points          []domain.Coordinates `json:"points"`
	DistanceMiles   float64              `json:"distance_miles"`
	DurationMinutes float64              `json:"duration_minutes"`
}

type routeFileLeg struct {
	Points          []domain.Coordinates `json:"points"`
	DistanceMiles   float64              `json:"distance_miles"`
	DurationMinutes float64              `json:"duration_minutes"`
}

// LoadRouteFile reads a saved route from jsonPath.
func LoadRouteFile(jsonPath string) (*domain.Route, error) {
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load route: read %q: %w", jsonPath, err)
	}

	var rf routeFile
	if err := json.Unmarshal(b, &rf); err != nil {
		return nil, fmt.Errorf("load route: parse json: %w", err)
	}

	legs := rf.Legs
	if len(legs) == 0 {
		legs = []routeFileLeg{{Points: rf.Points, DistanceMiles: rf.DistanceMiles, DurationMinutes: rf.DurationMinutes}}
	}

	route := &domain.Route{Legs: make([]domain.RoutePath, 0, len(legs))}
	for i, l := range legs {
		path, err := domain.NewRoutePath(l.Points, l.DistanceMiles, l.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("load route: leg %d: %w", i+1, err)
		}
		route.Legs = append(route.Legs, path)
	}

	return route, nil
}

// GetRoute ignores the requested stops and returns the preloaded route.
// The leg count must still match the waypoint count.
func (p *StaticDirectionsProvider) GetRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	waypoints []domain.Coordinates,
) (*domain.Route, error) {
	if p.route == nil || len(p.route.Legs) == 0 {
		return nil, fmt.Errorf("%w: no route loaded", domain.ErrRouteNotFound)
	}
	if len(p.route.Legs) != len(waypoints)+1 {
		return nil, fmt.Errorf(
			"%w: loaded route has %d legs, request needs %d",
			domain.ErrRouteNotFound, len(p.route.Legs), len(waypoints)+1,
		)
	}
	return p.route, nil
}
