package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/platform/obs"
	"fmt"
	"strings"
)

// SQLRouteCache is a Postgres-backed cache of directions results keyed by the
// normalized stop list.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// Fetch a cached route. A miss is (nil, false, nil).
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ *domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT payload
	FROM route_cache
	WHERE route_key = $1;
	`

	var payload []byte
	if err := s.DB.QueryRowContext(ctx, q, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var route domain.Route
	if err := json.Unmarshal(payload, &route); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode payload: %w", err)
	}

	return &route, true, nil
}

// Store a route, replacing any previous entry for the key.
func (s *SQLRouteCache) Put(ctx context.Context, key string, route *domain.Route) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}
	if route == nil {
		return errors.New("insert route cache: route is nil")
	}

	payload, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("insert route cache: encode payload: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (route_key, distance_miles, duration_minutes, payload)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (route_key) DO UPDATE
	SET distance_miles = EXCLUDED.distance_miles,
		duration_minutes = EXCLUDED.duration_minutes,
		payload = EXCLUDED.payload,
		updated_at = now();
	`, key, route.DistanceMiles(), route.DurationMinutes(), payload)
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
