package cache

import (
	"context"
	"encoding/json"
	"errors"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/platform/obs"
	"ev-trip-planner/internal/ports"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

const stationKeyPrefix = "stations:"

// RedisStationCache wraps a StationCatalog and memoizes corridor lookups in
// Redis. Redis failures degrade to a direct catalog call.
type RedisStationCache struct {
	Next   ports.StationCatalog
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStationCache(next ports.StationCatalog, client *redis.Client, ttl time.Duration) *RedisStationCache {
	return &RedisStationCache{Next: next, Client: client, TTL: ttl}
}

func (c *RedisStationCache) StationsNear(
	ctx context.Context,
	path domain.RoutePath,
	corridorRadiusMiles float64,
) (_ []domain.ChargingStation, err error) {
	defer obs.Time(ctx, "stations.cache.StationsNear")(&err)

	if c.Next == nil {
		return nil, errors.New("station cache: next catalog is nil")
	}
	if c.Client == nil {
		return c.Next.StationsNear(ctx, path, corridorRadiusMiles)
	}

	key := StationsKey(path, corridorRadiusMiles)

	raw, err := c.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var stations []domain.ChargingStation
		jerr := json.Unmarshal(raw, &stations)
		if jerr == nil {
			return stations, nil
		}
		slog.WarnContext(ctx, "station cache entry unreadable", "key", key, "error", jerr)
	case errors.Is(err, redis.Nil):
	default:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.WarnContext(ctx, "station cache read failed", "key", key, "error", err)
	}

	stations, err := c.Next.StationsNear(ctx, path, corridorRadiusMiles)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(stations)
	if err != nil {
		return nil, fmt.Errorf("station cache: encode stations: %w", err)
	}
	if werr := c.Client.Set(ctx, key, payload, c.TTL).Err(); werr != nil {
		slog.WarnContext(ctx, "station cache write failed", "key", key, "error", werr)
	}

	return stations, nil
}

// StationsKey fingerprints a path and radius. Coordinates are rounded to
// about a meter so that re-fetched routes reuse entries.
func StationsKey(path domain.RoutePath, corridorRadiusMiles float64) string {
	d := xxhash.New()
	for _, p := range path.Points {
		_, _ = d.WriteString(p.Key())
		_, _ = d.WriteString(";")
	}
	_, _ = d.WriteString(strconv.FormatFloat(corridorRadiusMiles, 'f', 3, 64))

	return stationKeyPrefix + strconv.FormatUint(d.Sum64(), 16)
}
