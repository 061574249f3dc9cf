package main

import (
	"context"
	"database/sql"
	"ev-trip-planner/internal/adapters/cache"
	"ev-trip-planner/internal/adapters/catalog"
	"ev-trip-planner/internal/adapters/directions"
	"ev-trip-planner/internal/adapters/repositories"
	"ev-trip-planner/internal/adapters/session"
	"ev-trip-planner/internal/adapters/vehicles"
	"ev-trip-planner/internal/api"
	"ev-trip-planner/internal/config"
	"ev-trip-planner/internal/platform/db"
	"ev-trip-planner/internal/ports"
	"ev-trip-planner/internal/services"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	ctx := context.Background()

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		sqlDB, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			fatal("open database", err)
		}
		defer sqlDB.Close()

		if err := repositories.InitSchema(ctx, sqlDB); err != nil {
			fatal("init schema", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = db.OpenRedis(ctx, cfg.RedisAddr, 20)
		if err != nil {
			fatal("open redis", err)
		}
		defer redisClient.Close()
	}

	stationCatalog, err := buildStationCatalog(cfg, sqlDB, redisClient)
	if err != nil {
		fatal("build station catalog", err)
	}

	provider, err := buildDirections(cfg, sqlDB)
	if err != nil {
		fatal("build directions provider", err)
	}

	var trips ports.TripStore = session.NewMemoryTripStore()
	if redisClient != nil {
		trips = session.NewRedisTripStore(redisClient, cfg.TripTTL)
	}

	router := api.NewRouter(api.Deps{
		Vehicles:   vehicles.NewStaticCatalog(),
		Directions: provider,
		Planner: &services.ChargePlanner{
			Catalog:             stationCatalog,
			Energy:              cfg.EnergyModel(),
			SafetyMargin:        cfg.SafetyMargin,
			CorridorRadiusMiles: cfg.CorridorRadiusMiles,
			CatalogTimeout:      cfg.CatalogTimeout,
			Objective:           cfg.Objective,
		},
		Trips: trips,
	})

	// Timeouts are tuned for cold-cache route planning (external API latency).
	slog.Info("Server listening", "addr", ":"+cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		fatal("server stopped", err)
	}
}

// buildStationCatalog prefers the Postgres station table and falls back to a
// feed file. Redis, when configured, memoizes corridor lookups.
func buildStationCatalog(cfg config.Config, sqlDB *sql.DB, redisClient *redis.Client) (ports.StationCatalog, error) {
	var source ports.StationSource
	if sqlDB != nil {
		source = repositories.NewPostgresStationRepository(sqlDB)
	} else {
		mem, err := catalog.LoadFeedFile(cfg.StationsPath, catalog.Normalizer{DefaultPowerKw: cfg.DefaultStationPowerKw})
		if err != nil {
			return nil, err
		}
		source = mem
	}

	var stations ports.StationCatalog = catalog.NewCorridorCatalog(source)
	if redisClient != nil {
		stations = cache.NewRedisStationCache(stations, redisClient, cfg.StationCacheTTL)
	}
	return stations, nil
}

// buildDirections uses ORS when a key is present, with the persistent route
// cache when a database is available. Without a key, routes are straight lines.
func buildDirections(cfg config.Config, sqlDB *sql.DB) (ports.DirectionsProvider, error) {
	if cfg.ORSAPIKey == "" {
		slog.Warn("ORS_API_KEY not set; using straight-line routes")
		return directions.NewStraightLineProvider(), nil
	}

	var routeCache ports.RouteCache
	if sqlDB != nil {
		routeCache = cache.NewSQLRouteCache(sqlDB)
	}

	p, err := directions.NewORSDirectionsProvider(cfg.ORSAPIKey, routeCache)
	if err != nil {
		return nil, fmt.Errorf("ors provider: %w", err)
	}
	return p, nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
