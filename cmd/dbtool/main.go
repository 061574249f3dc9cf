package main

import (
	"context"
	"database/sql"
	"ev-trip-planner/internal/adapters/catalog"
	"ev-trip-planner/internal/adapters/repositories"
	"ev-trip-planner/internal/config"
	"ev-trip-planner/internal/platform/db"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	defaultPower, err := config.GetFloat("DEFAULT_STATION_POWER_KW", 50)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := db.Open(ctx, databaseURL)
	if err != nil {
		slog.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	seedPath := config.Get("STATIONS_PATH", "data/seeds/stations.json")
	if err := initAndSeed(ctx, db, seedPath, defaultPower); err != nil {
		slog.Error("dbtool failed", "error", err)
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, db *sql.DB, seedPath string, defaultPowerKw float64) error {
	slog.Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, db); err != nil {
		return err
	}
	slog.Info("Schema ready.")

	feed, err := catalog.LoadFeedFile(seedPath, catalog.Normalizer{DefaultPowerKw: defaultPowerKw})
	if err != nil {
		return err
	}

	stations := feed.All()
	slog.Info("Seeding database...", "stations", len(stations), "path", seedPath)
	if err := repositories.SeedStations(ctx, db, stations); err != nil {
		return err
	}
	slog.Info("Seeding complete.")

	return nil
}
