package repositories

import (
	"context"
	"database/sql"
	"errors"
	"ev-trip-planner/internal/domain"
	"fmt"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStationsQuery := `
	CREATE TABLE IF NOT EXISTS charging_stations (
		station_id TEXT PRIMARY KEY,
		network TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		available_stalls INTEGER,
		power_kw DOUBLE PRECISION NOT NULL
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		route_key TEXT PRIMARY KEY,
		distance_miles DOUBLE PRECISION NOT NULL,
		duration_minutes DOUBLE PRECISION NOT NULL,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_charging_stations_lat_lon
	ON charging_stations(lat, lon);
	`

	statements := []string{
		createStationsQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Upsert normalized stations, typically from a feed file.
func SeedStations(ctx context.Context, db *sql.DB, stations []domain.ChargingStation) error {
	if db == nil {
		return errors.New("seed stations: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO charging_stations (
		station_id,
		network,
		name,
		lat,
		lon,
		available_stalls,
		power_kw
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (station_id) DO UPDATE
	SET network = EXCLUDED.network,
		name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		available_stalls = EXCLUDED.available_stalls,
		power_kw = EXCLUDED.power_kw;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed stations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range stations {
		if s.ID == "" {
			return fmt.Errorf("seed stations: station at index %d has no id", i)
		}
		if err := s.Location.Validate(); err != nil {
			return fmt.Errorf("seed stations: station %q: %w", s.ID, err)
		}

		var stalls sql.NullInt64
		if s.AvailableStalls != nil {
			stalls = sql.NullInt64{Int64: int64(*s.AvailableStalls), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, s.ID, s.Network, s.Name, s.Location.Lat, s.Location.Lon, stalls, s.PowerKw); err != nil {
			return fmt.Errorf("seed stations: insert station_id=%q: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stations: commit tx: %w", err)
	}

	return nil
}
