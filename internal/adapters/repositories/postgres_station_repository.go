package repositories

import (
	"context"
	"database/sql"
	"errors"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/platform/obs"
	"fmt"
)

// Postgres-backed implementation of the StationSource port.
type PostgresStationRepository struct{ DB *sql.DB }

func NewPostgresStationRepository(db *sql.DB) *PostgresStationRepository {
	return &PostgresStationRepository{DB: db}
}

// Return all stations inside the bounding box.
func (s *PostgresStationRepository) ListStationsInBounds(
	ctx context.Context,
	bounds domain.Bounds,
) (_ []domain.ChargingStation, err error) {
	defer obs.Time(ctx, "stations.repo.ListStationsInBounds")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres station repository: DB is nil")
	}

	query := `
	SELECT
		station_id,
		network,
		name,
		lat,
		lon,
		available_stalls,
		power_kw
	FROM charging_stations
	WHERE lat BETWEEN $1 AND $2
		AND lon BETWEEN $3 AND $4
	ORDER BY station_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon)
	if err != nil {
		return nil, fmt.Errorf("list stations: query charging_stations table: %w", err)
	}
	defer rows.Close()

	stations := make([]domain.ChargingStation, 0, 64)
	for rows.Next() {
		var st domain.ChargingStation
		var stalls sql.NullInt64
		err := rows.Scan(&st.ID, &st.Network, &st.Name, &st.Location.Lat, &st.Location.Lon, &stalls, &st.PowerKw)
		if err != nil {
			return nil, fmt.Errorf("list stations: scan row: %w", err)
		}
		if stalls.Valid {
			n := int(stalls.Int64)
			st.AvailableStalls = &n
		}
		stations = append(stations, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: row iteration: %w", err)
	}

	return stations, nil
}
