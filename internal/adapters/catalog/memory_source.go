package catalog

import (
	"context"
	"ev-trip-planner/internal/domain"
	"fmt"
	"os"
)

// MemorySource is an in-memory StationSource, typically loaded from a feed file.
type MemorySource struct {
	stations []domain.ChargingStation
}

func NewMemorySource(stations []domain.ChargingStation) *MemorySource {
	cp := make([]domain.ChargingStation, len(stations))
	copy(cp, stations)
	return &MemorySource{stations: cp}
}

// LoadFeedFile reads and normalizes a station feed from disk.
func LoadFeedFile(path string, n Normalizer) (*MemorySource, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load station feed: read %q: %w", path, err)
	}

	stations, err := n.ParseFeed(b)
	if err != nil {
		return nil, fmt.Errorf("load station feed %q: %w", path, err)
	}
	return NewMemorySource(stations), nil
}

func (m *MemorySource) ListStationsInBounds(ctx context.Context, bounds domain.Bounds) ([]domain.ChargingStation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.ChargingStation, 0)
	for _, s := range m.stations {
		if bounds.Contains(s.Location) {
			out = append(out, s)
		}
	}
	return out, nil
}

// All returns every station in the source.
func (m *MemorySource) All() []domain.ChargingStation {
	cp := make([]domain.ChargingStation, len(m.stations))
	copy(cp, m.stations)
	return cp
}
