package ports

import (
	"context"
	"ev-trip-planner/internal/domain"
)

// Static table of known vehicle profiles keyed by model identifier.
type VehicleCatalog interface {
	GetVehicle(ctx context.Context, modelID string) (domain.VehicleProfile, error)
	ListVehicles(ctx context.Context) ([]domain.VehicleProfile, error)
}
