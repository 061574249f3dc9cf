package ports

import (
	"context"
	"ev-trip-planner/internal/domain"
)

// TripStore persists finished plans so clients can fetch them again.
// The planner never touches it.
type TripStore interface {
	Save(ctx context.Context, plan *domain.TripPlan) (string, error)
	Get(ctx context.Context, id string) (*domain.TripPlan, error)
}
