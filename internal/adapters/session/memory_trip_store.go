package session

import (
	"context"
	"errors"
	"ev-trip-planner/internal/domain"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryTripStore is the process-local TripStore used when no Redis is configured.
// Entries live until the process exits.
type MemoryTripStore struct {
	mu    sync.RWMutex
	trips map[string]domain.TripPlan
}

func NewMemoryTripStore() *MemoryTripStore {
	return &MemoryTripStore{trips: make(map[string]domain.TripPlan)}
}

func (s *MemoryTripStore) Save(_ context.Context, plan *domain.TripPlan) (string, error) {
	if plan == nil {
		return "", errors.New("save trip: plan is nil")
	}

	id := uuid.NewString()
	stored := *plan
	stored.ID = id
	stored.Stops = append([]domain.ChargeStop(nil), plan.Stops...)
	stored.Waypoints = append([]domain.Waypoint(nil), plan.Waypoints...)

	s.mu.Lock()
	s.trips[id] = stored
	s.mu.Unlock()

	plan.ID = id
	return id, nil
}

func (s *MemoryTripStore) Get(_ context.Context, id string) (*domain.TripPlan, error) {
	s.mu.RLock()
	plan, ok := s.trips[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTripNotFound, id)
	}
	return &plan, nil
}
