package session

import (
	"context"
	"encoding/json"
	"errors"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/platform/obs"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const tripKeyPrefix = "trip:"

// RedisTripStore keeps finished plans in Redis under trip:<id> until TTL expiry.
type RedisTripStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisTripStore(client *redis.Client, ttl time.Duration) *RedisTripStore {
	return &RedisTripStore{Client: client, TTL: ttl}
}

func (s *RedisTripStore) Save(ctx context.Context, plan *domain.TripPlan) (_ string, err error) {
	defer obs.Time(ctx, "trips.redis.Save")(&err)

	if s.Client == nil {
		return "", errors.New("redis trip store: client is nil")
	}
	if plan == nil {
		return "", errors.New("save trip: plan is nil")
	}

	id := uuid.NewString()
	stored := *plan
	stored.ID = id

	payload, err := json.Marshal(&stored)
	if err != nil {
		return "", fmt.Errorf("save trip: encode plan: %w", err)
	}

	if err := s.Client.Set(ctx, tripKeyPrefix+id, payload, s.TTL).Err(); err != nil {
		return "", fmt.Errorf("save trip %s: %w", id, err)
	}

	plan.ID = id
	return id, nil
}

func (s *RedisTripStore) Get(ctx context.Context, id string) (_ *domain.TripPlan, err error) {
	defer obs.Time(ctx, "trips.redis.Get")(&err)

	if s.Client == nil {
		return nil, errors.New("redis trip store: client is nil")
	}
	if _, perr := uuid.Parse(id); perr != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrTripNotFound, id)
	}

	raw, err := s.Client.Get(ctx, tripKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTripNotFound, id)
		}
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}

	var plan domain.TripPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("get trip %s: decode plan: %w", id, err)
	}

	return &plan, nil
}
