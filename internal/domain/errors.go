package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrOutOfRangeDistance   = errors.New("distance out of range")
	ErrRouteNotFound        = errors.New("route not found")
	ErrProviderError        = errors.New("directions provider error")
	ErrCatalogUnavailable   = errors.New("station catalog unavailable")
	ErrCancelled            = errors.New("planning cancelled")
	ErrUnreachableGap       = errors.New("unreachable charging gap")
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrTripNotFound         = errors.New("trip not found")
)

// UnreachableGapError reports where along the route the trip becomes infeasible.
// Location is the route point at AtMiles when it could be resolved.
type UnreachableGapError struct {
	AtMiles    float64
	RangeMiles float64
	Location   *Coordinates
}

func (e *UnreachableGapError) Error() string {
	return fmt.Sprintf("unreachable charging gap at mile %.1f: no station within %.1f miles", e.AtMiles, e.RangeMiles)
}

func (e *UnreachableGapError) Is(target error) bool { return target == ErrUnreachableGap }
