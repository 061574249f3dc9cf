package services

import (
	"context"
	"errors"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/energy"
	"ev-trip-planner/internal/geo"
	"ev-trip-planner/internal/platform/obs"
	"ev-trip-planner/internal/ports"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// ChargePlanner binds the planning settings to a station catalog.
// It holds no per-request state and is safe for concurrent use.
type ChargePlanner struct {
	Catalog             ports.StationCatalog
	Energy              energy.Model
	SafetyMargin        float64
	CorridorRadiusMiles float64
	// CatalogTimeout bounds the one external call made per leg. Zero disables it.
	CatalogTimeout time.Duration
	Objective      domain.Objective
}

// LegState is the vehicle state entering a leg.
type LegState struct {
	StartRangeMiles float64
	// EndsAtWaypoint marks legs whose arrival charge is carried into the next leg.
	EndsAtWaypoint bool
}

func (p *ChargePlanner) validate() error {
	if p.Catalog == nil {
		return fmt.Errorf("%w: station catalog is nil", domain.ErrInvalidConfiguration)
	}
	if err := energy.ValidateSafetyMargin(p.SafetyMargin); err != nil {
		return err
	}
	if err := p.Energy.Validate(); err != nil {
		return err
	}
	if math.IsNaN(p.CorridorRadiusMiles) || p.CorridorRadiusMiles < 0 {
		return fmt.Errorf("%w: corridor radius must be non-negative, got %v", domain.ErrInvalidConfiguration, p.CorridorRadiusMiles)
	}
	if _, err := domain.ParseObjective(string(p.Objective)); err != nil {
		return err
	}
	return nil
}

// EffectiveRange applies the planner's safety margin to the vehicle.
func (p *ChargePlanner) EffectiveRange(vehicle domain.VehicleProfile) (float64, error) {
	return energy.EffectiveRange(vehicle, p.SafetyMargin)
}

// PlanPath plans a single path starting at full effective range.
func (p *ChargePlanner) PlanPath(
	ctx context.Context,
	path domain.RoutePath,
	vehicle domain.VehicleProfile,
) (*domain.PlanResult, error) {
	effectiveRange, err := p.EffectiveRange(vehicle)
	if err != nil {
		return nil, fmt.Errorf("plan path: %w", err)
	}
	return p.PlanLeg(ctx, path, vehicle, LegState{StartRangeMiles: effectiveRange})
}

// PlanLeg plans one path segment from the given starting state.
// The station catalog is queried once for the whole segment, and only when
// the segment cannot be driven on the starting charge.
func (p *ChargePlanner) PlanLeg(
	ctx context.Context,
	path domain.RoutePath,
	vehicle domain.VehicleProfile,
	state LegState,
) (_ *domain.PlanResult, err error) {
	defer obs.Time(ctx, "planner.PlanLeg")(&err)

	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("plan leg: %w", err)
	}
	if len(path.Points) == 0 {
		return nil, fmt.Errorf("plan leg: %w: route path has no points", domain.ErrInvalidInput)
	}

	effectiveRange, err := p.EffectiveRange(vehicle)
	if err != nil {
		return nil, fmt.Errorf("plan leg: %w", err)
	}

	line := geo.NewPolyline(path)
	in := ChargePlanInput{
		TotalMiles:           line.Length(),
		DriveMinutes:         path.DurationMinutes,
		EffectiveRangeMiles:  effectiveRange,
		StartRangeMiles:      state.StartRangeMiles,
		Vehicle:              vehicle,
		Energy:               p.Energy,
		Objective:            p.Objective,
		ChargeLastStopToFull: state.EndsAtWaypoint,
	}

	// Zero-length routes and legs within the starting range need no stations.
	if in.TotalMiles > math.Min(state.StartRangeMiles, effectiveRange)+mileEps {
		stations, err := p.stationsNear(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("plan leg: %w", err)
		}
		in.Candidates = geo.CorridorCandidates(line, stations, p.CorridorRadiusMiles)

		slog.DebugContext(ctx, "corridor candidates",
			"stations", len(stations),
			"candidates", len(in.Candidates),
			"route_miles", in.TotalMiles,
		)
	}

	result, err := PlanChargeStops(ctx, in)
	if err != nil {
		if gap, ok := isGap(err); ok && gap.Location == nil {
			at := math.Min(math.Max(gap.AtMiles, 0), line.Length())
			if loc, perr := line.PointAtDistance(at); perr == nil {
				gap.Location = &loc
			}
		}
		return nil, err
	}

	return result, nil
}

func (p *ChargePlanner) stationsNear(ctx context.Context, path domain.RoutePath) ([]domain.ChargingStation, error) {
	callCtx := ctx
	if p.CatalogTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.CatalogTimeout)
		defer cancel()
	}

	stations, err := p.Catalog.StationsNear(callCtx, path, p.CorridorRadiusMiles)
	if err != nil {
		// The caller went away: cancellation, not a catalog failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCancelled, ctxErr)
		}
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	return stations, nil
}
