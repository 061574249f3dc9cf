package services

import (
	"context"
	"errors"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/energy"
	"ev-trip-planner/internal/geo"
	"fmt"
	"math"
	"slices"
	"strings"
)

// tolerance for along-path mileage comparisons
const mileEps = 1e-9

// ChargePlanInput describes one planning segment in along-path terms.
type ChargePlanInput struct {
	TotalMiles          float64
	DriveMinutes        float64
	EffectiveRangeMiles float64
	// StartRangeMiles is the usable range at mile 0. It is the effective range
	// for a fresh trip and the carried-over charge after a waypoint.
	StartRangeMiles float64
	Candidates      []geo.Candidate
	Vehicle         domain.VehicleProfile
	Energy          energy.Model
	Objective       domain.Objective
	// ChargeLastStopToFull keeps the segment's final stop at full charge even
	// under ObjectiveLeastChargeTime, for segments that end at a non-charging
	// waypoint and hand their arrival charge to the next segment.
	ChargeLastStopToFull bool
}

// PlanChargeStops selects charging stops with the greedy farthest-reachable
// rule and sizes each charge according to the objective.
//
// From the last commit point the planner picks, among stations strictly ahead
// and within current range, the one farthest along the path; equal mileage
// prefers higher power. The loop ends when the destination is within range,
// or fails with *domain.UnreachableGapError when no station is reachable.
// With full recharges this yields the minimum number of stops.
//
// ctx is checked between iterations; cancellation returns domain.ErrCancelled
// and never a partial plan.
func PlanChargeStops(ctx context.Context, in ChargePlanInput) (*domain.PlanResult, error) {
	if err := validateChargePlanInput(in); err != nil {
		return nil, fmt.Errorf("plan charge stops: %w", err)
	}

	candidates := usableCandidates(in.Candidates)

	covered := 0.0
	tank := math.Min(in.StartRangeMiles, in.EffectiveRangeMiles)
	commits := make([]geo.Candidate, 0)

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("plan charge stops: %w: %v", domain.ErrCancelled, err)
		}

		remaining := in.TotalMiles - covered
		if remaining <= tank+mileEps {
			break
		}

		reach := covered + tank
		best := -1
		for i, c := range candidates {
			if c.MilesFromStart <= covered+mileEps || c.MilesFromStart > reach+mileEps {
				continue
			}
			if best < 0 || preferCandidate(c, candidates[best]) {
				best = i
			}
		}

		if best < 0 {
			return nil, &domain.UnreachableGapError{AtMiles: covered, RangeMiles: tank}
		}

		commits = append(commits, candidates[best])
		covered = candidates[best].MilesFromStart
		tank = in.EffectiveRangeMiles
	}

	result := &domain.PlanResult{
		Stops:               make([]domain.ChargeStop, 0, len(commits)),
		TotalDistanceMiles:  in.TotalMiles,
		DriveMinutes:        in.DriveMinutes,
		EffectiveRangeMiles: in.EffectiveRangeMiles,
	}

	departure := math.Min(in.StartRangeMiles, in.EffectiveRangeMiles)
	last := 0.0
	for i, cp := range commits {
		arrival := departure - (cp.MilesFromStart - last)
		if arrival < 0 {
			arrival = 0
		}

		next := in.TotalMiles
		if i+1 < len(commits) {
			next = commits[i+1].MilesFromStart
		}

		departure = departureRange(in, arrival, next-cp.MilesFromStart, i == len(commits)-1)

		// fewest_stops reports the dwell for a full tank.
		milesNeeded := in.EffectiveRangeMiles
		if in.Objective == domain.ObjectiveLeastChargeTime {
			milesNeeded = departure - arrival
		}

		minutes, err := in.Energy.ChargeDurationMinutes(milesNeeded, cp.Station.PowerKw, in.Vehicle.ChargingRateKw)
		if err != nil {
			return nil, fmt.Errorf("plan charge stops: stop %q: %w", cp.Station.Name, err)
		}

		result.Stops = append(result.Stops, domain.ChargeStop{
			Name:                  cp.Station.Name,
			Location:              cp.Station.Location,
			MilesFromRouteStart:   cp.MilesFromStart,
			ChargeDurationMinutes: minutes,
			PowerKw:               cp.Station.PowerKw,
			ArrivalRangeMiles:     arrival,
			DepartureRangeMiles:   departure,
		})
		result.ChargeMinutes += minutes
		last = cp.MilesFromStart
	}

	result.ArrivalRangeMiles = math.Max(0, departure-(in.TotalMiles-last))

	return result, nil
}

// departureRange is the range to leave a stop with.
func departureRange(in ChargePlanInput, arrival, toNext float64, lastStop bool) float64 {
	if in.Objective != domain.ObjectiveLeastChargeTime || (lastStop && in.ChargeLastStopToFull) {
		return in.EffectiveRangeMiles
	}
	// Greedy selection guarantees toNext <= effective range.
	return math.Min(in.EffectiveRangeMiles, math.Max(arrival, toNext))
}

func validateChargePlanInput(in ChargePlanInput) error {
	if math.IsNaN(in.TotalMiles) || math.IsInf(in.TotalMiles, 0) || in.TotalMiles < 0 {
		return fmt.Errorf("%w: total route distance must be non-negative, got %v", domain.ErrInvalidInput, in.TotalMiles)
	}
	if math.IsNaN(in.EffectiveRangeMiles) || in.EffectiveRangeMiles <= 0 {
		return fmt.Errorf("%w: effective range must be positive, got %v", domain.ErrInvalidInput, in.EffectiveRangeMiles)
	}
	if math.IsNaN(in.StartRangeMiles) || in.StartRangeMiles < 0 {
		return fmt.Errorf("%w: start range must be non-negative, got %v", domain.ErrInvalidInput, in.StartRangeMiles)
	}
	if err := in.Vehicle.Validate(); err != nil {
		return err
	}
	if err := in.Energy.Validate(); err != nil {
		return err
	}
	if _, err := domain.ParseObjective(string(in.Objective)); err != nil {
		return err
	}
	return nil
}

// usableCandidates drops duplicates (same location and name), stations that
// report zero free stalls or no usable power, and fixes a deterministic order.
func usableCandidates(in []geo.Candidate) []geo.Candidate {
	seen := make(map[string]int, len(in))
	out := make([]geo.Candidate, 0, len(in))

	for _, c := range in {
		if !c.Station.HasAvailableStall() || !(c.Station.PowerKw > 0) {
			continue
		}

		key := c.Station.DedupKey()
		if i, ok := seen[key]; ok {
			// Overlapping sources may disagree; keep the better-equipped record.
			if c.Station.PowerKw > out[i].Station.PowerKw {
				out[i] = c
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b geo.Candidate) int {
		switch {
		case a.MilesFromStart < b.MilesFromStart:
			return -1
		case a.MilesFromStart > b.MilesFromStart:
			return 1
		case a.Station.PowerKw > b.Station.PowerKw:
			return -1
		case a.Station.PowerKw < b.Station.PowerKw:
			return 1
		}
		return strings.Compare(a.Station.DedupKey(), b.Station.DedupKey())
	})

	return out
}

// preferCandidate reports whether a beats b: farther along the path first,
// then higher power, then the stable key order.
func preferCandidate(a, b geo.Candidate) bool {
	if math.Abs(a.MilesFromStart-b.MilesFromStart) > mileEps {
		return a.MilesFromStart > b.MilesFromStart
	}
	if a.Station.PowerKw != b.Station.PowerKw {
		return a.Station.PowerKw > b.Station.PowerKw
	}
	return a.Station.DedupKey() < b.Station.DedupKey()
}

// isGap reports whether err is an infeasibility outcome rather than a failure.
func isGap(err error) (*domain.UnreachableGapError, bool) {
	var gap *domain.UnreachableGapError
	if errors.As(err, &gap) {
		return gap, true
	}
	return nil, false
}
