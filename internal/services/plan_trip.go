package services

import (
	"context"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/ports"
	"fmt"
	"strings"
)

type PlanTripRequest struct {
	Origin       domain.Coordinates
	Destination  domain.Coordinates
	Waypoints    []domain.Waypoint
	VehicleModel string
	// Objective overrides the planner default when set.
	Objective domain.Objective
}

func (r PlanTripRequest) validate() error {
	if err := r.Origin.Validate(); err != nil {
		return fmt.Errorf("origin: %w", err)
	}
	if err := r.Destination.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	for i, wp := range r.Waypoints {
		if err := wp.Location.Validate(); err != nil {
			return fmt.Errorf("waypoint %d: %w", i+1, err)
		}
	}
	if strings.TrimSpace(r.VehicleModel) == "" {
		return fmt.Errorf("%w: vehicle model is required", domain.ErrInvalidInput)
	}
	return nil
}

// PlanTrip resolves the vehicle and route, then plans each leg in order.
//
// Waypoints split the route into legs. The charge left on arrival at a
// waypoint carries into the next leg unless the waypoint is itself a charger,
// in which case the next leg starts at full effective range. Stop mileage is
// reported from the trip origin.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	vehicles ports.VehicleCatalog,
	directions ports.DirectionsProvider,
	planner *ChargePlanner,
) (*domain.TripPlan, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	vehicle, err := vehicles.GetVehicle(ctx, req.VehicleModel)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	p := *planner
	if req.Objective != "" {
		p.Objective = req.Objective
	}

	effectiveRange, err := p.EffectiveRange(vehicle)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	trip := &domain.TripPlan{
		Vehicle:   vehicle,
		Waypoints: req.Waypoints,
		PlanResult: domain.PlanResult{
			Stops:               []domain.ChargeStop{},
			EffectiveRangeMiles: effectiveRange,
			ArrivalRangeMiles:   effectiveRange,
		},
	}

	// Origin == destination with no stops in between: nothing to drive.
	if req.Origin == req.Destination && len(req.Waypoints) == 0 {
		return trip, nil
	}

	waypoints := make([]domain.Coordinates, 0, len(req.Waypoints))
	for _, wp := range req.Waypoints {
		waypoints = append(waypoints, wp.Location)
	}

	route, err := directions.GetRoute(ctx, req.Origin, req.Destination, waypoints)
	if err != nil {
		return nil, fmt.Errorf("plan trip: get route: %w", err)
	}
	if route == nil || len(route.Legs) != len(waypoints)+1 {
		got := 0
		if route != nil {
			got = len(route.Legs)
		}
		return nil, fmt.Errorf(
			"plan trip: %w: expected %d route legs, got %d",
			domain.ErrProviderError, len(waypoints)+1, got,
		)
	}

	rangeLeft := effectiveRange
	offset := 0.0
	for i, leg := range route.Legs {
		endsAtWaypoint := i < len(req.Waypoints)

		res, err := p.PlanLeg(ctx, leg, vehicle, LegState{
			StartRangeMiles: rangeLeft,
			EndsAtWaypoint:  endsAtWaypoint && !req.Waypoints[i].IsCharger,
		})
		if err != nil {
			if gap, ok := isGap(err); ok {
				gap.AtMiles += offset
			}
			return nil, fmt.Errorf("plan trip: leg %d: %w", i+1, err)
		}

		for _, s := range res.Stops {
			s.MilesFromRouteStart += offset
			trip.Stops = append(trip.Stops, s)
		}
		trip.TotalDistanceMiles += res.TotalDistanceMiles
		trip.DriveMinutes += res.DriveMinutes
		trip.ChargeMinutes += res.ChargeMinutes
		trip.ArrivalRangeMiles = res.ArrivalRangeMiles

		rangeLeft = res.ArrivalRangeMiles
		if endsAtWaypoint && req.Waypoints[i].IsCharger {
			rangeLeft = effectiveRange
		}
		offset += res.TotalDistanceMiles
	}

	return trip, nil
}
