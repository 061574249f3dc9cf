package domain

import "fmt"

// ChargeStop is one finalized stop, in the order a driver reaches it.
type ChargeStop struct {
	Name                  string      `json:"name"`
	Location              Coordinates `json:"location"`
	MilesFromRouteStart   float64     `json:"miles_from_route_start"`
	ChargeDurationMinutes float64     `json:"charge_duration_minutes"`
	PowerKw               float64     `json:"power_kw"`
	ArrivalRangeMiles     float64     `json:"arrival_range_miles"`
	DepartureRangeMiles   float64     `json:"departure_range_miles"`
}

// PlanResult is the successful outcome of a planning request.
// Infeasibility and other failures are reported as errors instead.
type PlanResult struct {
	Stops               []ChargeStop `json:"charge_stops"`
	TotalDistanceMiles  float64      `json:"total_distance_miles"`
	DriveMinutes        float64      `json:"drive_minutes"`
	ChargeMinutes       float64      `json:"charge_minutes"`
	ArrivalRangeMiles   float64      `json:"arrival_range_miles"`
	EffectiveRangeMiles float64      `json:"effective_range_miles"`
}

// TripMinutes is driving plus charging time.
func (p PlanResult) TripMinutes() float64 { return p.DriveMinutes + p.ChargeMinutes }

// Objective selects what the planner optimizes once stops are fixed.
type Objective string

const (
	// ObjectiveFewestStops charges to full effective range at every stop.
	ObjectiveFewestStops Objective = "fewest_stops"
	// ObjectiveLeastChargeTime keeps the same stops but charges only enough
	// to reach the next stop or the destination.
	ObjectiveLeastChargeTime Objective = "least_charge_time"
)

func ParseObjective(s string) (Objective, error) {
	switch Objective(s) {
	case "", ObjectiveFewestStops:
		return ObjectiveFewestStops, nil
	case ObjectiveLeastChargeTime:
		return ObjectiveLeastChargeTime, nil
	}
	return "", fmt.Errorf("%w: unknown planning objective %q", ErrInvalidConfiguration, s)
}

// TripPlan is a PlanResult over a multi-leg route.
type TripPlan struct {
	ID        string         `json:"trip_id,omitempty"`
	Vehicle   VehicleProfile `json:"vehicle"`
	Waypoints []Waypoint     `json:"waypoints,omitempty"`
	PlanResult
}
