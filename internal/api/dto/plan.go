package dto

import "ev-trip-planner/internal/domain"

type WaypointRequest struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Name      string  `json:"name"`
	IsCharger bool    `json:"is_charger"`
}

type PlanRequest struct {
	Origin       *domain.Coordinates `json:"origin"`
	Destination  *domain.Coordinates `json:"destination"`
	Waypoints    []WaypointRequest   `json:"waypoints"`
	VehicleModel string              `json:"vehicle_model"`
	Objective    string              `json:"objective"`
}

type ChargeStopResponse struct {
	Name                  string             `json:"name"`
	Location              domain.Coordinates `json:"location"`
	MilesFromRouteStart   float64            `json:"miles_from_route_start"`
	ChargeDurationMinutes float64            `json:"charge_duration_minutes"`
	PowerKw               float64            `json:"power_kw"`
	ArrivalRangeMiles     float64            `json:"arrival_range_miles"`
	DepartureRangeMiles   float64            `json:"departure_range_miles"`
}

type PlanResponse struct {
	TripID              string               `json:"trip_id,omitempty"`
	Vehicle             VehicleResponse      `json:"vehicle"`
	Waypoints           []WaypointRequest    `json:"waypoints"`
	ChargeStops         []ChargeStopResponse `json:"charge_stops"`
	TotalDistanceMiles  float64              `json:"total_distance_miles"`
	DriveMinutes        float64              `json:"drive_minutes"`
	ChargeMinutes       float64              `json:"charge_minutes"`
	TripMinutes         float64              `json:"trip_minutes"`
	EffectiveRangeMiles float64              `json:"effective_range_miles"`
	ArrivalRangeMiles   float64              `json:"arrival_range_miles"`
}

// ErrorResponse carries at_miles only for unreachable gaps.
type ErrorResponse struct {
	Error   string   `json:"error"`
	AtMiles *float64 `json:"at_miles,omitempty"`
}
