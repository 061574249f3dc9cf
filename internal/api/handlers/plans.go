package handlers

import (
	"encoding/json"
	"ev-trip-planner/internal/api/dto"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/ports"
	"ev-trip-planner/internal/services"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

const maxWaypoints = 23

type PlanHandler struct {
	Vehicles   ports.VehicleCatalog
	Directions ports.DirectionsProvider
	Planner    *services.ChargePlanner
	// Trips is optional; without it plans are not retrievable later.
	Trips ports.TripStore
}

// Create plans a trip and, when a store is configured, saves it under a new id.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.Origin == nil || req.Destination == nil {
		writeError(w, r, http.StatusBadRequest, "origin and destination are required")
		return
	}
	if strings.TrimSpace(req.VehicleModel) == "" {
		writeError(w, r, http.StatusBadRequest, "vehicle_model is required")
		return
	}
	if len(req.Waypoints) > maxWaypoints {
		writeError(w, r, http.StatusBadRequest, "too many waypoints")
		return
	}

	objective, err := domain.ParseObjective(strings.TrimSpace(req.Objective))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "objective must be fewest_stops or least_charge_time")
		return
	}

	svcReq := services.PlanTripRequest{
		Origin:       *req.Origin,
		Destination:  *req.Destination,
		Waypoints:    make([]domain.Waypoint, 0, len(req.Waypoints)),
		VehicleModel: req.VehicleModel,
	}
	if req.Objective != "" {
		svcReq.Objective = objective
	}
	for _, wp := range req.Waypoints {
		svcReq.Waypoints = append(svcReq.Waypoints, domain.Waypoint{
			Location:  domain.Coordinates{Lat: wp.Lat, Lon: wp.Lng},
			Name:      strings.TrimSpace(wp.Name),
			IsCharger: wp.IsCharger,
		})
	}

	plan, err := services.PlanTrip(r.Context(), svcReq, h.Vehicles, h.Directions, h.Planner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if h.Trips != nil {
		if _, err := h.Trips.Save(r.Context(), plan); err != nil {
			// The plan is still useful without an id.
			slog.WarnContext(r.Context(), "save trip failed", "error", err)
		}
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}

// Get returns a previously saved plan.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Trips == nil {
		writeError(w, r, http.StatusNotFound, "trip storage is not configured")
		return
	}

	id := mux.Vars(r)["id"]
	plan, err := h.Trips.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}

func toPlanResponse(p *domain.TripPlan) dto.PlanResponse {
	res := dto.PlanResponse{
		TripID:              p.ID,
		Vehicle:             toVehicleResponse(p.Vehicle),
		Waypoints:           make([]dto.WaypointRequest, 0, len(p.Waypoints)),
		ChargeStops:         make([]dto.ChargeStopResponse, 0, len(p.Stops)),
		TotalDistanceMiles:  p.TotalDistanceMiles,
		DriveMinutes:        p.DriveMinutes,
		ChargeMinutes:       p.ChargeMinutes,
		TripMinutes:         p.TripMinutes(),
		EffectiveRangeMiles: p.EffectiveRangeMiles,
		ArrivalRangeMiles:   p.ArrivalRangeMiles,
	}

	for _, wp := range p.Waypoints {
		res.Waypoints = append(res.Waypoints, dto.WaypointRequest{
			Lat:       wp.Location.Lat,
			Lng:       wp.Location.Lon,
			Name:      wp.Name,
			IsCharger: wp.IsCharger,
		})
	}
	for _, s := range p.Stops {
		res.ChargeStops = append(res.ChargeStops, dto.ChargeStopResponse{
			Name:                  s.Name,
			Location:              s.Location,
			MilesFromRouteStart:   s.MilesFromRouteStart,
			ChargeDurationMinutes: s.ChargeDurationMinutes,
			PowerKw:               s.PowerKw,
			ArrivalRangeMiles:     s.ArrivalRangeMiles,
			DepartureRangeMiles:   s.DepartureRangeMiles,
		})
	}

	return res
}
