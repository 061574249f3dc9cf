package api

import (
	"ev-trip-planner/internal/api/handlers"
	"ev-trip-planner/internal/ports"
	"ev-trip-planner/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

// Deps are the adapters the HTTP layer needs. Trips may be nil.
type Deps struct {
	Vehicles   ports.VehicleCatalog
	Directions ports.DirectionsProvider
	Planner    *services.ChargePlanner
	Trips      ports.TripStore
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	router := mux.NewRouter()

	vehicleHandler := &handlers.VehicleHandler{Catalog: deps.Vehicles}
	planHandler := &handlers.PlanHandler{
		Vehicles:   deps.Vehicles,
		Directions: deps.Directions,
		Planner:    deps.Planner,
		Trips:      deps.Trips,
	}

	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	router.HandleFunc("/vehicles", vehicleHandler.List).Methods(http.MethodGet)
	router.HandleFunc("/plans", planHandler.Create).Methods(http.MethodPost)
	router.HandleFunc("/plans/{id}", planHandler.Get).Methods(http.MethodGet)

	// Wrapped rather than router.Use so unmatched 404/405 responses are covered too.
	return requestIDMiddleware(loggingMiddleware(router))
}
