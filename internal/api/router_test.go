package api

import (
	"bytes"
	"encoding/json"
	"ev-trip-planner/internal/adapters/catalog"
	"ev-trip-planner/internal/adapters/directions"
	"ev-trip-planner/internal/adapters/session"
	"ev-trip-planner/internal/adapters/vehicles"
	"ev-trip-planner/internal/api/dto"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/energy"
	"ev-trip-planner/internal/geo"
	"ev-trip-planner/internal/ports"
	"ev-trip-planner/internal/services"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	losAngeles = domain.Coordinates{Lat: 34.05, Lon: -118.24}
	lasVegas   = domain.Coordinates{Lat: 36.17, Lon: -115.14}
	pasadena   = domain.Coordinates{Lat: 34.15, Lon: -118.14}
)

func setupRouter(t *testing.T, trips ports.TripStore) http.Handler {
	t.Helper()

	// Same interpolation as the straight-line provider, so stations sit on vertices.
	line := geo.Interpolate(losAngeles, lasVegas, 50)
	source := catalog.NewMemorySource([]domain.ChargingStation{
		{ID: "a", Name: "Victorville", Location: line[18], PowerKw: 150},
		{ID: "b", Name: "Baker", Location: line[36], PowerKw: 250},
	})

	fleet, err := vehicles.NewStaticCatalogFrom([]domain.VehicleProfile{
		{ModelID: "model3", Name: "Model 3", NominalRangeMiles: 358, ChargingRateKw: 250},
		{ModelID: "shorty", Name: "Short Range", NominalRangeMiles: 125, ChargingRateKw: 100},
	})
	require.NoError(t, err)

	return NewRouter(Deps{
		Vehicles:   fleet,
		Directions: directions.NewStraightLineProvider(),
		Planner: &services.ChargePlanner{
			Catalog:             catalog.NewCorridorCatalog(source),
			Energy:              energy.DefaultModel(),
			SafetyMargin:        0.8,
			CorridorRadiusMiles: 5,
			Objective:           domain.ObjectiveFewestStops,
		},
		Trips: trips,
	})
}

func postPlan(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h := setupRouter(t, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(requestIDHeader))
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := setupRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))
}

func TestListVehicles(t *testing.T) {
	h := setupRouter(t, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/vehicles", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var res dto.ListVehiclesResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	require.Len(t, res.Vehicles, 2)
	assert.Equal(t, "model3", res.Vehicles[0].ModelID)
}

func TestCreatePlanWithStopsAndFetchIt(t *testing.T) {
	h := setupRouter(t, session.NewMemoryTripStore())

	rr := postPlan(t, h, map[string]any{
		"origin":        map[string]float64{"lat": losAngeles.Lat, "lng": losAngeles.Lon},
		"destination":   map[string]float64{"lat": lasVegas.Lat, "lng": lasVegas.Lon},
		"vehicle_model": "Shorty",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var plan dto.PlanResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&plan))
	require.NotEmpty(t, plan.TripID)
	require.Len(t, plan.ChargeStops, 2)
	assert.Equal(t, "Victorville", plan.ChargeStops[0].Name)
	assert.Equal(t, "Baker", plan.ChargeStops[1].Name)
	assert.InDelta(t, 100.0, plan.EffectiveRangeMiles, 1e-9)
	assert.InDelta(t, plan.DriveMinutes+plan.ChargeMinutes, plan.TripMinutes, 1e-9)
	assert.Less(t, plan.ChargeStops[0].MilesFromRouteStart, plan.ChargeStops[1].MilesFromRouteStart)

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/plans/"+plan.TripID, nil))
	require.Equal(t, http.StatusOK, get.Code)

	var fetched dto.PlanResponse
	require.NoError(t, json.NewDecoder(get.Body).Decode(&fetched))
	assert.Equal(t, plan, fetched)
}

func TestCreatePlanShortTripNeedsNoStops(t *testing.T) {
	h := setupRouter(t, nil)

	rr := postPlan(t, h, map[string]any{
		"origin":        map[string]float64{"lat": losAngeles.Lat, "lng": losAngeles.Lon},
		"destination":   map[string]float64{"lat": pasadena.Lat, "lng": pasadena.Lon},
		"vehicle_model": "model3",
		"objective":     "least_charge_time",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var plan dto.PlanResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&plan))
	assert.Empty(t, plan.TripID)
	assert.Empty(t, plan.ChargeStops)
	assert.Zero(t, plan.ChargeMinutes)
}

func TestCreatePlanUnreachableGap(t *testing.T) {
	h := setupRouter(t, nil)

	rr := postPlan(t, h, map[string]any{
		"origin":        map[string]float64{"lat": lasVegas.Lat, "lng": lasVegas.Lon},
		"destination":   map[string]float64{"lat": 40.76, "lng": -111.89},
		"vehicle_model": "shorty",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())

	var res dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	require.NotNil(t, res.AtMiles)
	assert.Zero(t, *res.AtMiles)
}

func TestCreatePlanBadRequests(t *testing.T) {
	h := setupRouter(t, nil)
	origin := map[string]float64{"lat": losAngeles.Lat, "lng": losAngeles.Lon}
	dest := map[string]float64{"lat": pasadena.Lat, "lng": pasadena.Lon}

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing origin", map[string]any{"destination": dest, "vehicle_model": "model3"}, http.StatusBadRequest},
		{"missing vehicle", map[string]any{"origin": origin, "destination": dest}, http.StatusBadRequest},
		{"unknown field", map[string]any{"origin": origin, "destination": dest, "vehicle_model": "model3", "speed": 1}, http.StatusBadRequest},
		{"bad objective", map[string]any{"origin": origin, "destination": dest, "vehicle_model": "model3", "objective": "fastest"}, http.StatusBadRequest},
		{"bad latitude", map[string]any{"origin": map[string]float64{"lat": 95, "lng": 0}, "destination": dest, "vehicle_model": "model3"}, http.StatusBadRequest},
		{"unknown vehicle", map[string]any{"origin": origin, "destination": dest, "vehicle_model": "roadster"}, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := postPlan(t, h, tc.body)
			assert.Equal(t, tc.want, rr.Code, rr.Body.String())
		})
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetPlanNotFound(t *testing.T) {
	h := setupRouter(t, session.NewMemoryTripStore())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/plans/6f1c1d2e-0000-4000-8000-000000000000", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	noStore := setupRouter(t, nil)
	rr = httptest.NewRecorder()
	noStore.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/plans/anything", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := setupRouter(t, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/plans", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRequestIDOnUnmatchedRoutes(t *testing.T) {
	h := setupRouter(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"method not allowed", http.MethodGet, "/plans", http.StatusMethodNotAllowed},
		{"unknown path", http.MethodGet, "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.want, rr.Code)
			assert.NotEmpty(t, rr.Header().Get(requestIDHeader))
		})
	}

	req := httptest.NewRequest(http.MethodDelete, "/vehicles", nil)
	req.Header.Set(requestIDHeader, "caller-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "caller-42", rr.Header().Get(requestIDHeader))
}
