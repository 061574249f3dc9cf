package handlers

import (
	"ev-trip-planner/internal/api/dto"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/ports"
	"net/http"
)

// VehicleHandler exposes the read-only vehicle catalog.
type VehicleHandler struct {
	Catalog ports.VehicleCatalog
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Catalog.ListVehicles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListVehiclesResponse{
		Vehicles: make([]dto.VehicleResponse, 0, len(vehicles)),
	}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, toVehicleResponse(v))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toVehicleResponse(v domain.VehicleProfile) dto.VehicleResponse {
	return dto.VehicleResponse{
		ModelID:           v.ModelID,
		Name:              v.Name,
		NominalRangeMiles: v.NominalRangeMiles,
		ChargingRateKw:    v.ChargingRateKw,
	}
}
