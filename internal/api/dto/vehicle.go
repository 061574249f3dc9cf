package dto

type VehicleResponse struct {
	ModelID           string  `json:"model_id"`
	Name              string  `json:"name"`
	NominalRangeMiles float64 `json:"nominal_range_miles"`
	ChargingRateKw    float64 `json:"charging_rate_kw"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}
