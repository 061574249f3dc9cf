package domain

import (
	"fmt"
	"math"
)

// VehicleProfile identifies a model variant and its energy characteristics.
// Owned by the caller; read-only to the planner.
type VehicleProfile struct {
	ModelID           string  `json:"model_id"`
	Name              string  `json:"name"`
	NominalRangeMiles float64 `json:"nominal_range_miles"`
	ChargingRateKw    float64 `json:"charging_rate_kw"`
}

func (v VehicleProfile) Validate() error {
	if math.IsNaN(v.NominalRangeMiles) || v.NominalRangeMiles <= 0 {
		return fmt.Errorf("%w: vehicle %q nominal range must be positive, got %v", ErrInvalidInput, v.ModelID, v.NominalRangeMiles)
	}
	if math.IsNaN(v.ChargingRateKw) || v.ChargingRateKw <= 0 {
		return fmt.Errorf("%w: vehicle %q charging rate must be positive, got %v", ErrInvalidInput, v.ModelID, v.ChargingRateKw)
	}
	return nil
}
