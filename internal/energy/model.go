// Package energy converts vehicle ratings and station power into usable range
// and charge durations.
package energy

import (
	"ev-trip-planner/internal/domain"
	"fmt"
	"math"
)

const (
	DefaultSafetyMargin    = 0.8
	DefaultMilesPerKwh     = 3.5
	DefaultMinDwellMinutes = 5.0
)

// Model holds the fixed conversion constants.
type Model struct {
	// MilesPerKwh converts miles to be replenished into energy.
	MilesPerKwh float64
	// MinDwellMinutes is the floor applied to every stop (plug-in/unplug overhead).
	MinDwellMinutes float64
}

func DefaultModel() Model {
	return Model{MilesPerKwh: DefaultMilesPerKwh, MinDwellMinutes: DefaultMinDwellMinutes}
}

func (m Model) Validate() error {
	if math.IsNaN(m.MilesPerKwh) || m.MilesPerKwh <= 0 {
		return fmt.Errorf("%w: miles per kWh must be positive, got %v", domain.ErrInvalidConfiguration, m.MilesPerKwh)
	}
	if math.IsNaN(m.MinDwellMinutes) || m.MinDwellMinutes < 0 {
		return fmt.Errorf("%w: minimum dwell must be non-negative, got %v", domain.ErrInvalidConfiguration, m.MinDwellMinutes)
	}
	return nil
}

// ValidateSafetyMargin accepts margins in (0, 1].
func ValidateSafetyMargin(safetyMargin float64) error {
	if math.IsNaN(safetyMargin) || safetyMargin <= 0 || safetyMargin > 1 {
		return fmt.Errorf("%w: safety margin must be in (0, 1], got %v", domain.ErrInvalidConfiguration, safetyMargin)
	}
	return nil
}

// EffectiveRange is nominal range reduced by the safety margin.
func EffectiveRange(profile domain.VehicleProfile, safetyMargin float64) (float64, error) {
	if err := ValidateSafetyMargin(safetyMargin); err != nil {
		return 0, err
	}
	if err := profile.Validate(); err != nil {
		return 0, err
	}
	return profile.NominalRangeMiles * safetyMargin, nil
}

// ChargeDurationMinutes is the time to replenish milesNeeded at the slower of
// the station and vehicle rates, floored at the minimum dwell. There is no cap.
func (m Model) ChargeDurationMinutes(milesNeeded, stationPowerKw, vehicleChargingRateKw float64) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if math.IsNaN(stationPowerKw) || stationPowerKw <= 0 {
		return 0, fmt.Errorf("%w: station power must be positive, got %v", domain.ErrInvalidInput, stationPowerKw)
	}
	if math.IsNaN(vehicleChargingRateKw) || vehicleChargingRateKw <= 0 {
		return 0, fmt.Errorf("%w: vehicle charging rate must be positive, got %v", domain.ErrInvalidInput, vehicleChargingRateKw)
	}
	if math.IsNaN(milesNeeded) || milesNeeded < 0 {
		return 0, fmt.Errorf("%w: miles needed must be non-negative, got %v", domain.ErrInvalidInput, milesNeeded)
	}

	kwh := milesNeeded / m.MilesPerKwh
	kw := math.Min(stationPowerKw, vehicleChargingRateKw)
	minutes := kwh / kw * 60

	return math.Max(minutes, m.MinDwellMinutes), nil
}
