package vehicles

import (
	"context"
	"ev-trip-planner/internal/domain"
	"fmt"
	"sort"
	"strings"
)

var defaultProfiles = []domain.VehicleProfile{
	{ModelID: "model3", Name: "Model 3", NominalRangeMiles: 358, ChargingRateKw: 250},
	{ModelID: "modely", Name: "Model Y", NominalRangeMiles: 330, ChargingRateKw: 250},
	{ModelID: "models", Name: "Model S", NominalRangeMiles: 405, ChargingRateKw: 250},
	{ModelID: "modelx", Name: "Model X", NominalRangeMiles: 348, ChargingRateKw: 250},
	{ModelID: "cybertruck", Name: "Cybertruck", NominalRangeMiles: 500, ChargingRateKw: 325},
}

// StaticCatalog is an in-memory VehicleCatalog.
type StaticCatalog struct {
	profiles map[string]domain.VehicleProfile
}

// NewStaticCatalog returns the built-in vehicle table.
func NewStaticCatalog() *StaticCatalog {
	c, _ := NewStaticCatalogFrom(defaultProfiles)
	return c
}

func NewStaticCatalogFrom(profiles []domain.VehicleProfile) (*StaticCatalog, error) {
	m := make(map[string]domain.VehicleProfile, len(profiles))
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("vehicle catalog: %w", err)
		}
		key := normalizeModel(p.ModelID)
		if key == "" {
			return nil, fmt.Errorf("vehicle catalog: %w: empty model id", domain.ErrInvalidInput)
		}
		if _, dup := m[key]; dup {
			return nil, fmt.Errorf("vehicle catalog: %w: duplicate model id %q", domain.ErrInvalidInput, p.ModelID)
		}
		m[key] = p
	}
	return &StaticCatalog{profiles: m}, nil
}

// normalizeModel folds "Model 3", "model-3" and "MODEL_3" to one key.
func normalizeModel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '-', '_', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (c *StaticCatalog) GetVehicle(_ context.Context, modelID string) (domain.VehicleProfile, error) {
	p, ok := c.profiles[normalizeModel(modelID)]
	if !ok {
		return domain.VehicleProfile{}, fmt.Errorf("%w: %q", domain.ErrVehicleNotFound, modelID)
	}
	return p, nil
}

func (c *StaticCatalog) ListVehicles(_ context.Context) ([]domain.VehicleProfile, error) {
	out := make([]domain.VehicleProfile, 0, len(c.profiles))
	for _, p := range c.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelID < out[j].ModelID })
	return out, nil
}
