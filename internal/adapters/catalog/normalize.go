package catalog

import (
	"encoding/json"
	"ev-trip-planner/internal/domain"
	"fmt"
	"log/slog"
	"strings"
)

// SuperchargerRecord is the supercharger-network feed shape.
type SuperchargerRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
	AvailableStalls *int     `json:"available_stalls"`
	ChargingRate    *float64 `json:"charging_rate"`
}

// ChargePointRecord is the open charge-point registry shape: power is per
// connection, and the site rating is the best connection.
type ChargePointRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Operator    string   `json:"operator"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Quantity    *int     `json:"quantity"`
	Connections []struct {
		PowerKw *float64 `json:"power_kw"`
	} `json:"connections"`
}

// Feed is a station dump that may mix both record shapes.
type Feed struct {
	Superchargers []SuperchargerRecord `json:"superchargers"`
	ChargePoints  []ChargePointRecord  `json:"charge_points"`
}

// Normalizer maps heterogeneous records onto domain.ChargingStation.
// Missing power ratings fall back to DefaultPowerKw; missing stall counts stay
// nil, which the planner reads as "at least one available".
type Normalizer struct {
	DefaultPowerKw float64
}

func (n Normalizer) power(kw *float64) float64 {
	if kw == nil || !(*kw > 0) {
		return n.DefaultPowerKw
	}
	return *kw
}

func (n Normalizer) FromSupercharger(r SuperchargerRecord) (domain.ChargingStation, error) {
	if r.Location == nil {
		return domain.ChargingStation{}, fmt.Errorf("%w: supercharger %q has no location", domain.ErrInvalidInput, r.Name)
	}

	s := domain.ChargingStation{
		ID:              r.ID,
		Network:         "supercharger",
		Name:            strings.TrimSpace(r.Name),
		Location:        domain.Coordinates{Lat: r.Location.Lat, Lon: r.Location.Lng},
		AvailableStalls: r.AvailableStalls,
		PowerKw:         n.power(r.ChargingRate),
	}
	if err := s.Location.Validate(); err != nil {
		return domain.ChargingStation{}, fmt.Errorf("supercharger %q: %w", r.Name, err)
	}
	if s.ID == "" {
		s.ID = "sc:" + s.Location.Key()
	}
	return s, nil
}

func (n Normalizer) FromChargePoint(r ChargePointRecord) (domain.ChargingStation, error) {
	if r.Latitude == nil || r.Longitude == nil {
		return domain.ChargingStation{}, fmt.Errorf("%w: charge point %q has no location", domain.ErrInvalidInput, r.Title)
	}

	var best *float64
	for _, c := range r.Connections {
		if c.PowerKw != nil && *c.PowerKw > 0 && (best == nil || *c.PowerKw > *best) {
			best = c.PowerKw
		}
	}

	network := strings.TrimSpace(r.Operator)
	if network == "" {
		network = "chargepoint"
	}

	s := domain.ChargingStation{
		ID:              r.ID,
		Network:         network,
		Name:            strings.TrimSpace(r.Title),
		Location:        domain.Coordinates{Lat: *r.Latitude, Lon: *r.Longitude},
		AvailableStalls: r.Quantity,
		PowerKw:         n.power(best),
	}
	if err := s.Location.Validate(); err != nil {
		return domain.ChargingStation{}, fmt.Errorf("charge point %q: %w", r.Title, err)
	}
	if s.ID == "" {
		s.ID = "cp:" + s.Location.Key()
	}
	return s, nil
}

// Normalize converts a feed, dropping records that cannot be placed on a map.
func (n Normalizer) Normalize(f Feed) []domain.ChargingStation {
	out := make([]domain.ChargingStation, 0, len(f.Superchargers)+len(f.ChargePoints))

	for _, r := range f.Superchargers {
		s, err := n.FromSupercharger(r)
		if err != nil {
			slog.Warn("skipping station record", "error", err)
			continue
		}
		out = append(out, s)
	}
	for _, r := range f.ChargePoints {
		s, err := n.FromChargePoint(r)
		if err != nil {
			slog.Warn("skipping station record", "error", err)
			continue
		}
		out = append(out, s)
	}

	return out
}

// ParseFeed decodes a Feed object, or a bare array of supercharger records.
func (n Normalizer) ParseFeed(data []byte) ([]domain.ChargingStation, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var recs []SuperchargerRecord
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("parse station feed: %w", err)
		}
		return n.Normalize(Feed{Superchargers: recs}), nil
	}

	var f Feed
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse station feed: %w", err)
	}
	return n.Normalize(f), nil
}
