package domain

import "strings"

// ChargingStation is a candidate stop as normalized by the catalog adapter.
// AvailableStalls is nil when the source does not report it; that is treated
// as "at least one available".
type ChargingStation struct {
	ID              string      `json:"id,omitempty"`
	Network         string      `json:"network,omitempty"`
	Name            string      `json:"name"`
	Location        Coordinates `json:"location"`
	AvailableStalls *int        `json:"available_stalls,omitempty"`
	PowerKw         float64     `json:"power_kw"`
}

// HasAvailableStall reports whether the station can be used at all.
func (s ChargingStation) HasAvailableStall() bool {
	return s.AvailableStalls == nil || *s.AvailableStalls > 0
}

// DedupKey identifies one physical stop across overlapping catalog sources.
func (s ChargingStation) DedupKey() string {
	name := strings.ToLower(strings.Join(strings.Fields(s.Name), " "))
	return s.Location.Key() + "|" + name
}
