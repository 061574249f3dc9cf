package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestNewRoutePath(t *testing.T) {
	points := []Coordinates{{Lat: 34.05, Lon: -118.24}, {Lat: 36.17, Lon: -115.14}}

	path, err := NewRoutePath(points, 270, 240)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	points[0].Lat = 0
	if path.Origin().Lat != 34.05 {
		t.Fatalf("expected path to own its points, origin changed to %v", path.Origin())
	}
	if path.Destination() != (Coordinates{Lat: 36.17, Lon: -115.14}) {
		t.Fatalf("unexpected destination %v", path.Destination())
	}
}

func TestNewRoutePathRejectsInvalid(t *testing.T) {
	good := []Coordinates{{Lat: 1, Lon: 1}}

	cases := []struct {
		name     string
		points   []Coordinates
		distance float64
		duration float64
	}{
		{"no points", nil, 10, 10},
		{"bad latitude", []Coordinates{{Lat: 91, Lon: 0}}, 10, 10},
		{"nan longitude", []Coordinates{{Lat: 0, Lon: math.NaN()}}, 10, 10},
		{"negative distance", good, -1, 10},
		{"negative duration", good, 10, -1},
	}

	for _, tc := range cases {
		if _, err := NewRoutePath(tc.points, tc.distance, tc.duration); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestRouteTotals(t *testing.T) {
	r := Route{Legs: []RoutePath{
		{DistanceMiles: 120, DurationMinutes: 110},
		{DistanceMiles: 80.5, DurationMinutes: 70},
	}}

	if r.DistanceMiles() != 200.5 {
		t.Fatalf("expected 200.5 miles, got %v", r.DistanceMiles())
	}
	if r.DurationMinutes() != 180 {
		t.Fatalf("expected 180 minutes, got %v", r.DurationMinutes())
	}
}

func TestChargingStationDedupKey(t *testing.T) {
	a := ChargingStation{Name: "Baker  Supercharger", Location: Coordinates{Lat: 35.2651234, Lon: -116.0741234}}
	b := ChargingStation{Name: "baker supercharger ", Location: Coordinates{Lat: 35.26512341, Lon: -116.07412339}}
	c := ChargingStation{Name: "Baker Supercharger", Location: Coordinates{Lat: 35.3, Lon: -116.07}}

	if a.DedupKey() != b.DedupKey() {
		t.Fatalf("expected equal keys, got %q and %q", a.DedupKey(), b.DedupKey())
	}
	if a.DedupKey() == c.DedupKey() {
		t.Fatalf("expected different keys for different locations")
	}
}

func TestChargingStationHasAvailableStall(t *testing.T) {
	zero, two := 0, 2

	if !(ChargingStation{}).HasAvailableStall() {
		t.Fatalf("unknown stall count should count as available")
	}
	if (ChargingStation{AvailableStalls: &zero}).HasAvailableStall() {
		t.Fatalf("zero stalls should not be available")
	}
	if !(ChargingStation{AvailableStalls: &two}).HasAvailableStall() {
		t.Fatalf("two stalls should be available")
	}
}

func TestParseObjective(t *testing.T) {
	for in, want := range map[string]Objective{
		"":                  ObjectiveFewestStops,
		"fewest_stops":      ObjectiveFewestStops,
		"least_charge_time": ObjectiveLeastChargeTime,
	} {
		got, err := ParseObjective(in)
		if err != nil || got != want {
			t.Errorf("ParseObjective(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := ParseObjective("fastest"); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestUnreachableGapError(t *testing.T) {
	err := fmt.Errorf("plan trip: %w", &UnreachableGapError{AtMiles: 50, RangeMiles: 280})

	if !errors.Is(err, ErrUnreachableGap) {
		t.Fatalf("expected wrapped gap to match ErrUnreachableGap")
	}

	var gap *UnreachableGapError
	if !errors.As(err, &gap) || gap.AtMiles != 50 {
		t.Fatalf("expected to recover gap at mile 50, got %v", gap)
	}
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{MinLat: 0, MinLon: 0, MaxLat: 1, MaxLon: 1}

	if !b.Contains(Coordinates{Lat: 1, Lon: 0}) {
		t.Fatalf("edges should be inclusive")
	}
	if b.Contains(Coordinates{Lat: 1.01, Lon: 0.5}) {
		t.Fatalf("point above the box should be outside")
	}
}
