// Command plantrip plans charging stops for a saved route offline and prints
// the plan as JSON.
//
//	plantrip -route route.json -stations stations.json -model "Model 3"
package main

import (
	"context"
	"encoding/json"
	"errors"
	"ev-trip-planner/internal/adapters/catalog"
	"ev-trip-planner/internal/adapters/directions"
	"ev-trip-planner/internal/adapters/vehicles"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/energy"
	"ev-trip-planner/internal/services"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "plantrip:", err)

		var gap *domain.UnreachableGapError
		if errors.As(err, &gap) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("plantrip", flag.ContinueOnError)
	routePath := fs.String("route", "", "route JSON file (single path or {\"legs\": [...]})")
	stationsPath := fs.String("stations", "data/seeds/stations.json", "station feed JSON file")
	model := fs.String("model", "model3", "vehicle model id")
	margin := fs.Float64("margin", energy.DefaultSafetyMargin, "safety margin in (0, 1]")
	radius := fs.Float64("radius", 5, "corridor radius in miles")
	objective := fs.String("objective", string(domain.ObjectiveFewestStops), "fewest_stops or least_charge_time")
	chargers := fs.String("charger-waypoints", "", "comma-separated 1-based waypoint indexes that are chargers")
	defaultPower := fs.Float64("default-power", 50, "power in kW for stations with no rating")
	timeout := fs.Duration("timeout", 30*time.Second, "overall planning timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *routePath == "" {
		return errors.New("-route is required")
	}

	obj, err := domain.ParseObjective(*objective)
	if err != nil {
		return err
	}

	route, err := directions.LoadRouteFile(*routePath)
	if err != nil {
		return err
	}

	source, err := catalog.LoadFeedFile(*stationsPath, catalog.Normalizer{DefaultPowerKw: *defaultPower})
	if err != nil {
		return err
	}

	waypoints, err := routeWaypoints(route, *chargers)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	first, last := route.Legs[0], route.Legs[len(route.Legs)-1]
	plan, err := services.PlanTrip(ctx, services.PlanTripRequest{
		Origin:       first.Origin(),
		Destination:  last.Destination(),
		Waypoints:    waypoints,
		VehicleModel: *model,
		Objective:    obj,
	},
		vehicles.NewStaticCatalog(),
		directions.NewStaticDirectionsProvider(route),
		&services.ChargePlanner{
			Catalog:             catalog.NewCorridorCatalog(source),
			Energy:              energy.DefaultModel(),
			SafetyMargin:        *margin,
			CorridorRadiusMiles: *radius,
			Objective:           obj,
		},
	)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// routeWaypoints turns leg boundaries into waypoints.
func routeWaypoints(route *domain.Route, chargerList string) ([]domain.Waypoint, error) {
	chargers := map[int]bool{}
	for _, f := range strings.Split(chargerList, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n >= len(route.Legs) {
			return nil, fmt.Errorf("invalid charger waypoint index %q", f)
		}
		chargers[n] = true
	}

	out := make([]domain.Waypoint, 0, len(route.Legs)-1)
	for i, leg := range route.Legs[1:] {
		out = append(out, domain.Waypoint{
			Location:  leg.Origin(),
			Name:      fmt.Sprintf("waypoint %d", i+1),
			IsCharger: chargers[i+1],
		})
	}
	return out, nil
}
