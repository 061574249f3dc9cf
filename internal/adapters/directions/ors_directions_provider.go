package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"ev-trip-planner/internal/domain"
	"ev-trip-planner/internal/geo"
	"ev-trip-planner/internal/platform/obs"
	"ev-trip-planner/internal/ports"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ORSDirectionsProvider implements DirectionsProvider using OpenRouteService.
//
// It coordinates:
//   - Persistent route caching
//   - External API calls with retry/backoff
//   - Splitting the returned geometry into per-waypoint legs
//
// The provider is safe for concurrent use.
type ORSDirectionsProvider struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	profile     string
	maxAttempts int
	backoff     time.Duration
	cache       ports.RouteCache
}

type Option func(*ORSDirectionsProvider)

func WithBaseURL(u string) Option {
	return func(o *ORSDirectionsProvider) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *ORSDirectionsProvider) { o.session = c }
}

func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(o *ORSDirectionsProvider) {
		o.maxAttempts = maxAttempts
		o.backoff = backoff
	}
}

func NewORSDirectionsProvider(apiKey string, cache ports.RouteCache, opts ...Option) (*ORSDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSDirectionsProvider{
		session:     &http.Client{Timeout: 30 * time.Second},
		apiKey:      apiKey,
		baseURL:     "https://api.openrouteservice.org",
		profile:     "driving-car",
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
		cache:       cache,
	}
	for _, opt := range opts {
		opt(provider)
	}
	if provider.maxAttempts < 1 {
		provider.maxAttempts = 1
	}

	return provider, nil
}

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
}

type segment struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Segments  []segment `json:"segments"`
			WayPoints []int     `json:"way_points"`
		} `json:"properties"`
	} `json:"features"`
}

// GetRoute returns one leg per origin->waypoint->...->destination hop.
func (o *ORSDirectionsProvider) GetRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	waypoints []domain.Coordinates,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "ors.GetRoute")(&err)

	stops := make([]domain.Coordinates, 0, len(waypoints)+2)
	stops = append(stops, origin)
	stops = append(stops, waypoints...)
	stops = append(stops, destination)

	key := RouteKey(stops)

	// Check persistent route cache before issuing external API calls.
	if o.cache != nil {
		cached, ok, err := o.cache.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "route cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	route, err := o.fetchRoute(ctx, stops)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCancelled, ctxErr)
		}
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %v", domain.ErrRouteNotFound, err)
		}
		if errors.Is(err, domain.ErrRouteNotFound) || errors.Is(err, domain.ErrProviderError) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderError, err)
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, key, route); err != nil {
			slog.WarnContext(ctx, "route cache write failed", "error", err)
		}
	}

	return route, nil
}

func (o *ORSDirectionsProvider) fetchRoute(ctx context.Context, stops []domain.Coordinates) (*domain.Route, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	coords := make([][]float64, 0, len(stops))
	for _, s := range stops {
		coords = append(coords, s.CoordsToList())
	}

	payload, err := json.Marshal(directionsRequest{Coordinates: coords})
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 || len(dr.Features[0].Geometry.Coordinates) == 0 {
		return nil, fmt.Errorf("%w: directions response has no route", domain.ErrRouteNotFound)
	}

	f := dr.Features[0]
	return splitLegs(f.Geometry.Coordinates, f.Properties.WayPoints, f.Properties.Segments, len(stops)-1)
}

// splitLegs cuts the [lon, lat] geometry at the way_points indices. Adjacent
// legs share the waypoint vertex.
func splitLegs(
	coordinates [][]float64,
	wayPoints []int,
	segments []segment,
	wantLegs int,
) (*domain.Route, error) {
	if len(wayPoints) != wantLegs+1 || len(segments) != wantLegs {
		return nil, fmt.Errorf(
			"%w: expected %d legs, got way_points=%d segments=%d",
			domain.ErrProviderError, wantLegs, len(wayPoints), len(segments),
		)
	}

	points := make([]domain.Coordinates, 0, len(coordinates))
	for i, c := range coordinates {
		if len(c) < 2 {
			return nil, fmt.Errorf("%w: invalid coordinate at index %d", domain.ErrProviderError, i)
		}
		points = append(points, domain.Coordinates{Lon: c[0], Lat: c[1]})
	}

	legs := make([]domain.RoutePath, 0, wantLegs)
	for i := 0; i < wantLegs; i++ {
		from, to := wayPoints[i], wayPoints[i+1]
		if from < 0 || to >= len(points) || from > to {
			return nil, fmt.Errorf("%w: invalid way_points [%d, %d]", domain.ErrProviderError, from, to)
		}

		leg, err := domain.NewRoutePath(
			points[from:to+1],
			segments[i].Distance/geo.MetersPerMile,
			segments[i].Duration/60,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: leg %d: %v", domain.ErrProviderError, i+1, err)
		}
		legs = append(legs, leg)
	}

	return &domain.Route{Legs: legs}, nil
}

// RouteKey is the normalized cache key for an ordered list of stops.
func RouteKey(stops []domain.Coordinates) string {
	parts := make([]string, 0, len(stops))
	for _, s := range stops {
		parts = append(parts, fmt.Sprintf("%.5f,%.5f", s.Lat, s.Lon))
	}
	return strings.Join(parts, "|")
}
