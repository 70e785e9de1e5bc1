package googlemaps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"gocab/internal/domain/models"
	"gocab/internal/domain/types"
	"gocab/pkg/logger"
	wrap "gocab/pkg/logger/wrapper"
)

// RouteProvider wraps the Google Maps client behind the geocoding and
// routing interface the ride engine consumes.
type RouteProvider struct {
	client *maps.Client
	log    logger.Logger
}

func NewRouteProvider(apiKey string, log logger.Logger) (*RouteProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &RouteProvider{client: client, log: log}, nil
}

// Geocode resolves a free-form address to coordinates, taking the first
// candidate.
func (p *RouteProvider) Geocode(ctx context.Context, address string) (models.Location, error) {
	ctx = wrap.WithAction(ctx, "maps_geocode")

	results, err := p.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return models.Location{}, wrap.Error(ctx, fmt.Errorf("%w: geocode: %v", types.ErrMapsUnavailable, err))
	}
	if len(results) == 0 {
		return models.Location{}, types.ErrLocationNotFound
	}

	loc := results[0].Geometry.Location
	return models.Location{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}

// DistanceTime returns the driving distance in kilometers and duration in
// minutes between two addresses.
func (p *RouteProvider) DistanceTime(ctx context.Context, origin, destination string) (float64, float64, error) {
	ctx = wrap.WithAction(ctx, "maps_directions")

	routes, _, err := p.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
	})
	if err != nil {
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%w: directions: %v", types.ErrMapsUnavailable, err))
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, 0, types.ErrRouteNotFound
	}

	var meters int
	var seconds float64
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
		seconds += leg.Duration.Seconds()
	}

	return float64(meters) / 1000, seconds / 60, nil
}
