// Package routing implements the routing collaborator: it resolves a
// pickup/destination pair into a driving distance in kilometers.
package routing

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"taxitoday/internal/domain"
	"taxitoday/internal/service"
)

// GoogleResolver resolves route distances through the Google Maps
// Directions API.
type GoogleResolver struct {
	client *maps.Client
}

// NewGoogleResolver creates a resolver backed by the Directions API.
func NewGoogleResolver(apiKey string) (*GoogleResolver, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleResolver{client: client}, nil
}

// ResolveDistance returns the driving distance of the first route returned
// by the Directions API, in kilometers.
func (r *GoogleResolver) ResolveDistance(ctx context.Context, pickup, destination domain.Address) (float64, error) {
	if pickup.IsZero() || destination.IsZero() {
		return 0, fmt.Errorf("%w: missing address", service.ErrRouteUnresolved)
	}

	routes, _, err := r.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      pickup.Display,
		Destination: destination.Display,
		Mode:        maps.TravelModeDriving,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", service.ErrRouteUnresolved, err)
	}
	if len(routes) == 0 {
		return 0, fmt.Errorf("%w: no route between %q and %q",
			service.ErrRouteUnresolved, pickup.Display, destination.Display)
	}

	meters := 0
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
	}

	return float64(meters) / 1000.0, nil
}

// Ensure the resolver implements the collaborator contract.
var _ service.RouteResolver = (*GoogleResolver)(nil)
