package routing

import (
	"context"
	"fmt"
	"math"

	"taxitoday/internal/domain"
	"taxitoday/internal/service"
)

// roadFactor scales the great-circle distance towards a realistic driving
// distance.
const roadFactor = 1.3

// HaversineResolver estimates the route distance from coordinates. It is
// used in deployments without a Maps API key and requires both addresses to
// carry coordinates from the map widget.
type HaversineResolver struct{}

// NewHaversineResolver creates a new HaversineResolver.
func NewHaversineResolver() *HaversineResolver {
	return &HaversineResolver{}
}

// ResolveDistance estimates the driving distance in kilometers.
func (r *HaversineResolver) ResolveDistance(ctx context.Context, pickup, destination domain.Address) (float64, error) {
	if !pickup.HasCoordinates() || !destination.HasCoordinates() {
		return 0, fmt.Errorf("%w: coordinates required for distance estimate", service.ErrRouteUnresolved)
	}

	km := haversineKm(*pickup.Lat, *pickup.Lng, *destination.Lat, *destination.Lng)
	return km * roadFactor, nil
}

// haversineKm returns the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	rlat1 := lat1 * math.Pi / 180.0
	rlat2 := lat2 * math.Pi / 180.0
	dlat := (lat2 - lat1) * math.Pi / 180.0
	dlng := (lng2 - lng1) * math.Pi / 180.0

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlng/2)*math.Sin(dlng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

var _ service.RouteResolver = (*HaversineResolver)(nil)
