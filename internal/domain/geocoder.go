package domain

import (
	"context"
	"log/slog"
)

// UnknownPlace is the place name substituted when reverse geocoding
// yields no result, which for the station usually means open water.
const UnknownPlace = "over the ocean"

// Place is a reverse-geocoded description of a coordinate.
type Place struct {
	DisplayName string
}

// Geocoder resolves coordinates to place descriptions.
type Geocoder interface {
	// ReverseGeocode converts coordinates to a place description. A zero
	// Place with a nil error means the provider had no result for the
	// point, which is not a failure.
	ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error)
}

// ResolvePlace fills in the place name for a location via reverse
// geocoding. A nil geocoder, a lookup failure, or an empty result leaves
// the UnknownPlace sentinel in place, so a geocoding outage never fails
// the request.
func ResolvePlace(ctx context.Context, loc Location, geocoder Geocoder, logger *slog.Logger) Location {
	if geocoder == nil {
		return loc
	}

	place, err := geocoder.ReverseGeocode(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"latitude", loc.Latitude,
			"longitude", loc.Longitude,
			"error", err)
		return loc
	}
	if place.DisplayName != "" {
		loc.Place = place.DisplayName
	}
	return loc
}
