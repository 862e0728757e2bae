package ports

import (
	"context"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/weather"
)

// WeatherProvider fetches current conditions and the forecast for a place.
// Network failures are reported as errs.UpstreamUnavailableError.
type WeatherProvider interface {
	Report(ctx context.Context, place weather.Place) (weather.Report, error)
}

// Geocoder resolves a city name to a place.
// Returns errs.ObjectNotFoundError when nothing matches.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (weather.Place, error)
}

// ReverseGeocoder names the city at the given coordinates.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, c kernel.Coordinates) (weather.Place, error)
}
