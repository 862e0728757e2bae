package commands

import (
	"errors"

	"agromarket/internal/core/domain/model/weather"
	"agromarket/internal/pkg/guard"
)

var ErrSetWeatherLocationCommandIsNotConstructed = errors.New(
	"SetWeatherLocationCommand must be created via NewSetWeatherLocationCommand constructor",
)

// SetWeatherLocationCommand moves the weather monitor to explicit coordinates.
// When city is blank the monitor tries to name the place by reverse geocoding.
type SetWeatherLocationCommand struct { //nolint:recvcheck //using for validation
	place weather.Place

	guard guard.ConstructorGuard
}

func NewSetWeatherLocationCommand(lat, lon float64, city, country string) (SetWeatherLocationCommand, error) {
	place, err := weather.NewPlace(lat, lon, city, country)
	if err != nil {
		return SetWeatherLocationCommand{}, err
	}

	return SetWeatherLocationCommand{place: place, guard: guard.NewConstructorGuard()}, nil
}

func (c SetWeatherLocationCommand) Validate() error {
	return c.guard.Validate(ErrSetWeatherLocationCommandIsNotConstructed)
}

func (c SetWeatherLocationCommand) Place() weather.Place {
	return c.place
}
