package events

import (
	"time"

	"agromarket/internal/core/domain/model/weather"
)

type WeatherUpdated struct {
	envelope
	Report weather.Report
}

func NewWeatherUpdated(r weather.Report, at time.Time) WeatherUpdated {
	return WeatherUpdated{envelope: newEnvelope(at), Report: r}
}

func (WeatherUpdated) Name() Name { return WeatherUpdatedName }

// WeatherFailed reports a refresh that could not reach the provider. Previous data stays in place.
type WeatherFailed struct {
	envelope
	Place weather.Place
	Err   error
}

func NewWeatherFailed(place weather.Place, err error, at time.Time) WeatherFailed {
	return WeatherFailed{envelope: newEnvelope(at), Place: place, Err: err}
}

func (WeatherFailed) Name() Name { return WeatherFailedName }
