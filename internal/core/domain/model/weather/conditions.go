package weather

import (
	"slices"
	"time"
)

// Conditions are the observed weather at a place.
type Conditions struct {
	Temperature float64
	FeelsLike   float64
	Humidity    int
	Pressure    int
	WindSpeed   float64
	WindDegrees int
	Main        string
	Description string
	Icon        string
	ObservedAt  time.Time
	City        string
}

// ForecastEntry is one step of the forecast.
type ForecastEntry struct {
	At          time.Time
	Temperature float64
	Main        string
	Description string

	// PrecipitationProbability is a percentage in [0, 100].
	PrecipitationProbability int
}

// Report is the result of one refresh.
type Report struct {
	Place    Place
	Current  Conditions
	Forecast []ForecastEntry
}

// PrecipitationProbability is taken from the first forecast entry, 0 when there is none.
func (r Report) PrecipitationProbability() int {
	if len(r.Forecast) == 0 {
		return 0
	}
	return r.Forecast[0].PrecipitationProbability
}

// Upcoming returns at most n forecast entries.
func (r Report) Upcoming(n int) []ForecastEntry {
	if n > len(r.Forecast) {
		n = len(r.Forecast)
	}
	return slices.Clone(r.Forecast[:n])
}

func (r Report) Clone() Report {
	r.Forecast = slices.Clone(r.Forecast)
	return r
}
