package memory

import (
	"context"
	"time"

	"agromarket/internal/core/domain/model/weather"
	"agromarket/internal/core/ports"
)

var _ ports.WeatherProvider = (*WeatherProvider)(nil)

// WeatherProvider returns fixed mild conditions for any place. It stands in for OpenWeather
// when no API key is configured.
type WeatherProvider struct {
	latency time.Duration
	now     func() time.Time
}

func NewWeatherProvider(latency time.Duration) *WeatherProvider {
	return &WeatherProvider{latency: latency, now: time.Now}
}

func (p *WeatherProvider) Report(ctx context.Context, place weather.Place) (weather.Report, error) {
	if err := wait(ctx, p.latency); err != nil {
		return weather.Report{}, err
	}

	now := p.now().Truncate(time.Second)
	return weather.Report{
		Place: place,
		Current: weather.Conditions{
			Temperature: 25.5,
			FeelsLike:   26.2,
			Humidity:    65,
			Pressure:    1013,
			WindSpeed:   3.2,
			WindDegrees: 180,
			Main:        "Clear",
			Description: "cielo despejado",
			Icon:        "01d",
			ObservedAt:  now,
			City:        place.City,
		},
		Forecast: []weather.ForecastEntry{
			{At: now.Add(24 * time.Hour), Temperature: 26.1, Main: "Clouds", Description: "nubes dispersas"},
			{At: now.Add(48 * time.Hour), Temperature: 24.8, Main: "Rain", Description: "lluvia ligera"},
		},
	}, nil
}
