// Package openmeteo is the keyless weather backend: city geocoding for the location search and
// an alternative forecast provider. Geocoding answers are cached in memory.
package openmeteo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"agromarket/internal/adapters/out/upstream"
	"agromarket/internal/core/domain/model/weather"
	"agromarket/internal/pkg/errs"

	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultForecastURL  = "https://api.open-meteo.com"
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com"
	ServiceName         = "open-meteo"

	DefaultGeocodeTTL = 24 * time.Hour
	forecastHours     = 24
	timeLayout        = "2006-01-02T15:04"
)

type Config struct {
	ForecastURL  string
	GeocodingURL string
	GeocodeTTL   time.Duration
}

type Client struct {
	forecastURL  string
	geocodingURL string
	http         *upstream.Client
	places       *gocache.Cache
	logger       *slog.Logger
}

func NewClient(cfg Config, transport *upstream.Client, logger *slog.Logger) *Client {
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = DefaultForecastURL
	}
	if cfg.GeocodingURL == "" {
		cfg.GeocodingURL = DefaultGeocodingURL
	}
	if cfg.GeocodeTTL <= 0 {
		cfg.GeocodeTTL = DefaultGeocodeTTL
	}
	return &Client{
		forecastURL:  strings.TrimRight(cfg.ForecastURL, "/"),
		geocodingURL: strings.TrimRight(cfg.GeocodingURL, "/"),
		http:         transport,
		places:       gocache.New(cfg.GeocodeTTL, 2*cfg.GeocodeTTL),
		logger:       logger.With("component", "OpenMeteoClient"),
	}
}

type searchResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
	} `json:"results"`
}

// Geocode resolves the best match for city. Returns errs.ObjectNotFoundError when nothing matches.
func (c *Client) Geocode(ctx context.Context, city string) (weather.Place, error) {
	key := strings.ToLower(strings.TrimSpace(city))
	if key == "" {
		return weather.Place{}, errs.NewValueIsRequiredError("city")
	}
	if cached, ok := c.places.Get(key); ok {
		return cached.(weather.Place), nil
	}

	query := url.Values{
		"name":     {strings.TrimSpace(city)},
		"count":    {"1"},
		"language": {"es"},
		"format":   {"json"},
	}

	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.geocodingURL+"/v1/search", query, &resp); err != nil {
		return weather.Place{}, fmt.Errorf("geocode %q: %w", city, err)
	}
	if len(resp.Results) == 0 {
		return weather.Place{}, errs.NewObjectNotFoundError("city", city)
	}

	best := resp.Results[0]
	place, err := weather.NewPlace(best.Latitude, best.Longitude, best.Name, best.Country)
	if err != nil {
		return weather.Place{}, fmt.Errorf("geocode %q: %w", city, err)
	}

	c.places.SetDefault(key, place)
	c.logger.DebugContext(ctx, "city geocoded", "city", city, "place", place.Label())
	return place, nil
}

type forecastResponse struct {
	Current struct {
		Time             string  `json:"time"`
		Temperature      float64 `json:"temperature_2m"`
		RelativeHumidity int     `json:"relative_humidity_2m"`
		WeatherCode      int     `json:"weather_code"`
		WindSpeed        float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Hourly struct {
		Time                     []string  `json:"time"`
		Temperature              []float64 `json:"temperature_2m"`
		PrecipitationProbability []int     `json:"precipitation_probability"`
		WeatherCode              []int     `json:"weather_code"`
	} `json:"hourly"`
}

// Report fetches current conditions and the next hours of forecast. Wind speed is in km/h.
func (c *Client) Report(ctx context.Context, place weather.Place) (weather.Report, error) {
	query := url.Values{
		"latitude":       {strconv.FormatFloat(place.Coordinates.Lat(), 'f', -1, 64)},
		"longitude":      {strconv.FormatFloat(place.Coordinates.Lon(), 'f', -1, 64)},
		"current":        {"temperature_2m,relative_humidity_2m,precipitation,weather_code,wind_speed_10m"},
		"hourly":         {"precipitation_probability,temperature_2m,weather_code"},
		"forecast_hours": {strconv.Itoa(forecastHours)},
		"timezone":       {"UTC"},
	}

	var resp forecastResponse
	if err := c.http.GetJSON(ctx, c.forecastURL+"/v1/forecast", query, &resp); err != nil {
		return weather.Report{}, fmt.Errorf("forecast at %s: %w", place.Coordinates, err)
	}

	observedAt, err := time.Parse(timeLayout, resp.Current.Time)
	if err != nil {
		return weather.Report{}, errs.NewUpstreamUnavailableErrorWithCause(ServiceName,
			fmt.Errorf("parse current time %q: %w", resp.Current.Time, err))
	}

	main, desc := describe(resp.Current.WeatherCode)
	report := weather.Report{
		Place: place,
		Current: weather.Conditions{
			Temperature: resp.Current.Temperature,
			FeelsLike:   resp.Current.Temperature,
			Humidity:    resp.Current.RelativeHumidity,
			WindSpeed:   resp.Current.WindSpeed,
			Main:        main,
			Description: desc,
			ObservedAt:  observedAt,
			City:        place.City,
		},
	}

	h := resp.Hourly
	for i, raw := range h.Time {
		at, err := time.Parse(timeLayout, raw)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping malformed forecast hour", "time", raw)
			continue
		}
		entry := weather.ForecastEntry{At: at}
		if i < len(h.Temperature) {
			entry.Temperature = h.Temperature[i]
		}
		if i < len(h.PrecipitationProbability) {
			entry.PrecipitationProbability = h.PrecipitationProbability[i]
		}
		if i < len(h.WeatherCode) {
			entry.Main, entry.Description = describe(h.WeatherCode[i])
		}
		report.Forecast = append(report.Forecast, entry)
	}

	return report, nil
}
