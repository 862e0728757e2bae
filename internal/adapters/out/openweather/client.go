// Package openweather reads current conditions, the 5 day forecast and reverse geocoding from
// the OpenWeather API. Responses are requested in metric units with Spanish descriptions.
package openweather

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"agromarket/internal/adapters/out/upstream"
	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/weather"
	"agromarket/internal/pkg/errs"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org"
	ServiceName    = "openweather"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *upstream.Client
	group   singleflight.Group
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey string, transport *upstream.Client, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errs.NewValueIsRequiredError("apiKey")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    transport,
		logger:  logger.With("component", "OpenWeatherClient"),
	}, nil
}

type currentResponse struct {
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Weather []description `json:"weather"`
	Sys     struct {
		Country string `json:"country"`
	} `json:"sys"`
}

type description struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []description `json:"weather"`
		Pop     float64       `json:"pop"`
	} `json:"list"`
}

type reverseEntry struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Report fetches current conditions and the forecast. Concurrent calls for the same coordinates
// share one round trip. A failed forecast is logged and the report carries no forecast.
func (c *Client) Report(ctx context.Context, place weather.Place) (weather.Report, error) {
	key := place.Coordinates.String()
	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.fetch(ctx, place)
	})
	if err != nil {
		return weather.Report{}, err
	}
	return v.(weather.Report).Clone(), nil
}

func (c *Client) fetch(ctx context.Context, place weather.Place) (weather.Report, error) {
	query := c.query(place.Coordinates)
	query.Set("units", "metric")
	query.Set("lang", "es")

	var current currentResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/data/2.5/weather", query, &current); err != nil {
		return weather.Report{}, fmt.Errorf("current weather at %s: %w", place.Coordinates, err)
	}

	report := weather.Report{
		Place:   place,
		Current: current.conditions(),
	}
	if report.Place.City == "" {
		report.Place.City = current.Name
	}
	if report.Place.Country == "" {
		report.Place.Country = current.Sys.Country
	}

	var forecast forecastResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/data/2.5/forecast", query, &forecast); err != nil {
		c.logger.WarnContext(ctx, "forecast unavailable", "place", place.Label(), "error", err)
		return report, nil
	}

	report.Forecast = make([]weather.ForecastEntry, 0, len(forecast.List))
	for _, item := range forecast.List {
		d := first(item.Weather)
		report.Forecast = append(report.Forecast, weather.ForecastEntry{
			At:                       time.Unix(item.Dt, 0).UTC(),
			Temperature:              item.Main.Temp,
			Main:                     d.Main,
			Description:              d.Description,
			PrecipitationProbability: percent(item.Pop),
		})
	}
	return report, nil
}

// Reverse names the city at c. Returns errs.ObjectNotFoundError when OpenWeather knows no place there.
func (c *Client) Reverse(ctx context.Context, coords kernel.Coordinates) (weather.Place, error) {
	query := c.query(coords)
	query.Set("limit", "1")

	var entries []reverseEntry
	if err := c.http.GetJSON(ctx, c.baseURL+"/geo/1.0/reverse", query, &entries); err != nil {
		return weather.Place{}, fmt.Errorf("reverse geocode %s: %w", coords, err)
	}
	if len(entries) == 0 {
		return weather.Place{}, errs.NewObjectNotFoundError("place", coords.String())
	}

	return weather.Place{Coordinates: coords, City: entries[0].Name, Country: entries[0].Country}, nil
}

func (c *Client) query(coords kernel.Coordinates) url.Values {
	return url.Values{
		"lat":   {strconv.FormatFloat(coords.Lat(), 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(coords.Lon(), 'f', -1, 64)},
		"appid": {c.apiKey},
	}
}

func (r currentResponse) conditions() weather.Conditions {
	d := first(r.Weather)
	return weather.Conditions{
		Temperature: r.Main.Temp,
		FeelsLike:   r.Main.FeelsLike,
		Humidity:    r.Main.Humidity,
		Pressure:    r.Main.Pressure,
		WindSpeed:   r.Wind.Speed,
		WindDegrees: r.Wind.Deg,
		Main:        d.Main,
		Description: d.Description,
		Icon:        d.Icon,
		ObservedAt:  time.Unix(r.Dt, 0).UTC(),
		City:        r.Name,
	}
}

func first(ds []description) description {
	if len(ds) == 0 {
		return description{}
	}
	return ds[0]
}

// percent converts OpenWeather's 0..1 probability of precipitation.
func percent(pop float64) int {
	p := int(pop*100 + 0.5)
	return min(max(p, 0), 100)
}
