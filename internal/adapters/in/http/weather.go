package http

import (
	"net/http"
	"strings"
	"time"

	"agromarket/internal/core/application/usecases/commands"
	"agromarket/internal/core/domain/model/weather"

	"github.com/labstack/echo/v4"
)

// upcomingEntries is how many forecast steps the widget shows.
const upcomingEntries = 5

type Place struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Label   string  `json:"label"`
}

type Conditions struct {
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feelsLike"`
	Humidity    int       `json:"humidity"`
	Pressure    int       `json:"pressure"`
	WindSpeed   float64   `json:"windSpeed"`
	WindDegrees int       `json:"windDegrees"`
	Main        string    `json:"main"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	ObservedAt  time.Time `json:"observedAt"`
}

type ForecastEntry struct {
	At                       time.Time `json:"at"`
	Temperature              float64   `json:"temperature"`
	Main                     string    `json:"main"`
	Description              string    `json:"description"`
	PrecipitationProbability int       `json:"precipitationProbability"`
}

type Alert struct {
	Kind  weather.AlertKind `json:"kind"`
	Text  string            `json:"text"`
	Badge string            `json:"badge"`
}

// Weather is the widget payload. Current is null until the first successful refresh.
type Weather struct {
	Place                    Place           `json:"place"`
	Current                  *Conditions     `json:"current"`
	Forecast                 []ForecastEntry `json:"forecast"`
	PrecipitationProbability int             `json:"precipitationProbability"`
	Alerts                   []Alert         `json:"alerts"`
	LastUpdate               *time.Time      `json:"lastUpdate,omitempty"`
	LastError                string          `json:"lastError,omitempty"`
}

// LocationChange moves the monitor either to coordinates or to a searched city. The city may
// also be typed as "lat, lon".
type LocationChange struct {
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	City    string   `json:"city"`
	Country string   `json:"country"`
}

func (s *Server) GetWeather(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.weatherPayload())
}

func (s *Server) GetWeatherAlerts(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, toAlerts(s.weather.Alerts()))
}

func (s *Server) SetWeatherLocation(ctx echo.Context) error {
	var body LocationChange
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var err error
	switch {
	case body.Lat != nil && body.Lon != nil:
		cmd, cmdErr := commands.NewSetWeatherLocationCommand(*body.Lat, *body.Lon, body.City, body.Country)
		if cmdErr != nil {
			return s.fail(ctx, cmdErr)
		}
		_, err = s.weather.SetLocation(ctx.Request().Context(), cmd)
	case strings.TrimSpace(body.City) != "":
		_, err = s.weather.LocateCity(ctx.Request().Context(), body.City)
	default:
		return badRequest(ctx, "Either lat and lon or city is required")
	}
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, s.weatherPayload())
}

func (s *Server) weatherPayload() Weather {
	place := s.weather.Place()
	resp := Weather{
		Place:    toPlace(place),
		Forecast: []ForecastEntry{},
		Alerts:   toAlerts(s.weather.Alerts()),
	}

	if report, ok := s.weather.Current(); ok {
		c := report.Current
		resp.Current = &Conditions{
			Temperature: c.Temperature,
			FeelsLike:   c.FeelsLike,
			Humidity:    c.Humidity,
			Pressure:    c.Pressure,
			WindSpeed:   c.WindSpeed,
			WindDegrees: c.WindDegrees,
			Main:        c.Main,
			Description: c.Description,
			Icon:        c.Icon,
			ObservedAt:  c.ObservedAt,
		}
		for _, f := range report.Upcoming(upcomingEntries) {
			resp.Forecast = append(resp.Forecast, ForecastEntry{
				At:                       f.At,
				Temperature:              f.Temperature,
				Main:                     f.Main,
				Description:              f.Description,
				PrecipitationProbability: f.PrecipitationProbability,
			})
		}
		resp.PrecipitationProbability = report.PrecipitationProbability()
	}

	if last := s.weather.LastUpdate(); !last.IsZero() {
		resp.LastUpdate = &last
	}
	if err := s.weather.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	return resp
}

func toPlace(p weather.Place) Place {
	return Place{
		Lat:     p.Coordinates.Lat(),
		Lon:     p.Coordinates.Lon(),
		City:    p.City,
		Country: p.Country,
		Label:   p.Label(),
	}
}

func toAlerts(alerts []weather.Alert) []Alert {
	resp := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		resp = append(resp, Alert{Kind: a.Kind, Text: a.Text, Badge: a.Badge})
	}
	return resp
}
