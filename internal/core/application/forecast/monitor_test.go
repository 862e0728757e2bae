package forecast_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"agromarket/internal/core/application/forecast"
	"agromarket/internal/core/application/usecases/commands"
	"agromarket/internal/core/domain/events"
	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/weather"
	"agromarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.January, 25, 9, 0, 0, 0, time.UTC)

type MockWeatherProvider struct{ mock.Mock }

func (m *MockWeatherProvider) Report(ctx context.Context, place weather.Place) (weather.Report, error) {
	args := m.Called(ctx, place)
	report, _ := args.Get(0).(weather.Report)
	return report, args.Error(1)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Geocode(ctx context.Context, city string) (weather.Place, error) {
	args := m.Called(ctx, city)
	place, _ := args.Get(0).(weather.Place)
	return place, args.Error(1)
}

type MockReverseGeocoder struct{ mock.Mock }

func (m *MockReverseGeocoder) Reverse(ctx context.Context, c kernel.Coordinates) (weather.Place, error) {
	args := m.Called(ctx, c)
	place, _ := args.Get(0).(weather.Place)
	return place, args.Error(1)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) names() []events.Name {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]events.Name, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.Name())
	}
	return names
}

func report(temp float64, pop int) weather.Report {
	return weather.Report{
		Current: weather.Conditions{Temperature: temp, Main: "Clouds", Description: "nubes dispersas"},
		Forecast: []weather.ForecastEntry{
			{At: now.Add(3 * time.Hour), Temperature: temp, PrecipitationProbability: pop},
		},
	}
}

func forCity(city string) any {
	return mock.MatchedBy(func(p weather.Place) bool { return p.City == city })
}

func newMonitor(provider *MockWeatherProvider, opts ...forecast.Option) (*forecast.Monitor, *recorder) {
	rec := &recorder{}
	opts = append([]forecast.Option{forecast.WithClock(func() time.Time { return now })}, opts...)
	return forecast.NewMonitor(provider, rec, slog.New(slog.DiscardHandler), opts...), rec
}

func TestMonitor_Refresh(t *testing.T) {
	t.Run("stores the report for the default place", func(t *testing.T) {
		provider := new(MockWeatherProvider)
		provider.On("Report", mock.Anything, forCity("Ciudad de México")).Return(report(21.5, 20), nil).Once()
		m, rec := newMonitor(provider)

		_, ok := m.Current()
		require.False(t, ok)

		require.NoError(t, m.Refresh(t.Context()))

		got, ok := m.Current()
		require.True(t, ok)
		assert.InDelta(t, 21.5, got.Current.Temperature, 0.001)
		assert.Equal(t, "Ciudad de México, MX", got.Place.Label())
		assert.Equal(t, now, m.LastUpdate())
		require.NoError(t, m.LastError())
		assert.Equal(t, []events.Name{events.WeatherUpdatedName}, rec.names())
		provider.AssertExpectations(t)
	})

	t.Run("failure keeps the previous report", func(t *testing.T) {
		provider := new(MockWeatherProvider)
		provider.On("Report", mock.Anything, mock.Anything).Return(report(21.5, 20), nil).Once()
		provider.On("Report", mock.Anything, mock.Anything).Return(weather.Report{}, errors.New("connection refused")).Once()
		m, rec := newMonitor(provider)
		require.NoError(t, m.Refresh(t.Context()))

		err := m.Refresh(t.Context())

		require.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
		require.ErrorIs(t, m.LastError(), errs.ErrUpstreamUnavailable)
		got, ok := m.Current()
		require.True(t, ok)
		assert.InDelta(t, 21.5, got.Current.Temperature, 0.001)
		assert.Equal(t, []events.Name{events.WeatherUpdatedName, events.WeatherFailedName}, rec.names())
	})

	t.Run("report fetched for a replaced place is dropped", func(t *testing.T) {
		provider := new(MockWeatherProvider)
		provider.On("Report", mock.Anything, forCity("Ciudad de México")).Return(report(21.5, 20), nil)
		provider.On("Report", mock.Anything, forCity("Bogotá")).Return(report(14, 70), nil)
		m, _ := newMonitor(provider)

		apply, err := m.Fetch(t.Context())
		require.NoError(t, err)

		cmd, err := commands.NewSetWeatherLocationCommand(4.711, -74.0721, "Bogotá", "CO")
		require.NoError(t, err)
		_, err = m.SetLocation(t.Context(), cmd)
		require.NoError(t, err)

		apply()

		got, _ := m.Current()
		assert.Equal(t, "Bogotá", got.Place.City)
		assert.InDelta(t, 14.0, got.Current.Temperature, 0.001)
	})
}

func TestMonitor_SetLocation(t *testing.T) {
	t.Run("names a coordinates only place", func(t *testing.T) {
		provider := new(MockWeatherProvider)
		provider.On("Report", mock.Anything, forCity("Hyderabad")).Return(report(30, 10), nil)
		reverse := new(MockReverseGeocoder)
		reverse.On("Reverse", mock.Anything, mock.Anything).Return(weather.Place{City: "Hyderabad", Country: "IN"}, nil)
		m, _ := newMonitor(provider, forecast.WithReverseGeocoder(reverse))

		cmd, err := commands.NewSetWeatherLocationCommand(17.385, 78.4867, "", "")
		require.NoError(t, err)
		got, err := m.SetLocation(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, "Hyderabad, IN", got.Place.Label())
		assert.InDelta(t, 17.385, m.Place().Coordinates.Lat(), 0.0001)
	})

	t.Run("reverse geocoding failure keeps the coordinates", func(t *testing.T) {
		provider := new(MockWeatherProvider)
		provider.On("Report", mock.Anything, mock.Anything).Return(report(30, 10), nil)
		reverse := new(MockReverseGeocoder)
		reverse.On("Reverse", mock.Anything, mock.Anything).Return(weather.Place{}, errors.New("timeout"))
		m, _ := newMonitor(provider, forecast.WithReverseGeocoder(reverse))

		cmd, err := commands.NewSetWeatherLocationCommand(17.385, 78.4867, "", "")
		require.NoError(t, err)
		_, err = m.SetLocation(t.Context(), cmd)

		require.NoError(t, err)
		assert.Empty(t, m.Place().City)
	})
}

func TestMonitor_LocateCity(t *testing.T) {
	t.Run("geocodes a city name", func(t *testing.T) {
		bogota, err := weather.NewPlace(4.711, -74.0721, "Bogotá", "Colombia")
		require.NoError(t, err)
		geocoder := new(MockGeocoder)
		geocoder.On("Geocode", mock.Anything, "Bogotá").Return(bogota, nil).Once()
		provider := new(MockWeatherProvider)
		provider.On("Report", mock.Anything, forCity("Bogotá")).Return(report(14, 70), nil)
		m, _ := newMonitor(provider, forecast.WithGeocoder(geocoder))

		got, err := m.LocateCity(t.Context(), " Bogotá ")

		require.NoError(t, err)
		assert.Equal(t, "Bogotá, Colombia", got.Place.Label())
		geocoder.AssertExpectations(t)
	})

	t.Run("coordinates skip the geocoder", func(t *testing.T) {
		geocoder := new(MockGeocoder)
		provider := new(MockWeatherProvider)
		provider.On("Report", mock.Anything, mock.Anything).Return(report(14, 70), nil)
		m, _ := newMonitor(provider, forecast.WithGeocoder(geocoder))

		_, err := m.LocateCity(t.Context(), "4.7110, -74.0721")

		require.NoError(t, err)
		assert.InDelta(t, -74.0721, m.Place().Coordinates.Lon(), 0.0001)
		geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("unknown city leaves the place unchanged", func(t *testing.T) {
		geocoder := new(MockGeocoder)
		geocoder.On("Geocode", mock.Anything, "Atlantis").Return(weather.Place{}, errs.NewObjectNotFoundError("city", "Atlantis"))
		m, _ := newMonitor(new(MockWeatherProvider), forecast.WithGeocoder(geocoder))

		_, err := m.LocateCity(t.Context(), "Atlantis")

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, "Ciudad de México", m.Place().City)
	})

	t.Run("rejects blank and out of range input", func(t *testing.T) {
		m, _ := newMonitor(new(MockWeatherProvider))

		_, err := m.LocateCity(t.Context(), "  ")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = m.LocateCity(t.Context(), "95.0, 10.0")
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestMonitor_Alerts(t *testing.T) {
	provider := new(MockWeatherProvider)
	provider.On("Report", mock.Anything, mock.Anything).Return(report(5, 80), nil)
	m, _ := newMonitor(provider)
	assert.Empty(t, m.Alerts())

	require.NoError(t, m.Refresh(t.Context()))
	alerts := m.Alerts()

	require.Len(t, alerts, 2)
	assert.Equal(t, weather.AvoidIrrigation, alerts[0].Kind)
	assert.Equal(t, "POP 80%", alerts[0].Badge)
	assert.Equal(t, weather.FrostRisk, alerts[1].Kind)
	assert.Equal(t, "5°C", alerts[1].Badge)
}
