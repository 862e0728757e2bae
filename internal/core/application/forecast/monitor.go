package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"agromarket/internal/core/application/usecases/commands"
	"agromarket/internal/core/domain/events"
	"agromarket/internal/core/domain/model/weather"
	"agromarket/internal/core/ports"
	"agromarket/internal/pkg/errs"
)

type Option func(*Monitor)

func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// WithPlace overrides the starting place.
func WithPlace(place weather.Place) Option {
	return func(m *Monitor) { m.place = place }
}

func WithGeocoder(g ports.Geocoder) Option {
	return func(m *Monitor) { m.geocoder = g }
}

// WithReverseGeocoder names places set by coordinates only.
func WithReverseGeocoder(r ports.ReverseGeocoder) Option {
	return func(m *Monitor) { m.reverse = r }
}

type Monitor struct {
	mu           sync.Mutex
	place        weather.Place
	placeVersion uint64
	report       weather.Report
	hasReport    bool
	lastUpdate   time.Time
	lastErr      error

	provider  ports.WeatherProvider
	geocoder  ports.Geocoder
	reverse   ports.ReverseGeocoder
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewMonitor(
	provider ports.WeatherProvider,
	publisher ports.EventPublisher,
	logger *slog.Logger,
	opts ...Option,
) *Monitor {
	m := &Monitor{
		place:     weather.DefaultPlace(),
		provider:  provider,
		publisher: publisher,
		logger:    logger.With("component", "WeatherMonitor"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fetch asks the provider for the current place and returns the step that installs the report.
// A report fetched for a place that has since been replaced is dropped by apply.
func (m *Monitor) Fetch(ctx context.Context) (apply func(), err error) {
	m.mu.Lock()
	place, version := m.place, m.placeVersion
	m.mu.Unlock()

	report, err := m.provider.Report(ctx, place)
	if err != nil {
		return nil, m.fail(ctx, place, err)
	}
	if report.Place.City == "" && report.Place.Country == "" {
		report.Place = place
	}

	return func() {
		m.mu.Lock()
		if m.placeVersion != version {
			m.mu.Unlock()
			m.logger.InfoContext(ctx, "stale weather report dropped", "place", place.Label())
			return
		}
		now := m.now()
		m.report = report.Clone()
		m.hasReport = true
		m.lastUpdate = now
		m.lastErr = nil
		m.mu.Unlock()

		m.logger.InfoContext(ctx, "weather refreshed",
			"place", place.Label(),
			"temperature", report.Current.Temperature,
			"forecastEntries", len(report.Forecast),
		)
		m.publisher.Publish(ctx, events.NewWeatherUpdated(report.Clone(), now))
	}, nil
}

func (m *Monitor) Refresh(ctx context.Context) error {
	apply, err := m.Fetch(ctx)
	if err != nil {
		return err
	}
	apply()
	return nil
}

// SetLocation moves the monitor to explicit coordinates and refreshes. A blank city is looked
// up with the reverse geocoder when one is configured.
func (m *Monitor) SetLocation(ctx context.Context, cmd commands.SetWeatherLocationCommand) (weather.Report, error) {
	if err := cmd.Validate(); err != nil {
		return weather.Report{}, err
	}

	place := cmd.Place()
	if place.City == "" {
		place = m.name(ctx, place)
	}
	return m.moveTo(ctx, place)
}

// LocateCity accepts either "lat, lon" or a city name. City names go through the geocoder.
func (m *Monitor) LocateCity(ctx context.Context, input string) (weather.Report, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return weather.Report{}, errs.NewValueIsRequiredError("city")
	}

	coords, ok, err := weather.ParseCoordinates(input)
	if err != nil {
		return weather.Report{}, err
	}
	if ok {
		return m.moveTo(ctx, m.name(ctx, weather.Place{Coordinates: coords}))
	}

	if m.geocoder == nil {
		return weather.Report{}, errs.NewUpstreamUnavailableError("geocoder")
	}
	place, err := m.geocoder.Geocode(ctx, input)
	if err != nil {
		return weather.Report{}, fmt.Errorf("locate %q: %w", input, err)
	}
	return m.moveTo(ctx, place)
}

func (m *Monitor) moveTo(ctx context.Context, place weather.Place) (weather.Report, error) {
	m.mu.Lock()
	m.place = place
	m.placeVersion++
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "weather location changed", "place", place.Label(), "coordinates", place.Coordinates.String())

	if err := m.Refresh(ctx); err != nil {
		return weather.Report{}, err
	}
	report, _ := m.Current()
	return report, nil
}

func (m *Monitor) name(ctx context.Context, place weather.Place) weather.Place {
	if m.reverse == nil {
		return place
	}

	named, err := m.reverse.Reverse(ctx, place.Coordinates)
	if err != nil {
		m.logger.WarnContext(ctx, "reverse geocoding failed", "coordinates", place.Coordinates.String(), "error", err)
		return place
	}
	named.Coordinates = place.Coordinates
	return named
}

func (m *Monitor) fail(ctx context.Context, place weather.Place, err error) error {
	if !errors.Is(err, errs.ErrUpstreamUnavailable) {
		err = errs.NewUpstreamUnavailableErrorWithCause("weather", err)
	}

	m.mu.Lock()
	m.lastErr = err
	now := m.now()
	m.mu.Unlock()

	m.logger.ErrorContext(ctx, "weather refresh failed", "place", place.Label(), "error", err)
	m.publisher.Publish(ctx, events.NewWeatherFailed(place, err, now))
	return err
}

// Current returns the last report. ok is false until the first successful refresh.
func (m *Monitor) Current() (report weather.Report, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.report.Clone(), m.hasReport
}

func (m *Monitor) Alerts() []weather.Alert {
	report, ok := m.Current()
	if !ok {
		return nil
	}
	return weather.Alerts(report)
}

func (m *Monitor) Place() weather.Place {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.place
}

func (m *Monitor) LastUpdate() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUpdate
}

// LastError is the error of the most recent refresh, nil after a success.
func (m *Monitor) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}
