package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"agromarket/internal/pkg/errs"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	WeatherMock        = "mock"
	WeatherOpenWeather = "openweather"
	WeatherOpenMeteo   = "openmeteo"
)

type Config struct {
	HTTPPort string

	Storage    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	// SeedDemoData fills empty tables with the demonstration orders and products.
	SeedDemoData bool

	WeatherProvider       string
	OpenWeatherAPIKey     string
	OpenWeatherBaseURL    string
	OpenMeteoForecastURL  string
	OpenMeteoGeocodingURL string
	UpstreamMaxRetries    uint64

	OrdersInterval   time.Duration
	ProductsInterval time.Duration
	WeatherInterval  time.Duration

	OrdersLatency   time.Duration
	ProductsLatency time.Duration
	WeatherLatency  time.Duration
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return ParseConfig(os.Getenv)
}

// ParseConfig builds the configuration from getenv. Unset variables take their defaults.
func ParseConfig(getenv func(string) string) (Config, error) {
	p := parser{getenv: getenv}

	cfg := Config{
		HTTPPort: p.str("HTTP_PORT", "8080"),

		Storage:      p.str("STORAGE", StorageMemory),
		DBHost:       p.str("DB_HOST", "localhost"),
		DBPort:       p.str("DB_PORT", "5432"),
		DBUser:       p.str("DB_USER", "postgres"),
		DBPassword:   getenv("DB_PASSWORD"),
		DBName:       p.str("DB_NAME", "agromarket"),
		DBSslMode:    p.str("DB_SSLMODE", "disable"),
		SeedDemoData: p.boolean("SEED_DEMO_DATA", true),

		WeatherProvider:       p.str("WEATHER_PROVIDER", WeatherMock),
		OpenWeatherAPIKey:     getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL:    getenv("OPENWEATHER_BASE_URL"),
		OpenMeteoForecastURL:  getenv("OPENMETEO_FORECAST_URL"),
		OpenMeteoGeocodingURL: getenv("OPENMETEO_GEOCODING_URL"),
		UpstreamMaxRetries:    p.unsigned("UPSTREAM_MAX_RETRIES", 3),

		OrdersInterval:   p.duration("ORDERS_POLL_INTERVAL", 5*time.Minute),
		ProductsInterval: p.duration("PRODUCTS_POLL_INTERVAL", 10*time.Minute),
		WeatherInterval:  p.duration("WEATHER_POLL_INTERVAL", 30*time.Minute),

		OrdersLatency:   p.duration("ORDERS_LATENCY", 800*time.Millisecond),
		ProductsLatency: p.duration("PRODUCTS_LATENCY", 600*time.Millisecond),
		WeatherLatency:  p.duration("WEATHER_LATENCY", 500*time.Millisecond),
	}

	if err := errors.Join(append(p.errList, cfg.validate())...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errList []error
	switch c.Storage {
	case StorageMemory, StoragePostgres:
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("STORAGE",
			fmt.Errorf("%q is not one of %s, %s", c.Storage, StorageMemory, StoragePostgres)))
	}
	switch c.WeatherProvider {
	case WeatherMock, WeatherOpenMeteo:
	case WeatherOpenWeather:
		if c.OpenWeatherAPIKey == "" {
			errList = append(errList, errs.NewValueIsRequiredError("OPENWEATHER_API_KEY"))
		}
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("WEATHER_PROVIDER",
			fmt.Errorf("%q is not one of %s, %s, %s", c.WeatherProvider, WeatherMock, WeatherOpenWeather, WeatherOpenMeteo)))
	}
	for name, d := range map[string]time.Duration{
		"ORDERS_POLL_INTERVAL":   c.OrdersInterval,
		"PRODUCTS_POLL_INTERVAL": c.ProductsInterval,
		"WEATHER_POLL_INTERVAL":  c.WeatherInterval,
	} {
		if d < time.Second {
			errList = append(errList, errs.NewValueIsOutOfRangeError(name, d, time.Second, "unbounded"))
		}
	}
	return errors.Join(errList...)
}

type parser struct {
	getenv  func(string) string
	errList []error
}

func (p *parser) str(key, fallback string) string {
	if v := p.getenv(key); v != "" {
		return v
	}
	return fallback
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := p.getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.errList = append(p.errList, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return d
}

func (p *parser) boolean(key string, fallback bool) bool {
	raw := p.getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.errList = append(p.errList, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return b
}

func (p *parser) unsigned(key string, fallback uint64) uint64 {
	raw := p.getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		p.errList = append(p.errList, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return n
}
