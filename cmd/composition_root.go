package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apihttp "agromarket/internal/adapters/in/http"
	"agromarket/internal/adapters/out/memory"
	"agromarket/internal/adapters/out/openmeteo"
	"agromarket/internal/adapters/out/openweather"
	"agromarket/internal/adapters/out/postgres"
	"agromarket/internal/adapters/out/postgres/orderrepo"
	"agromarket/internal/adapters/out/postgres/preferencerepo"
	"agromarket/internal/adapters/out/postgres/productrepo"
	"agromarket/internal/adapters/out/upstream"
	"agromarket/internal/core/application/catalog"
	"agromarket/internal/core/application/forecast"
	"agromarket/internal/core/application/lifecycle"
	"agromarket/internal/core/application/navigation"
	"agromarket/internal/core/domain/events"
	"agromarket/internal/core/ports"
	"agromarket/internal/jobs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

const (
	ordersService   = "orders"
	productsService = "products"
	weatherService  = "weather"
)

// CompositionRoot owns every long lived component of the application.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger
	gormDB *gorm.DB

	registry *prometheus.Registry
	bus      *events.Bus

	orders   *lifecycle.Service
	products *catalog.Service
	weather  *forecast.Monitor
	sidebar  *navigation.Sidebar
	jobs     *jobs.JobManager
}

type stores struct {
	orders      ports.OrderRepository
	products    ports.ProductRepository
	preferences ports.PreferenceStore
}

func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		bus:      events.NewBus(logger),
	}
	root.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s, err := root.openStores(ctx)
	if err != nil {
		return nil, err
	}

	provider, geocoder, reverse, err := root.weatherBackends()
	if err != nil {
		return nil, errors.Join(err, root.Close())
	}

	root.orders = lifecycle.NewService(s.orders, root.bus, logger)
	root.products = catalog.NewService(s.products, root.bus, logger)

	monitorOpts := []forecast.Option{forecast.WithGeocoder(geocoder)}
	if reverse != nil {
		monitorOpts = append(monitorOpts, forecast.WithReverseGeocoder(reverse))
	}
	root.weather = forecast.NewMonitor(provider, root.bus, logger, monitorOpts...)
	root.sidebar = navigation.NewSidebar(s.preferences, logger)

	metrics := jobs.NewMetrics(root.registry)
	root.jobs = jobs.NewJobManager(logger,
		jobs.NewPollingController(ordersService, cfg.OrdersInterval, root.orders, logger, metrics),
		jobs.NewPollingController(productsService, cfg.ProductsInterval, root.products, logger, metrics),
		jobs.NewPollingController(weatherService, cfg.WeatherInterval, root.weather, logger, metrics),
	)

	return root, nil
}

func (c *CompositionRoot) openStores(ctx context.Context) (stores, error) {
	if c.cfg.Storage == StorageMemory {
		var orderSeed, productSeed = memory.SeedOrders(), memory.SeedProducts()
		if !c.cfg.SeedDemoData {
			orderSeed, productSeed = nil, nil
		}
		return stores{
			orders:      memory.NewOrderRepository(orderSeed, c.cfg.OrdersLatency),
			products:    memory.NewProductRepository(productSeed, c.cfg.ProductsLatency),
			preferences: memory.NewPreferenceStore(),
		}, nil
	}

	dsn := postgres.DSN(c.cfg.DBHost, c.cfg.DBPort, c.cfg.DBUser, c.cfg.DBPassword, c.cfg.DBName, c.cfg.DBSslMode)
	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		return stores{}, err
	}
	c.gormDB = db

	if err = postgres.Migrate(db); err != nil {
		return stores{}, errors.Join(fmt.Errorf("migrate: %w", err), c.Close())
	}

	orderRepo := orderrepo.NewGormOrderRepository(db)
	productRepo := productrepo.NewGormProductRepository(db)
	if c.cfg.SeedDemoData {
		if err = errors.Join(
			orderRepo.Seed(ctx, memory.SeedOrders()),
			productRepo.Seed(ctx, memory.SeedProducts()),
		); err != nil {
			return stores{}, errors.Join(fmt.Errorf("seed: %w", err), c.Close())
		}
	}

	return stores{
		orders:      orderRepo,
		products:    productRepo,
		preferences: preferencerepo.NewGormPreferenceStore(db),
	}, nil
}

// weatherBackends picks the forecast provider. City search always goes through Open-Meteo;
// reverse geocoding needs OpenWeather.
func (c *CompositionRoot) weatherBackends() (ports.WeatherProvider, ports.Geocoder, ports.ReverseGeocoder, error) {
	retry := upstream.DefaultRetryConfig()
	retry.MaxRetries = c.cfg.UpstreamMaxRetries

	meteo := openmeteo.NewClient(openmeteo.Config{
		ForecastURL:  c.cfg.OpenMeteoForecastURL,
		GeocodingURL: c.cfg.OpenMeteoGeocodingURL,
	}, upstream.New(openmeteo.ServiceName, nil, retry, c.logger), c.logger)

	switch c.cfg.WeatherProvider {
	case WeatherOpenWeather:
		ow, err := openweather.NewClient(c.cfg.OpenWeatherBaseURL, c.cfg.OpenWeatherAPIKey,
			upstream.New(openweather.ServiceName, nil, retry, c.logger), c.logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return ow, meteo, ow, nil
	case WeatherOpenMeteo:
		return meteo, meteo, nil, nil
	default:
		return memory.NewWeatherProvider(c.cfg.WeatherLatency), meteo, nil, nil
	}
}

func (c *CompositionRoot) Jobs() *jobs.JobManager {
	return c.jobs
}

// Sidebar is the navigation preference. Load it once before serving requests.
func (c *CompositionRoot) Sidebar() *navigation.Sidebar {
	return c.sidebar
}

func (c *CompositionRoot) NewHTTPServer() *apihttp.Server {
	return apihttp.NewServer(c.orders, c.products, c.weather, c.sidebar, c.jobs, c.registry, c.logger)
}

// Close releases the database connection, if any.
func (c *CompositionRoot) Close() error {
	if c.gormDB == nil {
		return nil
	}
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
