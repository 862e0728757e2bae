package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	api "agromarket/internal/adapters/in/http"
	"agromarket/internal/adapters/out/memory"
	"agromarket/internal/core/application/catalog"
	"agromarket/internal/core/application/forecast"
	"agromarket/internal/core/application/lifecycle"
	"agromarket/internal/core/application/navigation"
	"agromarket/internal/core/domain/events"
	"agromarket/internal/core/domain/model/order"
	"agromarket/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	e       *echo.Echo
	polling *jobs.PollingController
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	bus := events.NewBus(logger)

	orders := lifecycle.NewService(memory.NewOrderRepository(memory.SeedOrders(), 0), bus, logger)
	require.NoError(t, orders.Refresh(t.Context()))
	products := catalog.NewService(memory.NewProductRepository(memory.SeedProducts(), 0), bus, logger)
	require.NoError(t, products.Refresh(t.Context()))
	monitor := forecast.NewMonitor(memory.NewWeatherProvider(0), bus, logger)
	sidebar := navigation.NewSidebar(memory.NewPreferenceStore(), logger)
	sidebar.Load(t.Context())

	registry := prometheus.NewRegistry()
	metrics := jobs.NewMetrics(registry)
	ordersPolling := jobs.NewPollingController("orders", time.Hour, orders, logger, metrics)
	manager := jobs.NewJobManager(logger,
		ordersPolling,
		jobs.NewPollingController("weather", time.Hour, monitor, logger, metrics),
	)
	t.Cleanup(func() { manager.StopAll(context.Background()) })

	e := echo.New()
	api.NewServer(orders, products, monitor, sidebar, manager, registry, logger).Register(e)
	return &fixture{e: e, polling: ordersPolling}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestOrders(t *testing.T) {
	t.Run("list, search and filter", func(t *testing.T) {
		f := newFixture(t)

		all := decode[[]api.Order](t, f.do(t, http.MethodGet, "/api/v1/orders", ""))
		require.Len(t, all, 5)
		assert.Equal(t, "2024-01-25", all[0].Date)

		found := decode[[]api.Order](t, f.do(t, http.MethodGet, "/api/v1/orders?q=luis", ""))
		require.Len(t, found, 1)
		assert.Equal(t, "ORD-005", found[0].ID)

		delivered := decode[[]api.Order](t, f.do(t, http.MethodGet, "/api/v1/orders?status=Delivered&min=13000", ""))
		require.Len(t, delivered, 1)
		assert.Equal(t, "ORD-001", delivered[0].ID)

		ranged := decode[[]api.Order](t, f.do(t, http.MethodGet, "/api/v1/orders?from=2024-01-20&to=2024-01-22", ""))
		assert.Len(t, ranged, 2)
	})

	t.Run("malformed filters are rejected", func(t *testing.T) {
		f := newFixture(t)

		for _, query := range []string{"min=" + url.QueryEscape("₹abc"), "from=yesterday", "from=2024-02-01&to=2024-01-01"} {
			rec := f.do(t, http.MethodGet, "/api/v1/orders?"+query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, query)
			assert.Equal(t, http.StatusBadRequest, decode[api.Error](t, rec).Code)
		}
	})

	t.Run("create", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/orders",
			`{"customer": "Agricultor Pedro Sánchez", "total": "5000", "items": ["Coco Verde"]}`)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		created := decode[api.Order](t, rec)
		assert.Equal(t, "ORD-006", created.ID)
		assert.Equal(t, order.Placed, created.Status)
		assert.Equal(t, 10, created.Progress)
		assert.Equal(t, "₹5,000", created.Total)
		assert.Equal(t, "Bowenpally, Hyderabad", created.Location)

		all := decode[[]api.Order](t, f.do(t, http.MethodGet, "/api/v1/orders", ""))
		assert.Equal(t, "ORD-006", all[0].ID)
	})

	t.Run("create with a bad total", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/orders", `{"total": "₹abc"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodGet, "/api/v1/orders/ORD-404", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, decode[api.Error](t, rec).Message, "ORD-404")
	})

	t.Run("advance to the next status", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/orders/ORD-005/advance", "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		advanced := decode[api.Order](t, rec)
		assert.Equal(t, order.Accepted, advanced.Status)
		assert.Equal(t, 20, advanced.Progress)
		assert.NotNil(t, advanced.LastModified)
	})

	t.Run("backward advance is rejected", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/orders/ORD-001/advance", `{"status": "Loaded"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		current := decode[api.Order](t, f.do(t, http.MethodGet, "/api/v1/orders/ORD-001", ""))
		assert.Equal(t, order.Delivered, current.Status)
	})

	t.Run("raw status change", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPut, "/api/v1/orders/ORD-004/status", `{"status": "Completed"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 100, decode[api.Order](t, rec).Progress)

		rec = f.do(t, http.MethodPut, "/api/v1/orders/ORD-004/status", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("patch", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPatch, "/api/v1/orders/ORD-003",
			`{"customer": "Agricultora Sofía", "estimatedDelivery": "2024-02-01"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		updated := decode[api.Order](t, rec)
		assert.Equal(t, "Agricultora Sofía", updated.Customer)
		assert.Equal(t, "2024-02-01", updated.EstimatedDelivery)
		assert.Equal(t, order.Loaded, updated.Status)

		rec = f.do(t, http.MethodPatch, "/api/v1/orders/ORD-003", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		f := newFixture(t)

		assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/v1/orders/ORD-002", "").Code)
		assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/v1/orders/ORD-002", "").Code)
		assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/api/v1/orders/ORD-002", "").Code)
	})

	t.Run("statistics", func(t *testing.T) {
		f := newFixture(t)

		stats := decode[api.OrderStatistics](t, f.do(t, http.MethodGet, "/api/v1/orders/statistics", ""))

		assert.Equal(t, 5, stats.TotalOrders)
		assert.Equal(t, 0, stats.CompletedOrders)
		assert.Equal(t, 5, stats.PendingOrders)
		assert.Equal(t, "₹78,350", stats.TotalValue.String())
		assert.Equal(t, 2, stats.ByStatus[order.Delivered])
	})
}

func TestProducts(t *testing.T) {
	t.Run("list and filter", func(t *testing.T) {
		f := newFixture(t)

		assert.Len(t, decode[[]api.Product](t, f.do(t, http.MethodGet, "/api/v1/products", "")), 6)

		oils := decode[[]api.Product](t, f.do(t, http.MethodGet, "/api/v1/products?category=Aceites", ""))
		require.Len(t, oils, 1)
		assert.Equal(t, "₹300-400/Litro", oils[0].Price)
		assert.Equal(t, "₹350", oils[0].AveragePrice.String())

		rated := decode[[]api.Product](t, f.do(t, http.MethodGet, "/api/v1/products?minRating=4.6", ""))
		assert.Len(t, rated, 3)

		searched := decode[[]api.Product](t, f.do(t, http.MethodGet, "/api/v1/products?q=kerala", ""))
		require.Len(t, searched, 1)
		assert.Equal(t, "PROD-003", searched[0].ID)

		assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/products?minStock=many", "").Code)
		assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/products?minRating=7", "").Code)
	})

	t.Run("categories", func(t *testing.T) {
		f := newFixture(t)

		categories := decode[[]string](t, f.do(t, http.MethodGet, "/api/v1/products/categories", ""))

		assert.Equal(t, []string{"Aceites", "Cocos Procesados", "Cocos"}, categories)
	})

	t.Run("create", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/products",
			`{"name": "Coco Tender", "category": "Cocos", "minPrice": "40", "maxPrice": "45", "stock": 30, "unit": "Piece"}`)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		created := decode[api.Product](t, rec)
		assert.Equal(t, "PROD-007", created.ID)
		assert.Equal(t, "₹40-45/Piece", created.Price)
		assert.Zero(t, created.Rating)
		assert.Equal(t, []string{}, created.Tags)
	})

	t.Run("price and stock", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPut, "/api/v1/products/PROD-001/price", `{"min": "55", "max": "65"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "₹55-65/Piece", decode[api.Product](t, rec).Price)

		rec = f.do(t, http.MethodPut, "/api/v1/products/PROD-001/price", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = f.do(t, http.MethodPut, "/api/v1/products/PROD-001/stock", `{"stock": 10}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 10, decode[api.Product](t, rec).Stock)

		assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/v1/products/PROD-001/stock", `{"stock": -1}`).Code)
		assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/v1/products/PROD-001/stock", `{}`).Code)
		assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPut, "/api/v1/products/PROD-404/stock", `{"stock": 1}`).Code)
	})

	t.Run("patch and delete", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPatch, "/api/v1/products/PROD-006", `{"supplier": "Cooperativa Kerala"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Cooperativa Kerala", decode[api.Product](t, rec).Supplier)

		assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/v1/products/PROD-006", "").Code)
		assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/v1/products/PROD-006", "").Code)
	})

	t.Run("statistics", func(t *testing.T) {
		f := newFixture(t)

		stats := decode[api.ProductStatistics](t, f.do(t, http.MethodGet, "/api/v1/products/statistics", ""))

		assert.Equal(t, 6, stats.TotalProducts)
		assert.Equal(t, 3, stats.TotalCategories)
		assert.Equal(t, 685, stats.TotalStock)
		assert.InDelta(t, 4.5, stats.AverageRating, 1e-9)
		assert.Equal(t, 4, stats.CategoryBreakdown["Cocos"])
	})
}

func TestWeather(t *testing.T) {
	t.Run("empty before the first refresh", func(t *testing.T) {
		f := newFixture(t)

		w := decode[api.Weather](t, f.do(t, http.MethodGet, "/api/v1/weather", ""))

		assert.Nil(t, w.Current)
		assert.Nil(t, w.LastUpdate)
		assert.Equal(t, "Ciudad de México, MX", w.Place.Label)
		assert.Empty(t, w.Alerts)
	})

	t.Run("move to coordinates", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPut, "/api/v1/weather/location",
			`{"lat": 17.385, "lon": 78.4867, "city": "Hyderabad", "country": "IN"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		w := decode[api.Weather](t, rec)
		assert.Equal(t, "Hyderabad, IN", w.Place.Label)
		require.NotNil(t, w.Current)
		assert.InDelta(t, 25.5, w.Current.Temperature, 1e-9)
		assert.Len(t, w.Forecast, 2)
		assert.NotNil(t, w.LastUpdate)

		alerts := decode[[]api.Alert](t, f.do(t, http.MethodGet, "/api/v1/weather/alerts", ""))
		assert.Empty(t, alerts)
	})

	t.Run("coordinates typed as a city", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPut, "/api/v1/weather/location", `{"city": "4.7110, -74.0721"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		w := decode[api.Weather](t, rec)
		assert.InDelta(t, 4.711, w.Place.Lat, 1e-9)
	})

	t.Run("rejected locations", func(t *testing.T) {
		f := newFixture(t)

		assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/v1/weather/location", `{}`).Code)
		assert.Equal(t, http.StatusBadRequest,
			f.do(t, http.MethodPut, "/api/v1/weather/location", `{"lat": 95, "lon": 0}`).Code)
		assert.Equal(t, http.StatusBadGateway,
			f.do(t, http.MethodPut, "/api/v1/weather/location", `{"city": "Bogotá"}`).Code,
			"no geocoder is configured")
	})
}

func TestPolling(t *testing.T) {
	t.Run("stopped controllers", func(t *testing.T) {
		f := newFixture(t)

		statuses := decode[[]jobs.ControllerStatus](t, f.do(t, http.MethodGet, "/api/v1/polling", ""))
		require.Len(t, statuses, 2)
		assert.Equal(t, "orders", statuses[0].Service)
		assert.Equal(t, jobs.Stopped, statuses[0].State)
		assert.Equal(t, "1h0m0s", statuses[0].Every)

		assert.Equal(t, http.StatusConflict, f.do(t, http.MethodPost, "/api/v1/polling/orders/pause", "").Code)
		assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/api/v1/polling/invoices/pause", "").Code)
	})

	t.Run("pause and resume", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.polling.Start(t.Context()))

		rec := f.do(t, http.MethodPost, "/api/v1/polling/orders/pause", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, jobs.Paused, decode[jobs.ControllerStatus](t, rec).State)

		rec = f.do(t, http.MethodPost, "/api/v1/polling/orders/resume", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, jobs.Running, decode[jobs.ControllerStatus](t, rec).State)

		metrics := f.do(t, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, metrics.Code)
		assert.Contains(t, metrics.Body.String(), `agromarket_polling_ticks_total{outcome="applied",service="orders"} 2`)
	})
}

func TestSidebarPreference(t *testing.T) {
	f := newFixture(t)

	assert.False(t, decode[api.SidebarPreference](t, f.do(t, http.MethodGet, "/api/v1/preferences/sidebar", "")).Collapsed)

	toggled := decode[api.SidebarPreference](t, f.do(t, http.MethodPost, "/api/v1/preferences/sidebar/toggle", ""))
	assert.True(t, toggled.Collapsed)

	set := decode[api.SidebarPreference](t, f.do(t, http.MethodPut, "/api/v1/preferences/sidebar", `{"collapsed": false}`))
	assert.False(t, set.Collapsed)
}
