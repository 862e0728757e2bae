// Package http exposes the marketplace services over a JSON API built on echo.
package http

import (
	"log/slog"
	"net/http"

	"agromarket/internal/core/application/catalog"
	"agromarket/internal/core/application/forecast"
	"agromarket/internal/core/application/lifecycle"
	"agromarket/internal/core/application/navigation"
	"agromarket/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server routes HTTP requests to the order lifecycle, the product catalog, the weather
// monitor, the sidebar preference and the polling controllers.
type Server struct {
	orders   *lifecycle.Service
	products *catalog.Service
	weather  *forecast.Monitor
	sidebar  *navigation.Sidebar
	polling  *jobs.JobManager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

func NewServer(
	orders *lifecycle.Service,
	products *catalog.Service,
	weather *forecast.Monitor,
	sidebar *navigation.Sidebar,
	polling *jobs.JobManager,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Server {
	return &Server{
		orders:   orders,
		products: products,
		weather:  weather,
		sidebar:  sidebar,
		polling:  polling,
		gatherer: gatherer,
		logger:   logger.With("component", "HTTPServer"),
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api/v1")

	api.GET("/orders", s.GetOrders)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/statistics", s.GetOrderStatistics)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id", s.UpdateOrder)
	api.PUT("/orders/:id/status", s.SetOrderStatus)
	api.POST("/orders/:id/advance", s.AdvanceOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)

	api.GET("/products", s.GetProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/statistics", s.GetProductStatistics)
	api.GET("/products/categories", s.GetCategories)
	api.GET("/products/:id", s.GetProduct)
	api.PATCH("/products/:id", s.UpdateProduct)
	api.PUT("/products/:id/price", s.UpdateProductPrice)
	api.PUT("/products/:id/stock", s.UpdateProductStock)
	api.DELETE("/products/:id", s.DeleteProduct)

	api.GET("/weather", s.GetWeather)
	api.GET("/weather/alerts", s.GetWeatherAlerts)
	api.PUT("/weather/location", s.SetWeatherLocation)

	api.GET("/polling", s.GetPolling)
	api.POST("/polling/:service/pause", s.PausePolling)
	api.POST("/polling/:service/resume", s.ResumePolling)

	api.GET("/preferences/sidebar", s.GetSidebar)
	api.PUT("/preferences/sidebar", s.SetSidebar)
	api.POST("/preferences/sidebar/toggle", s.ToggleSidebar)
}
