package http

import (
	"net/http"
	"strconv"
	"time"

	"agromarket/internal/core/application/catalog"
	"agromarket/internal/core/application/usecases/commands"
	"agromarket/internal/core/application/usecases/queries"
	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/product"
	"agromarket/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type PriceRange struct {
	Min      kernel.Money `json:"min"`
	Max      kernel.Money `json:"max"`
	Currency string       `json:"currency"`
	Unit     string       `json:"unit"`
}

type Product struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Price        string       `json:"price"`
	PriceRange   PriceRange   `json:"priceRange"`
	AveragePrice kernel.Money `json:"averagePrice"`
	Location     string       `json:"location"`
	Description  string       `json:"description"`
	Image        string       `json:"image"`
	Stock        int          `json:"stock"`
	Unit         string       `json:"unit"`
	Supplier     string       `json:"supplier"`
	Rating       float64      `json:"rating"`
	Reviews      int          `json:"reviews"`
	Tags         []string     `json:"tags"`
	LastUpdated  time.Time    `json:"lastUpdated"`
}

// NewProduct is the POST body. Amounts are strings such as "₹50" or "1,250.50"; a missing
// max equals min.
type NewProduct struct {
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Price       string        `json:"price"`
	MinPrice    *kernel.Money `json:"minPrice"`
	MaxPrice    *kernel.Money `json:"maxPrice"`
	Location    string        `json:"location"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
	Stock       int           `json:"stock"`
	Unit        string        `json:"unit"`
	Supplier    string        `json:"supplier"`
	Tags        []string      `json:"tags"`
}

type ProductChanges struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Location    *string  `json:"location"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Unit        *string  `json:"unit"`
	Supplier    *string  `json:"supplier"`
	Tags        []string `json:"tags"`
}

type PriceChange struct {
	Label string        `json:"label"`
	Min   *kernel.Money `json:"min"`
	Max   *kernel.Money `json:"max"`
	Unit  string        `json:"unit"`
}

type StockChange struct {
	Stock *int `json:"stock"`
}

type ProductStatistics struct {
	TotalProducts     int            `json:"totalProducts"`
	TotalCategories   int            `json:"totalCategories"`
	TotalStock        int            `json:"totalStock"`
	TotalValue        kernel.Money   `json:"totalValue"`
	CategoryBreakdown map[string]int `json:"categoryBreakdown"`
	AverageRating     float64        `json:"averageRating"`
}

// GetProducts handles GET /api/v1/products. Any of category, location, min, max, minStock and
// minRating switch to the filter; q searches the result.
func (s *Server) GetProducts(ctx echo.Context) error {
	criteria := queries.ProductCriteria{
		Category: ctx.QueryParam("category"),
		Location: ctx.QueryParam("location"),
		MinPrice: ctx.QueryParam("min"),
		MaxPrice: ctx.QueryParam("max"),
	}
	if raw := ctx.QueryParam("minStock"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("minStock", err))
		}
		criteria.MinStock = n
	}
	if raw := ctx.QueryParam("minRating"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("minRating", err))
		}
		criteria.MinRating = r
	}

	var products []*product.Product
	if criteria == (queries.ProductCriteria{}) {
		products = s.products.List()
	} else {
		q, err := queries.NewFilterProductsQuery(criteria)
		if err != nil {
			return s.fail(ctx, err)
		}
		if products, err = s.products.Filter(q); err != nil {
			return s.fail(ctx, err)
		}
	}

	search := ctx.QueryParam("q")
	response := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Matches(search) {
			response = append(response, toProduct(p))
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) CreateProduct(ctx echo.Context) error {
	var body NewProduct
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	attrs := product.Attributes{
		Name:        body.Name,
		Category:    body.Category,
		Price:       body.Price,
		Location:    body.Location,
		Description: body.Description,
		Image:       body.Image,
		Stock:       body.Stock,
		Unit:        body.Unit,
		Supplier:    body.Supplier,
		Tags:        body.Tags,
	}
	if r := priceRangeOf(body.MinPrice, body.MaxPrice, body.Unit); r != nil {
		attrs.PriceRange = *r
	}

	cmd, err := commands.NewCreateProductCommand(attrs)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.products.Create(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toProduct(created))
}

func (s *Server) GetProductStatistics(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, toProductStatistics(s.products.Statistics()))
}

func (s *Server) GetCategories(ctx echo.Context) error {
	categories := s.products.Categories()
	if categories == nil {
		categories = []string{}
	}
	return ctx.JSON(http.StatusOK, categories)
}

func (s *Server) GetProduct(ctx echo.Context) error {
	p, err := s.products.GetByID(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toProduct(p))
}

func (s *Server) UpdateProduct(ctx echo.Context) error {
	var body ProductChanges
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	updated, err := s.products.Update(ctx.Request().Context(), ctx.Param("id"), product.Changes{
		Name:        body.Name,
		Category:    body.Category,
		Location:    body.Location,
		Description: body.Description,
		Image:       body.Image,
		Unit:        body.Unit,
		Supplier:    body.Supplier,
		Tags:        body.Tags,
	})
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toProduct(updated))
}

// UpdateProductPrice handles PUT /api/v1/products/:id/price with a label, a range, or both.
func (s *Server) UpdateProductPrice(ctx echo.Context) error {
	var body PriceChange
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id := ctx.Param("id")
	unit := body.Unit
	if unit == "" && body.Min != nil {
		if current, err := s.products.GetByID(id); err == nil {
			unit = current.PriceRange().Unit
		}
	}

	cmd, err := commands.NewUpdateProductPriceCommand(id, body.Label, priceRangeOf(body.Min, body.Max, unit))
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.products.UpdatePrice(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toProduct(updated))
}

func (s *Server) UpdateProductStock(ctx echo.Context) error {
	var body StockChange
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if body.Stock == nil {
		return s.fail(ctx, errs.NewValueIsRequiredError("stock"))
	}

	updated, err := s.products.UpdateStock(ctx.Request().Context(), ctx.Param("id"), *body.Stock)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toProduct(updated))
}

func (s *Server) DeleteProduct(ctx echo.Context) error {
	if _, err := s.products.Remove(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// priceRangeOf returns nil when no bound is given.
func priceRangeOf(minPrice, maxPrice *kernel.Money, unit string) *product.PriceRange {
	if minPrice == nil && maxPrice == nil {
		return nil
	}
	r := product.PriceRange{Currency: kernel.CurrencySymbol, Unit: unit}
	switch {
	case minPrice != nil && maxPrice != nil:
		r.Min, r.Max = *minPrice, *maxPrice
	case minPrice != nil:
		r.Min, r.Max = *minPrice, *minPrice
	default:
		r.Min, r.Max = *maxPrice, *maxPrice
	}
	return &r
}

func toProduct(p *product.Product) Product {
	r := p.PriceRange()
	resp := Product{
		ID:       p.ID(),
		Name:     p.Name(),
		Category: p.Category(),
		Price:    p.Price(),
		PriceRange: PriceRange{
			Min:      r.Min,
			Max:      r.Max,
			Currency: r.Currency,
			Unit:     r.Unit,
		},
		AveragePrice: p.AveragePrice(),
		Location:     p.Location(),
		Description:  p.Description(),
		Image:        p.Image(),
		Stock:        p.Stock(),
		Unit:         p.Unit(),
		Supplier:     p.Supplier(),
		Rating:       p.Rating(),
		Reviews:      p.Reviews(),
		Tags:         p.Tags(),
		LastUpdated:  p.LastUpdated(),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}

func toProductStatistics(st catalog.Statistics) ProductStatistics {
	return ProductStatistics{
		TotalProducts:     st.TotalProducts,
		TotalCategories:   st.TotalCategories,
		TotalStock:        st.TotalStock,
		TotalValue:        st.TotalValue,
		CategoryBreakdown: st.CategoryBreakdown,
		AverageRating:     st.AverageRating,
	}
}
