package queries

import (
	"errors"
	"fmt"
	"strings"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/product"
	"agromarket/internal/pkg/errs"
	"agromarket/internal/pkg/guard"
)

var ErrFilterProductsQueryIsNotConstructed = errors.New(
	"FilterProductsQuery must be created via NewFilterProductsQuery constructor",
)

// ProductCriteria is the raw catalog filter input. Zero fields do not constrain the result.
type ProductCriteria struct {
	Category  string
	Location  string
	MinPrice  string
	MaxPrice  string
	MinStock  int
	MinRating float64
}

// FilterProductsQuery selects products by exact category, location substring, the average of
// the price range within [MinPrice, MaxPrice], minimum stock and minimum rating.
type FilterProductsQuery struct {
	category  string
	location  string
	minPrice  *kernel.Money
	maxPrice  *kernel.Money
	minStock  int
	minRating float64

	guard guard.ConstructorGuard
}

func NewFilterProductsQuery(c ProductCriteria) (FilterProductsQuery, error) {
	minPrice, minErr := parseBound(c.MinPrice)
	maxPrice, maxErr := parseBound(c.MaxPrice)

	var errList []error
	errList = append(errList, minErr, maxErr)
	if c.MinStock < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("minStock", c.MinStock, 0, "unbounded"))
	}
	if c.MinRating < 0 || c.MinRating > 5 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("minRating", c.MinRating, 0, 5))
	}
	if minPrice != nil && maxPrice != nil && maxPrice.Less(*minPrice) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"price range is invalid",
			fmt.Errorf("min %s is greater than max %s", minPrice, maxPrice),
		))
	}
	if err := errors.Join(errList...); err != nil {
		return FilterProductsQuery{}, err
	}

	return FilterProductsQuery{
		category:  c.Category,
		location:  strings.ToLower(strings.TrimSpace(c.Location)),
		minPrice:  minPrice,
		maxPrice:  maxPrice,
		minStock:  c.MinStock,
		minRating: c.MinRating,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q FilterProductsQuery) Validate() error {
	return q.guard.Validate(ErrFilterProductsQueryIsNotConstructed)
}

func (q FilterProductsQuery) Matches(p *product.Product) bool {
	if q.category != "" && p.Category() != q.category {
		return false
	}
	if q.location != "" && !strings.Contains(strings.ToLower(p.Location()), q.location) {
		return false
	}

	avg := p.AveragePrice()
	if q.minPrice != nil && avg.Less(*q.minPrice) {
		return false
	}
	if q.maxPrice != nil && q.maxPrice.Less(avg) {
		return false
	}

	return p.Stock() >= q.minStock && p.Rating() >= q.minRating
}
