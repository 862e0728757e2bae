package product

import (
	"fmt"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/pkg/errs"
)

// PriceRange is the structured price of a product per unit.
type PriceRange struct {
	Min      kernel.Money
	Max      kernel.Money
	Currency string
	Unit     string
}

// NewPriceRange validates that min does not exceed max.
func NewPriceRange(minPrice, maxPrice kernel.Money, unit string) (PriceRange, error) {
	if maxPrice.Less(minPrice) {
		return PriceRange{}, errs.NewValueIsInvalidErrorWithCause(
			"price range is invalid",
			fmt.Errorf("min %s is greater than max %s", minPrice, maxPrice),
		)
	}

	return PriceRange{
		Min:      minPrice,
		Max:      maxPrice,
		Currency: kernel.CurrencySymbol,
		Unit:     unit,
	}, nil
}

// Average is the midpoint of the range.
func (r PriceRange) Average() kernel.Money {
	return r.Min.Midpoint(r.Max)
}

// Label renders the range the way the catalog shows it, e.g. "₹50-60/Piece".
func (r PriceRange) Label() string {
	label := r.Min.String()
	if r.Max != r.Min {
		label += "-" + r.Max.String()[len(kernel.CurrencySymbol):]
	}
	if r.Unit != "" {
		label += "/" + r.Unit
	}
	return label
}
