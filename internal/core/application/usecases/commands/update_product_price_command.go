package commands

import (
	"errors"
	"strings"

	"agromarket/internal/core/domain/model/product"
	"agromarket/internal/pkg/errs"
	"agromarket/internal/pkg/guard"
)

var ErrUpdateProductPriceCommandIsNotConstructed = errors.New(
	"UpdateProductPriceCommand must be created via NewUpdateProductPriceCommand constructor",
)

// UpdateProductPriceCommand carries a new price label, a new structured range, or both.
type UpdateProductPriceCommand struct { //nolint:recvcheck //using for validation
	productID  string
	label      string
	priceRange *product.PriceRange

	guard guard.ConstructorGuard
}

func NewUpdateProductPriceCommand(productID, label string, priceRange *product.PriceRange) (UpdateProductPriceCommand, error) {
	var errList []error
	if productID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("productID"))
	}
	if strings.TrimSpace(label) == "" && priceRange == nil {
		errList = append(errList, errs.NewValueIsRequiredError("price"))
	}
	if priceRange != nil {
		errList = append(errList, validatePriceRange(*priceRange))
	}
	if err := errors.Join(errList...); err != nil {
		return UpdateProductPriceCommand{}, err
	}

	cmd := UpdateProductPriceCommand{
		productID: productID,
		label:     label,
		guard:     guard.NewConstructorGuard(),
	}
	if priceRange != nil {
		r := *priceRange
		cmd.priceRange = &r
	}
	return cmd, nil
}

func (c UpdateProductPriceCommand) Validate() error {
	return c.guard.Validate(ErrUpdateProductPriceCommandIsNotConstructed)
}

func (c UpdateProductPriceCommand) ProductID() string {
	return c.productID
}

func (c UpdateProductPriceCommand) Label() string {
	return c.label
}

// PriceRange is nil when only the label changes.
func (c UpdateProductPriceCommand) PriceRange() *product.PriceRange {
	if c.priceRange == nil {
		return nil
	}
	r := *c.priceRange
	return &r
}
