package commands

import (
	"errors"
	"slices"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/product"
	"agromarket/internal/pkg/errs"
	"agromarket/internal/pkg/guard"
)

const (
	DefaultProductName     = "Nuevo Producto"
	DefaultProductCategory = "Sin Categoría"
	DefaultProductLocation = "Ubicación no especificada"
	DefaultProductDetails  = "Sin descripción"
	DefaultProductUnit     = "Piece"
	DefaultProductSupplier = "Proveedor no especificado"
)

var ErrCreateProductCommandIsNotConstructed = errors.New(
	"CreateProductCommand must be created via NewCreateProductCommand constructor",
)

// CreateProductCommand represents a new catalog listing.
// Blank descriptive fields get the catalog defaults; a missing price range is ₹0 per unit.
type CreateProductCommand struct { //nolint:recvcheck //using for validation
	attrs product.Attributes

	guard guard.ConstructorGuard
}

func NewCreateProductCommand(attrs product.Attributes) (CreateProductCommand, error) {
	attrs.Name = orDefault(attrs.Name, DefaultProductName)
	attrs.Category = orDefault(attrs.Category, DefaultProductCategory)
	attrs.Location = orDefault(attrs.Location, DefaultProductLocation)
	attrs.Description = orDefault(attrs.Description, DefaultProductDetails)
	attrs.Unit = orDefault(attrs.Unit, DefaultProductUnit)
	attrs.Supplier = orDefault(attrs.Supplier, DefaultProductSupplier)
	attrs.Tags = slices.Clone(attrs.Tags)
	if attrs.Tags == nil {
		attrs.Tags = []string{}
	}

	if attrs.PriceRange.Currency == "" {
		attrs.PriceRange.Currency = kernel.CurrencySymbol
	}
	if attrs.PriceRange.Unit == "" {
		attrs.PriceRange.Unit = attrs.Unit
	}

	if err := errors.Join(
		validateStock(attrs.Stock),
		validatePriceRange(attrs.PriceRange),
	); err != nil {
		return CreateProductCommand{}, err
	}

	return CreateProductCommand{attrs: attrs, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateProductCommand) Validate() error {
	return c.guard.Validate(ErrCreateProductCommandIsNotConstructed)
}

func (c CreateProductCommand) Attributes() product.Attributes {
	attrs := c.attrs
	attrs.Tags = slices.Clone(c.attrs.Tags)
	return attrs
}

func validateStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsOutOfRangeError("stock", stock, 0, "unbounded")
	}
	return nil
}

func validatePriceRange(r product.PriceRange) error {
	_, err := product.NewPriceRange(r.Min, r.Max, r.Unit)
	return err
}
