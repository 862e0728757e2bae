package events

import (
	"time"

	"agromarket/internal/core/domain/model/product"
)

type ProductCreated struct {
	envelope
	Product *product.Product
}

func NewProductCreated(p *product.Product, at time.Time) ProductCreated {
	return ProductCreated{envelope: newEnvelope(at), Product: p}
}

func (ProductCreated) Name() Name { return ProductCreatedName }

type ProductUpdated struct {
	envelope
	ProductID string
	Changes   product.Changes
	Product   *product.Product
}

func NewProductUpdated(p *product.Product, changes product.Changes, at time.Time) ProductUpdated {
	return ProductUpdated{envelope: newEnvelope(at), ProductID: p.ID(), Changes: changes, Product: p}
}

func (ProductUpdated) Name() Name { return ProductUpdatedName }

type ProductDeleted struct {
	envelope
	ProductID string
	Product   *product.Product
}

func NewProductDeleted(p *product.Product, at time.Time) ProductDeleted {
	return ProductDeleted{envelope: newEnvelope(at), ProductID: p.ID(), Product: p}
}

func (ProductDeleted) Name() Name { return ProductDeletedName }

type ProductPriceUpdated struct {
	envelope
	ProductID string
	OldPrice  string
	NewPrice  string
	Product   *product.Product
}

func NewProductPriceUpdated(p *product.Product, oldPrice string, at time.Time) ProductPriceUpdated {
	return ProductPriceUpdated{
		envelope:  newEnvelope(at),
		ProductID: p.ID(),
		OldPrice:  oldPrice,
		NewPrice:  p.Price(),
		Product:   p,
	}
}

func (ProductPriceUpdated) Name() Name { return ProductPriceUpdatedName }

type ProductStockUpdated struct {
	envelope
	ProductID string
	OldStock  int
	NewStock  int
	Product   *product.Product
}

func NewProductStockUpdated(p *product.Product, oldStock int, at time.Time) ProductStockUpdated {
	return ProductStockUpdated{
		envelope:  newEnvelope(at),
		ProductID: p.ID(),
		OldStock:  oldStock,
		NewStock:  p.Stock(),
		Product:   p,
	}
}

func (ProductStockUpdated) Name() Name { return ProductStockUpdatedName }

type ProductsRefreshed struct {
	envelope
	Products   []*product.Product
	LastUpdate time.Time
}

func NewProductsRefreshed(products []*product.Product, at time.Time) ProductsRefreshed {
	return ProductsRefreshed{envelope: newEnvelope(at), Products: products, LastUpdate: at}
}

func (ProductsRefreshed) Name() Name { return ProductsRefreshedName }
