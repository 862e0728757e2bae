package ports

import (
	"context"

	"agromarket/internal/core/domain/model/product"
)

// ProductRepository defines the persistence contract for catalog products.
// Same semantics as OrderRepository.
type ProductRepository interface {
	LoadAll(ctx context.Context) ([]*product.Product, error)
	Add(ctx context.Context, p *product.Product) error
	Update(ctx context.Context, p *product.Product) error
	Delete(ctx context.Context, id string) error
}
