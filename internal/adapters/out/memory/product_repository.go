package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"agromarket/internal/core/domain/model/product"
	"agromarket/internal/core/ports"
	"agromarket/internal/pkg/errs"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository keeps product snapshots in memory, newest first, ordered like
// OrderRepository.
type ProductRepository struct {
	mu       sync.RWMutex
	products []product.Snapshot
	latency  time.Duration
}

func NewProductRepository(seed []product.Snapshot, latency time.Duration) *ProductRepository {
	products := make([]product.Snapshot, len(seed))
	for i, s := range seed {
		products[i] = cloneProductSnapshot(s)
	}
	slices.SortStableFunc(products, func(a, b product.Snapshot) int {
		return newestFirst(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	return &ProductRepository{products: products, latency: latency}
}

func (r *ProductRepository) LoadAll(ctx context.Context) ([]*product.Product, error) {
	if err := wait(ctx, r.latency); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*product.Product, 0, len(r.products))
	for _, s := range r.products {
		p, err := product.RestoreProduct(cloneProductSnapshot(s))
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductRepository) Add(_ context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexLocked(p.ID()) >= 0 {
		return errs.NewValueIsInvalidError("product " + p.ID() + " already exists")
	}
	r.products = slices.Insert(r.products, 0, p.Snapshot())
	return nil
}

func (r *ProductRepository) Update(_ context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(p.ID())
	if idx < 0 {
		return errs.NewObjectNotFoundError("product", p.ID())
	}
	r.products[idx] = p.Snapshot()
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return errs.NewObjectNotFoundError("product", id)
	}
	r.products = slices.Delete(r.products, idx, idx+1)
	return nil
}

func (r *ProductRepository) indexLocked(id string) int {
	return slices.IndexFunc(r.products, func(s product.Snapshot) bool { return s.ID == id })
}

func cloneProductSnapshot(s product.Snapshot) product.Snapshot {
	s.Attributes.Tags = slices.Clone(s.Attributes.Tags)
	return s
}
