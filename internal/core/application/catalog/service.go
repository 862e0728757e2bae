package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"agromarket/internal/core/application/usecases/commands"
	"agromarket/internal/core/application/usecases/queries"
	"agromarket/internal/core/domain/events"
	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/product"
	"agromarket/internal/core/ports"
	"agromarket/internal/pkg/errs"
)

const idPrefix = "PROD-"

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	mu         sync.Mutex
	products   []*product.Product
	lastUpdate time.Time
	version    uint64
	loaded     bool

	repo      ports.ProductRepository
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo ports.ProductRepository, publisher ports.EventPublisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With("component", "ProductCatalog"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create lists a new, unrated product at the front of the catalog. The stored catalog is
// loaded first when no refresh has run, so ids continue after the stored ones.
func (s *Service) Create(ctx context.Context, cmd commands.CreateProductCommand) (*product.Product, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if !s.loaded {
		stored, err := s.repo.LoadAll(ctx)
		if err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("load products: %w", err)
		}
		s.products, s.loaded = stored, true
		s.version++
	}
	now := s.now()
	p, err := product.NewProduct(s.nextIDLocked(), cmd.Attributes(), now)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if err = s.repo.Add(ctx, p); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("store product %s: %w", p.ID(), err)
	}

	s.products = slices.Insert(s.products, 0, p)
	s.touchLocked(now)
	result := p.Clone()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "product created", "productID", result.ID(), "name", result.Name())
	s.publisher.Publish(ctx, events.NewProductCreated(result.Clone(), now))
	return result, nil
}

func (s *Service) Update(ctx context.Context, id string, changes product.Changes) (*product.Product, error) {
	p, at, err := s.mutate(ctx, id, func(p *product.Product, at time.Time) error {
		return p.Update(changes, at)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.NewProductUpdated(p.Clone(), changes, at))
	return p, nil
}

// UpdatePrice replaces the label and optionally the structured range. The notification
// carries the previous label.
func (s *Service) UpdatePrice(ctx context.Context, cmd commands.UpdateProductPriceCommand) (*product.Product, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var oldPrice string
	p, at, err := s.mutate(ctx, cmd.ProductID(), func(p *product.Product, at time.Time) error {
		var err error
		oldPrice, err = p.UpdatePrice(cmd.Label(), cmd.PriceRange(), at)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product price updated", "productID", p.ID(), "oldPrice", oldPrice, "newPrice", p.Price())
	s.publisher.Publish(ctx, events.NewProductPriceUpdated(p.Clone(), oldPrice, at))
	return p, nil
}

// UpdateStock sets the stock level. Negative stock fails with errs.ValueIsOutOfRangeError.
func (s *Service) UpdateStock(ctx context.Context, id string, stock int) (*product.Product, error) {
	var oldStock int
	p, at, err := s.mutate(ctx, id, func(p *product.Product, at time.Time) error {
		var err error
		oldStock, err = p.UpdateStock(stock, at)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product stock updated", "productID", p.ID(), "oldStock", oldStock, "newStock", p.Stock())
	s.publisher.Publish(ctx, events.NewProductStockUpdated(p.Clone(), oldStock, at))
	return p, nil
}

func (s *Service) Remove(ctx context.Context, id string) (*product.Product, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, errs.NewObjectNotFoundError("productID", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("delete product %s: %w", id, err)
	}

	removed := s.products[idx]
	s.products = slices.Delete(s.products, idx, idx+1)
	now := s.now()
	s.touchLocked(now)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "product deleted", "productID", id)
	s.publisher.Publish(ctx, events.NewProductDeleted(removed.Clone(), now))
	return removed.Clone(), nil
}

func (s *Service) mutate(
	ctx context.Context,
	id string,
	change func(p *product.Product, at time.Time) error,
) (*product.Product, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, time.Time{}, errs.NewObjectNotFoundError("productID", id)
	}

	now := s.now()
	next := s.products[idx].Clone()
	if err := change(next, now); err != nil {
		return nil, time.Time{}, err
	}
	if err := s.repo.Update(ctx, next); err != nil {
		return nil, time.Time{}, fmt.Errorf("store product %s: %w", id, err)
	}

	s.products[idx] = next
	s.touchLocked(now)
	return next.Clone(), now, nil
}

// Fetch loads the stored catalog and returns the step that installs it.
func (s *Service) Fetch(ctx context.Context) (apply func(), err error) {
	s.mu.Lock()
	startVersion := s.version
	s.mu.Unlock()

	loaded, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	return func() {
		s.mu.Lock()
		s.loaded = true
		if s.version == startVersion {
			s.products = loaded
		}
		now := s.now()
		s.touchLocked(now)
		snapshot := cloneAll(s.products)
		s.mu.Unlock()

		s.logger.InfoContext(ctx, "products refreshed", "count", len(snapshot))
		s.publisher.Publish(ctx, events.NewProductsRefreshed(snapshot, now))
	}, nil
}

func (s *Service) Refresh(ctx context.Context) error {
	apply, err := s.Fetch(ctx)
	if err != nil {
		return err
	}
	apply()
	return nil
}

func (s *Service) List() []*product.Product {
	return s.selectProducts(func(*product.Product) bool { return true })
}

func (s *Service) GetByID(id string) (*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, errs.NewObjectNotFoundError("productID", id)
	}
	return s.products[idx].Clone(), nil
}

func (s *Service) ListByCategory(category string) []*product.Product {
	return s.selectProducts(func(p *product.Product) bool { return p.Category() == category })
}

// ListByLocation matches a case-insensitive substring of the location.
func (s *Service) ListByLocation(location string) []*product.Product {
	needle := strings.ToLower(location)
	return s.selectProducts(func(p *product.Product) bool {
		return strings.Contains(strings.ToLower(p.Location()), needle)
	})
}

// ListByPriceRange keeps products whose average price lies in [minPrice, maxPrice].
func (s *Service) ListByPriceRange(minPrice, maxPrice kernel.Money) []*product.Product {
	return s.selectProducts(func(p *product.Product) bool {
		avg := p.AveragePrice()
		return !avg.Less(minPrice) && !maxPrice.Less(avg)
	})
}

func (s *Service) Search(query string) []*product.Product {
	return s.selectProducts(func(p *product.Product) bool { return p.Matches(query) })
}

func (s *Service) Filter(q queries.FilterProductsQuery) ([]*product.Product, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.selectProducts(q.Matches), nil
}

// Categories lists the distinct categories in catalog order.
func (s *Service) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var categories []string
	for _, p := range s.products {
		if !slices.Contains(categories, p.Category()) {
			categories = append(categories, p.Category())
		}
	}
	return categories
}

func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

func (s *Service) LastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdate
}

func (s *Service) selectProducts(keep func(*product.Product) bool) []*product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*product.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			result = append(result, p.Clone())
		}
	}
	return result
}

func (s *Service) indexLocked(id string) int {
	return slices.IndexFunc(s.products, func(p *product.Product) bool { return p.ID() == id })
}

func (s *Service) touchLocked(at time.Time) {
	s.lastUpdate = at
	s.version++
}

func (s *Service) nextIDLocked() string {
	highest := 0
	for _, p := range s.products {
		n, err := strconv.Atoi(strings.TrimPrefix(p.ID(), idPrefix))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", idPrefix, highest+1)
}

func cloneAll(products []*product.Product) []*product.Product {
	result := make([]*product.Product, len(products))
	for i, p := range products {
		result[i] = p.Clone()
	}
	return result
}
