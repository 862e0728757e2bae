package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"agromarket/internal/core/domain/model/order"
	"agromarket/internal/core/ports"
	"agromarket/internal/pkg/errs"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository keeps order snapshots in memory, newest first: by creation time, then
// by id, both descending. This matches the postgres repository.
type OrderRepository struct {
	mu      sync.RWMutex
	orders  []order.Snapshot
	latency time.Duration
}

// NewOrderRepository returns a repository preloaded with seed in any order. Loads take latency.
func NewOrderRepository(seed []order.Snapshot, latency time.Duration) *OrderRepository {
	orders := make([]order.Snapshot, len(seed))
	for i, s := range seed {
		orders[i] = cloneOrderSnapshot(s)
	}
	slices.SortStableFunc(orders, func(a, b order.Snapshot) int {
		return newestFirst(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	})
	return &OrderRepository{orders: orders, latency: latency}
}

func (r *OrderRepository) LoadAll(ctx context.Context) ([]*order.Order, error) {
	if err := wait(ctx, r.latency); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*order.Order, 0, len(r.orders))
	for _, s := range r.orders {
		o, err := order.RestoreOrder(cloneOrderSnapshot(s))
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *OrderRepository) Add(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexLocked(o.ID()) >= 0 {
		return errs.NewValueIsInvalidError("order " + o.ID() + " already exists")
	}
	r.orders = slices.Insert(r.orders, 0, o.Snapshot())
	return nil
}

func (r *OrderRepository) Update(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(o.ID())
	if idx < 0 {
		return errs.NewObjectNotFoundError("order", o.ID())
	}
	r.orders[idx] = o.Snapshot()
	return nil
}

func (r *OrderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return errs.NewObjectNotFoundError("order", id)
	}
	r.orders = slices.Delete(r.orders, idx, idx+1)
	return nil
}

func (r *OrderRepository) indexLocked(id string) int {
	return slices.IndexFunc(r.orders, func(s order.Snapshot) bool { return s.ID == id })
}

func cloneOrderSnapshot(s order.Snapshot) order.Snapshot {
	s.Items = slices.Clone(s.Items)
	return s
}

// newestFirst compares two records by creation time, then id, both descending.
func newestFirst(aCreated time.Time, aID string, bCreated time.Time, bID string) int {
	if c := bCreated.Compare(aCreated); c != 0 {
		return c
	}
	return strings.Compare(bID, aID)
}
