package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"agromarket/internal/core/application/usecases/commands"
	"agromarket/internal/core/application/usecases/queries"
	"agromarket/internal/core/domain/events"
	"agromarket/internal/core/domain/model/order"
	"agromarket/internal/core/ports"
	"agromarket/internal/pkg/errs"
)

const (
	idPrefix = "ORD-"

	minDeliveryDays = 7
	maxDeliveryDays = 14
)

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandom replaces the source of the estimated delivery offset.
// intN must return a value in [0, n).
func WithRandom(intN func(n int) int) Option {
	return func(s *Service) { s.intN = intN }
}

// Service is the order lifecycle.
type Service struct {
	mu         sync.Mutex
	orders     []*order.Order
	lastUpdate time.Time
	version    uint64
	loaded     bool

	repo      ports.OrderRepository
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	intN      func(n int) int
}

func NewService(repo ports.OrderRepository, publisher ports.EventPublisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With("component", "OrderLifecycle"),
		now:       time.Now,
		intN:      rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create places a new order at the front of the collection.
//
// The order gets the next sequential id, status Placed, today's date and an estimated
// delivery a whole number of days in [7, 14] after creation. An order-created notification
// follows. A service that has not loaded the repository yet loads it first, so the new id
// never collides with a stored order.
func (s *Service) Create(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	now := s.now()
	days := minDeliveryDays + s.intN(maxDeliveryDays-minDeliveryDays+1)

	o, err := order.NewOrder(
		s.nextIDLocked(),
		cmd.Customer(),
		cmd.Total(),
		cmd.Items(),
		cmd.Location(),
		now,
		now.AddDate(0, 0, days),
	)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if err = s.repo.Add(ctx, o); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("store order %s: %w", o.ID(), err)
	}

	s.orders = slices.Insert(s.orders, 0, o)
	s.touchLocked(now)
	result := o.Clone()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "order created", "orderID", result.ID(), "customer", result.Customer())
	s.publisher.Publish(ctx, events.NewOrderCreated(result.Clone(), now))
	return result, nil
}

// SetStatus overwrites the status of an order without checking the lifecycle order.
// Any status is accepted; values outside the enumeration yield progress 0.
//
// Returns errs.ObjectNotFoundError when no order has the id; the collection is left unchanged.
func (s *Service) SetStatus(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return s.changeStatus(ctx, cmd.OrderID(), func(o *order.Order, at time.Time) (order.Status, error) {
		return o.SetStatus(cmd.Status(), at), nil
	})
}

// Advance moves an order forward to the command's status, or to the next status when the
// command carries none. Backward moves, same-status moves and moves from Completed fail with
// errs.ValueIsInvalidError and leave the order unchanged.
func (s *Service) Advance(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return s.changeStatus(ctx, cmd.OrderID(), func(o *order.Order, at time.Time) (order.Status, error) {
		return o.Advance(cmd.Status(), at)
	})
}

// Update applies a generic field change. The status is never touched; the order-updated
// notification carries the same old and new status.
func (s *Service) Update(ctx context.Context, cmd commands.UpdateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return s.changeStatus(ctx, cmd.OrderID(), func(o *order.Order, at time.Time) (order.Status, error) {
		return o.Status(), o.Update(cmd.Changes(), at)
	})
}

// Remove deletes an order and returns it.
// Returns errs.ObjectNotFoundError when no order has the id.
func (s *Service) Remove(ctx context.Context, id string) (*order.Order, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, errs.NewObjectNotFoundError("orderID", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("delete order %s: %w", id, err)
	}

	removed := s.orders[idx]
	s.orders = slices.Delete(s.orders, idx, idx+1)
	now := s.now()
	s.touchLocked(now)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "order deleted", "orderID", id)
	s.publisher.Publish(ctx, events.NewOrderDeleted(removed.Clone(), now))
	return removed.Clone(), nil
}

// changeStatus runs mutate on a copy of the stored order and commits it only if both the
// mutation and the repository write succeed.
func (s *Service) changeStatus(
	ctx context.Context,
	id string,
	mutate func(o *order.Order, at time.Time) (order.Status, error),
) (*order.Order, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, errs.NewObjectNotFoundError("orderID", id)
	}

	now := s.now()
	next := s.orders[idx].Clone()
	oldStatus, err := mutate(next, now)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if err = s.repo.Update(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("store order %s: %w", id, err)
	}

	s.orders[idx] = next
	s.touchLocked(now)
	result := next.Clone()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "order updated",
		"orderID", id,
		"oldStatus", oldStatus,
		"newStatus", result.Status(),
		"progress", result.Progress(),
	)
	s.publisher.Publish(ctx, events.NewOrderUpdated(result.Clone(), oldStatus, now))
	return result, nil
}

// Fetch loads the stored collection without holding the lock and returns the step that
// installs it. The caller decides whether to apply the result.
//
// If the collection was mutated while the load was in flight, apply keeps the current
// orders, which already reflect the write-through, and only bumps the update time.
func (s *Service) Fetch(ctx context.Context) (apply func(), err error) {
	s.mu.Lock()
	startVersion := s.version
	s.mu.Unlock()

	loaded, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	return func() {
		s.mu.Lock()
		s.loaded = true
		if s.version == startVersion {
			s.orders = loaded
		} else {
			s.logger.DebugContext(ctx, "orders changed during refresh, keeping current collection")
		}
		now := s.now()
		s.touchLocked(now)
		snapshot := cloneAll(s.orders)
		s.mu.Unlock()

		s.logger.InfoContext(ctx, "orders refreshed", "count", len(snapshot))
		s.publisher.Publish(ctx, events.NewOrdersRefreshed(snapshot, now))
	}, nil
}

// Refresh fetches and applies in one call.
func (s *Service) Refresh(ctx context.Context) error {
	apply, err := s.Fetch(ctx)
	if err != nil {
		return err
	}
	apply()
	return nil
}

// List returns every order, most recent first.
func (s *Service) List() []*order.Order {
	return s.selectOrders(func(*order.Order) bool { return true })
}

// GetByID returns errs.ObjectNotFoundError when no order has the id.
func (s *Service) GetByID(id string) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, errs.NewObjectNotFoundError("orderID", id)
	}
	return s.orders[idx].Clone(), nil
}

func (s *Service) ListByStatus(status order.Status) []*order.Order {
	return s.selectOrders(func(o *order.Order) bool { return o.Status() == status })
}

// ListByCustomer matches a case-insensitive substring of the customer name.
func (s *Service) ListByCustomer(text string) []*order.Order {
	needle := strings.ToLower(text)
	return s.selectOrders(func(o *order.Order) bool {
		return strings.Contains(strings.ToLower(o.Customer()), needle)
	})
}

// Search matches id, customer, status and item names ignoring case. A blank query
// returns every order.
func (s *Service) Search(query string) []*order.Order {
	return s.selectOrders(func(o *order.Order) bool { return o.Matches(query) })
}

func (s *Service) Filter(q queries.FilterOrdersQuery) ([]*order.Order, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.selectOrders(q.Matches), nil
}

func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// LastUpdate is the time of the last mutation or applied refresh. Zero before the first one.
func (s *Service) LastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdate
}

func (s *Service) selectOrders(keep func(*order.Order) bool) []*order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			result = append(result, o.Clone())
		}
	}
	return result
}

func (s *Service) indexLocked(id string) int {
	return slices.IndexFunc(s.orders, func(o *order.Order) bool { return o.ID() == id })
}

// ensureLoadedLocked installs the stored collection when no load has happened yet.
// lastUpdate is left alone; only an applied refresh or a mutation stamps it.
func (s *Service) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	stored, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	s.orders = stored
	s.loaded = true
	s.version++
	s.logger.InfoContext(ctx, "orders loaded on first write", "count", len(stored))
	return nil
}

func (s *Service) touchLocked(at time.Time) {
	s.lastUpdate = at
	s.version++
}

// nextIDLocked returns one past the highest numeric id in the collection, so ids are
// never reused after a removal.
func (s *Service) nextIDLocked() string {
	highest := 0
	for _, o := range s.orders {
		n, err := strconv.Atoi(strings.TrimPrefix(o.ID(), idPrefix))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", idPrefix, highest+1)
}

func cloneAll(orders []*order.Order) []*order.Order {
	result := make([]*order.Order, len(orders))
	for i, o := range orders {
		result[i] = o.Clone()
	}
	return result
}
