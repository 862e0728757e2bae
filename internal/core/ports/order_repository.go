// Package ports defines the contracts between the marketplace services and the infrastructure
// that stores their data or reaches upstream systems. Adapters under internal/adapters/out
// implement them; tests substitute testify mocks.
package ports

import (
	"context"

	"agromarket/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for orders.
// The order lifecycle writes through to the repository on every mutation and reloads the
// full collection on every polling refresh.
type OrderRepository interface {
	// LoadAll returns every stored order, most recent first.
	// Implementations may suspend here (simulated latency or network I/O).
	LoadAll(ctx context.Context) ([]*order.Order, error)

	// Add persists a new order. The id must not already exist.
	Add(ctx context.Context, o *order.Order) error

	// Update persists changes to an existing order.
	// Returns errs.ObjectNotFoundError when the order is not stored.
	Update(ctx context.Context, o *order.Order) error

	// Delete removes an order by id.
	// Returns errs.ObjectNotFoundError when the order is not stored.
	Delete(ctx context.Context, id string) error
}
