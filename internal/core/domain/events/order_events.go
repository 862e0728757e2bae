package events

import (
	"time"

	"agromarket/internal/core/domain/model/order"
)

type OrderCreated struct {
	envelope
	Order *order.Order
}

func NewOrderCreated(o *order.Order, at time.Time) OrderCreated {
	return OrderCreated{envelope: newEnvelope(at), Order: o}
}

func (OrderCreated) Name() Name { return OrderCreatedName }

// OrderUpdated is emitted for status changes and field updates. For a field update
// OldStatus equals NewStatus.
type OrderUpdated struct {
	envelope
	OrderID   string
	OldStatus order.Status
	NewStatus order.Status
	Order     *order.Order
}

func NewOrderUpdated(o *order.Order, oldStatus order.Status, at time.Time) OrderUpdated {
	return OrderUpdated{
		envelope:  newEnvelope(at),
		OrderID:   o.ID(),
		OldStatus: oldStatus,
		NewStatus: o.Status(),
		Order:     o,
	}
}

func (OrderUpdated) Name() Name { return OrderUpdatedName }

type OrderDeleted struct {
	envelope
	OrderID string
	Order   *order.Order
}

func NewOrderDeleted(o *order.Order, at time.Time) OrderDeleted {
	return OrderDeleted{envelope: newEnvelope(at), OrderID: o.ID(), Order: o}
}

func (OrderDeleted) Name() Name { return OrderDeletedName }

// OrdersRefreshed carries the collection as loaded by a polling refresh.
type OrdersRefreshed struct {
	envelope
	Orders     []*order.Order
	LastUpdate time.Time
}

func NewOrdersRefreshed(orders []*order.Order, at time.Time) OrdersRefreshed {
	return OrdersRefreshed{envelope: newEnvelope(at), Orders: orders, LastUpdate: at}
}

func (OrdersRefreshed) Name() Name { return OrdersRefreshedName }
