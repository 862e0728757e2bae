package events

import (
	"time"

	"agromarket/internal/core/domain/model/kernel"
)

// Name is the wire name of a notification, e.g. "order:created".
type Name string

const (
	OrderCreatedName        Name = "order:created"
	OrderUpdatedName        Name = "order:updated"
	OrderDeletedName        Name = "order:deleted"
	OrdersRefreshedName     Name = "orders:updated"
	ProductCreatedName      Name = "product:created"
	ProductUpdatedName      Name = "product:updated"
	ProductDeletedName      Name = "product:deleted"
	ProductPriceUpdatedName Name = "product:priceUpdated"
	ProductStockUpdatedName Name = "product:stockUpdated"
	ProductsRefreshedName   Name = "products:updated"
	WeatherUpdatedName      Name = "weather:updated"
	WeatherFailedName       Name = "weather:failed"
)

// Event is implemented by every notification variant in this package.
type Event interface {
	Name() Name
	ID() kernel.UUID
	OccurredAt() time.Time
}

type envelope struct {
	id         kernel.UUID
	occurredAt time.Time
}

func newEnvelope(at time.Time) envelope {
	return envelope{id: kernel.NewUUID(), occurredAt: at}
}

func (e envelope) ID() kernel.UUID {
	return e.id
}

func (e envelope) OccurredAt() time.Time {
	return e.occurredAt
}
