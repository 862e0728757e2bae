// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"agromarket/internal/core/domain/model/order"

	"github.com/lib/pq"
)

// OrderDTO represents the database structure for persisting orders.
// The status is stored verbatim, so non canonical values survive a round trip. Progress is
// never stored; it is derived from the status on load.
type OrderDTO struct {
	ID                string         `gorm:"primaryKey;size:32"`
	Status            string         `gorm:"size:32;index"`
	Customer          string         `gorm:"not null"`
	Total             string         `gorm:"not null"`
	Items             pq.StringArray `gorm:"type:text[]"`
	Location          string
	Date              time.Time `gorm:"type:date;index"`
	EstimatedDelivery time.Time
	CreatedAt         time.Time `gorm:"autoCreateTime:false"`
	LastModified      *time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	return fromSnapshot(o.Snapshot())
}

func fromSnapshot(s order.Snapshot) OrderDTO {
	var lastModified *time.Time
	if !s.LastModified.IsZero() {
		at := s.LastModified
		lastModified = &at
	}

	items := pq.StringArray(s.Items)
	if items == nil {
		items = pq.StringArray{}
	}

	return OrderDTO{
		ID:                s.ID,
		Status:            string(s.Status),
		Customer:          s.Customer,
		Total:             s.Total,
		Items:             items,
		Location:          s.Location,
		Date:              s.Date,
		EstimatedDelivery: s.EstimatedDelivery,
		CreatedAt:         s.CreatedAt,
		LastModified:      lastModified,
	}
}

// toDomain reconstructs the order using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	s := order.Snapshot{
		ID:                dto.ID,
		Status:            order.Status(dto.Status),
		Customer:          dto.Customer,
		Total:             dto.Total,
		Items:             []string(dto.Items),
		Location:          dto.Location,
		Date:              dto.Date.UTC(),
		EstimatedDelivery: dto.EstimatedDelivery.UTC(),
		CreatedAt:         dto.CreatedAt.UTC(),
	}
	if dto.LastModified != nil {
		s.LastModified = dto.LastModified.UTC()
	}

	return order.RestoreOrder(s)
}
