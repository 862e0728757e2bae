package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order represents a unit of marketplace fulfillment tracked through the status lifecycle.
//
// Order follows these invariants:
//   - Must have a non-empty identifier and customer
//   - Progress is never stored; it is always derived from the status
//   - The estimated delivery is never before the order date
//   - Can only be created through NewOrder or RestoreOrder
//
// Descriptive attributes (customer, total, items, location, dates) are opaque to the
// lifecycle. The struct keeps its fields private and hands out copies of slices.
type Order struct {
	// id is the sequential identifier, e.g. "ORD-006"
	id string

	// status is the current position in the lifecycle
	status Status

	// customer is the buyer's display name
	customer string

	// total is the display amount, e.g. "₹15,000"
	total string

	// items lists the ordered products in order
	items []string

	// location is the pickup or delivery area
	location string

	// date is the day the order was placed
	date time.Time

	// estimatedDelivery is the expected delivery instant
	estimatedDelivery time.Time

	// createdAt is the exact creation instant
	createdAt time.Time

	// lastModified is stamped on every status transition and field update
	lastModified time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Placed status.
//
// Parameters:
//   - id: sequential identifier assigned by the owning collection
//   - customer: buyer name (required)
//   - total: display amount; must parse as kernel.Money and is stored normalized
//   - items: ordered products; copied
//   - location: pickup or delivery area
//   - createdAt: creation instant; the order date is its calendar day
//   - estimatedDelivery: expected delivery instant, not before the order date
//
// Returns:
//   - *Order: the created order if all validations pass
//   - error: all validation errors joined
func NewOrder(
	id string,
	customer string,
	total string,
	items []string,
	location string,
	createdAt time.Time,
	estimatedDelivery time.Time,
) (*Order, error) {
	o := &Order{
		status:        Placed,
		items:         slices.Clone(items),
		location:      location,
		date:          truncateToDay(createdAt),
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomer(customer),
		o.setTotal(total),
		o.setEstimatedDelivery(estimatedDelivery),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot is the flat, persistence friendly view of an Order.
// Progress is included for readers; RestoreOrder ignores it and derives it from Status.
type Snapshot struct {
	ID                string
	Status            Status
	Progress          int
	Customer          string
	Total             string
	Items             []string
	Location          string
	Date              time.Time
	EstimatedDelivery time.Time
	CreatedAt         time.Time
	LastModified      time.Time
}

// RestoreOrder rebuilds an Order from persisted or seeded data. Unlike NewOrder it keeps the
// stored status and total exactly as they were recorded, including non canonical statuses and
// totals that do not parse, so that historical data survives a reload unchanged.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		status:            s.Status,
		total:             s.Total,
		items:             slices.Clone(s.Items),
		location:          s.Location,
		date:              s.Date,
		estimatedDelivery: s.EstimatedDelivery,
		createdAt:         s.CreatedAt,
		lastModified:      s.LastModified,
		isConstructed:     true,
	}

	if err := errors.Join(o.setID(s.ID), o.setCustomer(s.Customer)); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

// ID returns the order's identifier.
func (o *Order) ID() string {
	return o.id
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Progress returns the completion percentage derived from the current status.
func (o *Order) Progress() int {
	return o.status.Progress()
}

// Customer returns the buyer name.
func (o *Order) Customer() string {
	return o.customer
}

// Total returns the display amount as recorded.
func (o *Order) Total() string {
	return o.total
}

// Amount parses the display total.
//
// Returns errs.ValueIsInvalidError for totals that are not currency amounts.
func (o *Order) Amount() (kernel.Money, error) {
	return kernel.ParseMoney(o.total)
}

// Items returns a copy of the ordered products.
func (o *Order) Items() []string {
	return slices.Clone(o.items)
}

// Location returns the pickup or delivery area.
func (o *Order) Location() string {
	return o.location
}

// Date returns the day the order was placed.
func (o *Order) Date() time.Time {
	return o.date
}

// EstimatedDelivery returns the expected delivery instant.
func (o *Order) EstimatedDelivery() time.Time {
	return o.estimatedDelivery
}

// CreatedAt returns the creation instant.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// LastModified returns the instant of the last transition or update.
// The zero time means the order was never modified after creation.
func (o *Order) LastModified() time.Time {
	return o.lastModified
}

// SetStatus overwrites the status without checking the lifecycle order and stamps
// lastModified. Any value is accepted; values outside the enumeration yield progress 0.
//
// Returns the previous status.
//
// Example:
//
//	old := o.SetStatus(order.Delivered, time.Now())
//	fmt.Println(old, "->", o.Status(), o.Progress()) // Placed -> Delivered 80
func (o *Order) SetStatus(status Status, at time.Time) Status {
	old := o.status
	o.status = status
	o.lastModified = at
	return old
}

// Advance moves the order forward to target, enforcing monotonic progression.
// An empty target means the next status in the lifecycle.
//
// Returns:
//   - the previous status on success
//   - errs.ValueIsInvalidError if target is not a forward move; the order is left unchanged
func (o *Order) Advance(target Status, at time.Time) (Status, error) {
	if target == "" {
		next, err := o.status.Next()
		if err != nil {
			return "", err
		}
		target = next
	}

	newStatus, err := o.status.Advance(target)
	if err != nil {
		return "", err
	}

	return o.SetStatus(newStatus, at), nil
}

// Changes describes a generic field update. Nil fields are left unchanged.
type Changes struct {
	Customer          *string
	Total             *string
	Items             []string
	Location          *string
	EstimatedDelivery *time.Time
}

// Update applies the descriptive field changes. The status is never touched.
// All changes are validated before any is applied.
func (o *Order) Update(c Changes, at time.Time) error {
	next := o.Clone()

	var errList []error
	if c.Customer != nil {
		errList = append(errList, next.setCustomer(*c.Customer))
	}
	if c.Total != nil {
		errList = append(errList, next.setTotal(*c.Total))
	}
	if c.EstimatedDelivery != nil {
		errList = append(errList, next.setEstimatedDelivery(*c.EstimatedDelivery))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	if c.Items != nil {
		next.items = slices.Clone(c.Items)
	}
	if c.Location != nil {
		next.location = *c.Location
	}
	next.lastModified = at

	*o = *next
	return nil
}

// Matches reports whether the lower-cased query occurs in the id, customer, status or
// any item name, ignoring case.
func (o *Order) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	if strings.Contains(strings.ToLower(o.id), q) ||
		strings.Contains(strings.ToLower(o.customer), q) ||
		strings.Contains(strings.ToLower(string(o.status)), q) {
		return true
	}

	return slices.ContainsFunc(o.items, func(item string) bool {
		return strings.Contains(strings.ToLower(item), q)
	})
}

// Clone returns a deep copy that shares no mutable state with o.
func (o *Order) Clone() *Order {
	c := *o
	c.items = slices.Clone(o.items)
	return &c
}

// Snapshot returns the flat view of the order.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                o.id,
		Status:            o.status,
		Progress:          o.Progress(),
		Customer:          o.customer,
		Total:             o.total,
		Items:             slices.Clone(o.items),
		Location:          o.location,
		Date:              o.date,
		EstimatedDelivery: o.estimatedDelivery,
		CreatedAt:         o.createdAt,
		LastModified:      o.lastModified,
	}
}

func (o *Order) setID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.NewValueIsRequiredError("id")
	}
	o.id = id
	return nil
}

func (o *Order) setCustomer(customer string) error {
	if strings.TrimSpace(customer) == "" {
		return errs.NewValueIsRequiredError("customer")
	}
	o.customer = customer
	return nil
}

// setTotal validates the amount and stores it in its normalized display form.
func (o *Order) setTotal(total string) error {
	amount, err := kernel.ParseMoney(total)
	if err != nil {
		return err
	}
	o.total = amount.String()
	return nil
}

func (o *Order) setEstimatedDelivery(at time.Time) error {
	day := truncateToDay(at)
	if day.Before(o.date) {
		return errs.NewValueIsInvalidErrorWithCause(
			"estimated delivery is invalid",
			fmt.Errorf("%s is before order date %s", day.Format(time.DateOnly), o.date.Format(time.DateOnly)),
		)
	}
	o.estimatedDelivery = at
	return nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
