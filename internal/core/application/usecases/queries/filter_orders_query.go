package queries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/order"
	"agromarket/internal/pkg/errs"
	"agromarket/internal/pkg/guard"
)

var ErrFilterOrdersQueryIsNotConstructed = errors.New(
	"FilterOrdersQuery must be created via NewFilterOrdersQuery constructor",
)

// OrderCriteria is the raw filter input. Zero fields do not constrain the result.
type OrderCriteria struct {
	Status    order.Status
	From      time.Time
	To        time.Time
	Customer  string
	MinAmount string
	MaxAmount string
}

// FilterOrdersQuery selects orders by status equality, an inclusive order date range,
// a case-insensitive customer substring and an inclusive amount range.
//
// Amount bounds are parsed up front: a malformed bound fails the query with
// errs.ValueIsInvalidError instead of silently matching as zero. While a bound is set,
// orders whose own total does not parse are excluded.
//
// Example:
//
//	q, err := queries.NewFilterOrdersQuery(queries.OrderCriteria{
//	    Status:    order.Placed,
//	    MinAmount: "₹10,000",
//	})
//	if err != nil {
//	    return err
//	}
//	placed := orders.Filter(q)
type FilterOrdersQuery struct {
	status    order.Status
	from      time.Time
	to        time.Time
	customer  string
	minAmount *kernel.Money
	maxAmount *kernel.Money

	guard guard.ConstructorGuard
}

func NewFilterOrdersQuery(c OrderCriteria) (FilterOrdersQuery, error) {
	q := FilterOrdersQuery{
		status:   c.Status,
		from:     c.From,
		to:       c.To,
		customer: strings.ToLower(strings.TrimSpace(c.Customer)),
		guard:    guard.NewConstructorGuard(),
	}

	minAmount, minErr := parseBound(c.MinAmount)
	maxAmount, maxErr := parseBound(c.MaxAmount)
	if err := errors.Join(minErr, maxErr); err != nil {
		return FilterOrdersQuery{}, err
	}
	q.minAmount, q.maxAmount = minAmount, maxAmount

	if minAmount != nil && maxAmount != nil && maxAmount.Less(*minAmount) {
		return FilterOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"amount range is invalid",
			fmt.Errorf("min %s is greater than max %s", minAmount, maxAmount),
		)
	}
	if !c.From.IsZero() && !c.To.IsZero() && dayOf(c.To).Before(dayOf(c.From)) {
		return FilterOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"date range is invalid",
			fmt.Errorf("from %s is after to %s", c.From.Format(time.DateOnly), c.To.Format(time.DateOnly)),
		)
	}

	return q, nil
}

func (q FilterOrdersQuery) Validate() error {
	return q.guard.Validate(ErrFilterOrdersQueryIsNotConstructed)
}

// HasAmountBounds reports whether orders are filtered by their total.
func (q FilterOrdersQuery) HasAmountBounds() bool {
	return q.minAmount != nil || q.maxAmount != nil
}

// Matches evaluates every criterion against o.
func (q FilterOrdersQuery) Matches(o *order.Order) bool {
	if q.status != "" && o.Status() != q.status {
		return false
	}
	date := dayOf(o.Date())
	if !q.from.IsZero() && date.Before(dayOf(q.from)) {
		return false
	}
	if !q.to.IsZero() && date.After(dayOf(q.to)) {
		return false
	}
	if q.customer != "" && !strings.Contains(strings.ToLower(o.Customer()), q.customer) {
		return false
	}

	if !q.HasAmountBounds() {
		return true
	}

	amount, err := o.Amount()
	if err != nil {
		return false
	}
	if q.minAmount != nil && amount.Less(*q.minAmount) {
		return false
	}
	if q.maxAmount != nil && q.maxAmount.Less(amount) {
		return false
	}
	return true
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseBound(raw string) (*kernel.Money, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	m, err := kernel.ParseMoney(raw)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
