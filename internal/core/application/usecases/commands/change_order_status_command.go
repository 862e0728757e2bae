package commands

import (
	"errors"

	"agromarket/internal/core/domain/model/order"
	"agromarket/internal/pkg/errs"
	"agromarket/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand targets a status for one order. It feeds both the raw SetStatus,
// which accepts any status, and the validated Advance, where an empty status means
// "the next one in the lifecycle".
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID string
	status  order.Status

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(orderID string, status order.Status) (ChangeOrderStatusCommand, error) {
	if orderID == "" {
		return ChangeOrderStatusCommand{}, errs.NewValueIsRequiredError("orderID")
	}

	return ChangeOrderStatusCommand{
		orderID: orderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) OrderID() string {
	return c.orderID
}

func (c ChangeOrderStatusCommand) Status() order.Status {
	return c.status
}
