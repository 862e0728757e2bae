package commands

import (
	"errors"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/core/domain/model/order"
	"agromarket/internal/pkg/errs"
	"agromarket/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// UpdateOrderCommand is a generic field update of an order's descriptive attributes.
// It never carries a status; use ChangeOrderStatusCommand for that.
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID string
	changes order.Changes

	guard guard.ConstructorGuard
}

// NewUpdateOrderCommand requires an order id and at least one change.
// A new total must parse as a currency amount.
func NewUpdateOrderCommand(orderID string, changes order.Changes) (UpdateOrderCommand, error) {
	cmd := UpdateOrderCommand{
		changes: changes,
		guard:   guard.NewConstructorGuard(),
	}

	var totalErr error
	if changes.Total != nil {
		_, totalErr = kernel.ParseMoney(*changes.Total)
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		validateHasChanges(changes),
		totalErr,
	); err != nil {
		return UpdateOrderCommand{}, err
	}

	return cmd, nil
}

func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) OrderID() string {
	return c.orderID
}

func (c UpdateOrderCommand) Changes() order.Changes {
	return c.changes
}

func (c *UpdateOrderCommand) setOrderID(orderID string) error {
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderID")
	}

	c.orderID = orderID
	return nil
}

func validateHasChanges(c order.Changes) error {
	if c.Customer == nil && c.Total == nil && c.Items == nil && c.Location == nil && c.EstimatedDelivery == nil {
		return errs.NewValueIsRequiredError("changes")
	}
	return nil
}
