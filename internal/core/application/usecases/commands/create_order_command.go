package commands

import (
	"errors"
	"slices"
	"strings"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/pkg/guard"
)

const (
	DefaultCustomer = "Nuevo Cliente"
	DefaultTotal    = "₹0"
	DefaultLocation = "Bowenpally, Hyderabad"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to place a new marketplace order.
// Blank fields fall back to the dashboard defaults: customer "Nuevo Cliente",
// total "₹0" and location "Bowenpally, Hyderabad".
//
// Example:
//
//	cmd, err := commands.NewCreateOrderCommand("Agricultor Juan Pérez", "₹15,000",
//	    []string{"Coco Verde", "Coco Tender"}, "")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := orders.Create(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customer string
	total    string
	items    []string
	location string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the total as a currency amount and applies the defaults.
// Returns errs.ValueIsInvalidError when the total does not parse.
func NewCreateOrderCommand(customer, total string, items []string, location string) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		customer: orDefault(customer, DefaultCustomer),
		items:    slices.Clone(items),
		location: orDefault(location, DefaultLocation),
		guard:    guard.NewConstructorGuard(),
	}

	if err := cmd.setTotal(orDefault(total, DefaultTotal)); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Customer() string {
	return c.customer
}

// Total returns the normalized display amount.
func (c CreateOrderCommand) Total() string {
	return c.total
}

func (c CreateOrderCommand) Items() []string {
	return slices.Clone(c.items)
}

func (c CreateOrderCommand) Location() string {
	return c.location
}

func (c *CreateOrderCommand) setTotal(total string) error {
	amount, err := kernel.ParseMoney(total)
	if err != nil {
		return err
	}

	c.total = amount.String()
	return nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
