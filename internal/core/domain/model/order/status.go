package order

import (
	"fmt"
	"slices"

	"agromarket/internal/pkg/errs"
)

// Status represents the fulfillment state of a marketplace order.
//
// The canonical lifecycle runs strictly forward:
//
//	Placed ─> Accepted ─> Harvested ─> Loaded ─> InTransit ─> Delivered ─> Received ─> Payment ─> Completed
//	  10        20          30          40         60           80           90          95         100
//
// Every status maps to a fixed progress percentage. Status is string backed so that values
// outside the enumeration can still be carried (they map to progress 0); use Validate to
// reject them where only canonical values make sense.
type Status string

const (
	// Placed is the initial status of every newly created order.
	Placed Status = "Placed"

	// Accepted means the farmer has accepted the order.
	Accepted Status = "Accepted"

	// Harvested means the produce for the order has been harvested.
	Harvested Status = "Harvested"

	// Loaded means the produce has been loaded for transport.
	Loaded Status = "Loaded"

	// InTransit means the shipment is on its way.
	InTransit Status = "InTransit"

	// Delivered means the shipment reached the buyer's location.
	Delivered Status = "Delivered"

	// Received means the buyer confirmed receipt.
	Received Status = "Received"

	// Payment means payment is being settled.
	Payment Status = "Payment"

	// Completed is the final state. No forward transition exists from here.
	Completed Status = "Completed"
)

// lifecycle lists the canonical statuses in forward order.
var lifecycle = []Status{
	Placed,
	Accepted,
	Harvested,
	Loaded,
	InTransit,
	Delivered,
	Received,
	Payment,
	Completed,
}

// progressByStatus is the fixed status to progress lookup table.
var progressByStatus = map[Status]int{
	Placed:    10,
	Accepted:  20,
	Harvested: 30,
	Loaded:    40,
	InTransit: 60,
	Delivered: 80,
	Received:  90,
	Payment:   95,
	Completed: 100,
}

// Statuses returns the canonical statuses in forward order.
// The returned slice is a copy and may be modified by the caller.
func Statuses() []Status {
	return slices.Clone(lifecycle)
}

// Progress returns the completion percentage for the status.
//
// Returns:
//   - the lookup table value for canonical statuses (10 for Placed ... 100 for Completed)
//   - 0 for any value outside the enumeration
//
// Example:
//
//	order.Delivered.Progress() // 80
//	order.Status("Lost").Progress() // 0
func (s Status) Progress() int {
	return progressByStatus[s]
}

// String returns the wire name of the status.
func (s Status) String() string {
	return string(s)
}

// IsCanonical reports whether the status belongs to the lifecycle enumeration.
func (s Status) IsCanonical() bool {
	_, ok := progressByStatus[s]
	return ok
}

// IsFinal reports whether the status is Completed.
func (s Status) IsFinal() bool {
	return s == Completed
}

// Validate checks that the status is one of the canonical lifecycle values.
//
// Returns:
//   - nil for canonical statuses
//   - errs.ValueIsInvalidError for anything else, including the empty string
func (s Status) Validate() error {
	if !s.IsCanonical() {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// rank returns the position of the status in the lifecycle, or -1 for non canonical values.
func (s Status) rank() int {
	return slices.Index(lifecycle, s)
}

// Next returns the status that directly follows s in the lifecycle.
//
// Returns:
//   - Placed when s is not canonical (a corrupted order restarts the lifecycle)
//   - errs.ValueIsInvalidError when s is Completed
func (s Status) Next() (Status, error) {
	if s.IsFinal() {
		return "", errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is final and has no next status", s),
		)
	}
	return lifecycle[s.rank()+1], nil
}

// ValidateAdvance checks whether moving from s to target is a forward transition without
// performing it. Skipping intermediate statuses is allowed; staying in place or moving
// backward is not.
//
// Returns:
//   - nil if target is canonical and strictly after s
//   - errs.ValueIsInvalidError otherwise
//
// Example:
//
//	order.Loaded.ValidateAdvance(order.Delivered) // nil, skips InTransit
//	order.Loaded.ValidateAdvance(order.Accepted)  // error, backward
func (s Status) ValidateAdvance(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if target.rank() <= s.rank() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a forward transition from %s", target, s),
		)
	}

	return nil
}

// Advance returns target when the transition from s is a forward move.
// This is the guarded counterpart of the raw status overwrite performed by Order.SetStatus.
func (s Status) Advance(target Status) (Status, error) {
	if err := s.ValidateAdvance(target); err != nil {
		return "", err
	}

	return target, nil
}
