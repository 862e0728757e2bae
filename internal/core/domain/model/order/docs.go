// Package order provides the Order entity and the fulfillment Status lifecycle of the
// agricultural marketplace.
//
// The package includes:
//   - Order: identity, descriptive attributes and the current Status of one order
//   - Status: the ordered lifecycle enumeration and its fixed progress lookup table
//
// Key business rules:
//   - Orders start in Placed (progress 10)
//   - Progress is derived from Status only: Placed=10 ... Completed=100, anything else 0
//   - SetStatus is a raw overwrite that accepts any value (manual correction)
//   - Advance only allows forward moves in the canonical order, skipping is allowed
//   - Totals are display strings ("₹15,000") validated through kernel.ParseMoney
package order
