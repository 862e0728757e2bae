// Package kernel provides the shared value objects of the marketplace domain.
//
// The package includes:
//   - Money: a rupee amount parsed from the dashboard's display strings ("₹15,000")
//   - Coordinates: a validated latitude/longitude pair used by the weather monitor
//   - UUID: a unique identifier used for notification ids
//
// Value objects here are immutable. Money's zero value is a valid ₹0; Coordinates and
// UUID must be built through their constructors and report misuse through Validate.
package kernel
