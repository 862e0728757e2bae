// Package errs provides standardized error types for the marketplace application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ObjectNotFoundError: an order, product or preference cannot be found (NotFound)
//   - ValueIsInvalidError: a value cannot be accepted, e.g. a malformed currency amount (MalformedInput)
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsOutOfRangeError: a numeric value is outside its allowed bounds
//   - UpstreamUnavailableError: a weather or geocoding upstream failed (UpstreamUnavailable)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works on every type
package errs
