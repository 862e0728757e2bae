package errs

import "fmt"

// UpstreamUnavailableError reports a failed call to an external service such as the
// weather API or the geocoder. Callers fall back to last-known data.
type UpstreamUnavailableError struct {
	Service string
	Cause   error
}

func NewUpstreamUnavailableError(service string) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{Service: service}
}

func NewUpstreamUnavailableErrorWithCause(service string, cause error) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{
		Service: service,
		Cause:   cause,
	}
}

func (e *UpstreamUnavailableError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrUpstreamUnavailable, sanitize(e.Service)), e.Cause)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return ErrUpstreamUnavailable
}
