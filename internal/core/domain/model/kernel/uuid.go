package kernel

import (
	"fmt"

	"agromarket/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("uuid")

// UUID identifies a published notification so subscribers can de-duplicate
// and correlate deliveries. The zero value is invalid.
type UUID struct {
	value uuid.UUID
}

// NewUUID returns a random version 4 identifier.
func NewUUID() UUID {
	return UUID{value: uuid.New()}
}

// ParseUUID accepts the canonical, braced and urn forms.
func ParseUUID(s string) (UUID, error) {
	var u UUID
	if err := u.UnmarshalText([]byte(s)); err != nil {
		return UUID{}, err
	}
	return u, nil
}

func (u UUID) String() string { return u.value.String() }

func (u UUID) Validate() error {
	if u.value == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

func (u UUID) MarshalText() ([]byte, error) {
	return u.value.MarshalText()
}

func (u *UUID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("uuid", fmt.Errorf("parse %q: %w", text, err))
	}
	if parsed == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	u.value = parsed
	return nil
}
