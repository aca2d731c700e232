package kernel

import (
	"fmt"

	"labflow/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is reported for the zero UUID, whether it came from
// a zero-value struct or was parsed from the nil UUID text.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("identifier")

// UUID identifies lab orders, workflow steps and lab results. Only NewUUID,
// UUIDFromString and UUIDFromBytes produce a usable value.
type UUID struct {
	id uuid.UUID
}

func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString accepts every textual form uuid.Parse understands
// (canonical, urn:uuid: prefix, braces).
//
// Example:
//
//	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
//	if err != nil {
//	    return err // errs.ErrValueIsInvalid or ErrUUIDIsNotConstructed
//	}
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("identifier", err)
	}
	return wrap(id)
}

// UUIDFromBytes reads the 16-byte form stored in uuid columns.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("identifier", fmt.Errorf("%d bytes: %w", len(b), err))
	}
	return wrap(id)
}

func wrap(id uuid.UUID) (UUID, error) {
	if id == uuid.Nil {
		return UUID{}, ErrUUIDIsNotConstructed
	}
	return UUID{id: id}, nil
}

func (u UUID) String() string { return u.id.String() }

// Bytes exposes the google/uuid value for persistence DTOs. It is an array,
// so callers get a copy.
func (u UUID) Bytes() uuid.UUID { return u.id }

func (u UUID) IsEqual(other UUID) bool { return u.id == other.id }

func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// MarshalText renders identifiers as strings in JSON responses and alert
// payloads.
func (u UUID) MarshalText() ([]byte, error) {
	return u.id.MarshalText()
}
