package order

import (
	"fmt"
	"regexp"
	"time"

	"labflow/internal/pkg/errs"
)

const numberPrefix = "LAB"

var numberPattern = regexp.MustCompile(`^LAB-\d{8}-\d{4,}$`)

// Number is the unique, human-readable order identifier: LAB-YYYYMMDD-NNNN,
// where NNNN is the per-day sequence.
type Number struct {
	value string
}

// NewNumber formats a number for the given day (UTC) and sequence value.
func NewNumber(day time.Time, sequence int64) (Number, error) {
	if sequence <= 0 {
		return Number{}, errs.NewValueIsOutOfRangeError("order number sequence", sequence, 1, "unbounded")
	}
	return Number{value: fmt.Sprintf("%s-%s-%04d", numberPrefix, day.UTC().Format("20060102"), sequence)}, nil
}

// ParseNumber validates a stored order number.
func ParseNumber(s string) (Number, error) {
	if !numberPattern.MatchString(s) {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q does not match LAB-YYYYMMDD-NNNN", s))
	}
	return Number{value: s}, nil
}

func (n Number) String() string {
	return n.value
}

func (n Number) IsZero() bool {
	return n.value == ""
}
