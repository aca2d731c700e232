package result

import (
	"fmt"

	"labflow/internal/pkg/errs"
)

// Status of a lab result: pending -> in_progress -> completed -> verified -> reported.
type Status int

const (
	UnknownStatus Status = iota
	Pending
	InProgress
	Completed
	Verified
	Reported
)

var statusNames = map[Status]string{
	Pending:    "pending",
	InProgress: "in_progress",
	Completed:  "completed",
	Verified:   "verified",
	Reported:   "reported",
}

func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("result status", fmt.Errorf("%q is not a result status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("result status", fmt.Errorf("%d is not a valid result status", s))
	}
	return nil
}

// IsEditable reports whether the value may still change.
func (s Status) IsEditable() bool {
	return s == Pending || s == InProgress || s == Completed
}

func (s Status) verify() (Status, error) {
	if s != Completed {
		return 0, errs.NewInvalidStateTransitionError("result", s.String(), "verify")
	}
	return Verified, nil
}

func (s Status) report() (Status, error) {
	if s != Verified {
		return 0, errs.NewInvalidStateTransitionError("result", s.String(), "report")
	}
	return Reported, nil
}
