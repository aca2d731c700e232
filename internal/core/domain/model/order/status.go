package order

import (
	"fmt"

	"labflow/internal/pkg/errs"
)

// Status represents the lifecycle state of a lab order.
//
// State transitions:
//
//	PENDING ──> COLLECTED ──> PROCESSING ──> COMPLETED
//	   │            │              │
//	   └────────────┴──────────────┴──> CANCELLED
//
// COMPLETED and CANCELLED are terminal.
type Status int

const (
	// Unknown is the zero value and never valid.
	Unknown Status = iota

	// Pending is the initial status; the sample has not been collected yet.
	Pending

	// Collected means the specimen has been drawn and registered.
	Collected

	// Processing means the specimen is being prepared and tested.
	Processing

	// Completed means every workflow step is finished and the report is issued.
	Completed

	// Cancelled orders never progress again.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Pending:    "PENDING",
		Collected:  "COLLECTED",
		Processing: "PROCESSING",
		Completed:  "COMPLETED",
		Cancelled:  "CANCELLED",
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the upper-case status name, "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// Collect transitions PENDING -> COLLECTED.
func (s Status) Collect() (Status, error) {
	if s != Pending {
		return 0, errs.NewInvalidStateTransitionError("order", s.String(), "collect sample for")
	}
	return Collected, nil
}

// StartProcessing transitions COLLECTED -> PROCESSING.
func (s Status) StartProcessing() (Status, error) {
	if s != Collected {
		return 0, errs.NewInvalidStateTransitionError("order", s.String(), "start processing")
	}
	return Processing, nil
}

// Complete transitions PROCESSING -> COMPLETED.
func (s Status) Complete() (Status, error) {
	if s != Processing {
		return 0, errs.NewInvalidStateTransitionError("order", s.String(), "complete")
	}
	return Completed, nil
}

// Cancel transitions any non-terminal status to CANCELLED.
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() || s.Validate() != nil {
		return 0, errs.NewInvalidStateTransitionError("order", s.String(), "cancel")
	}
	return Cancelled, nil
}
