package workflow

import (
	"fmt"

	"labflow/internal/pkg/errs"
)

// StepType is one of the six canonical processing stages. Its numeric value is
// the stage's sequence number within the workflow.
type StepType int

const (
	UnknownStepType StepType = iota
	SampleCollection
	SamplePreparation
	Testing
	QualityControl
	ResultVerification
	Reporting
)

// StepCount is the number of steps every workflow has.
const StepCount = 6

var stepTypeNames = map[StepType]string{
	SampleCollection:   "sample_collection",
	SamplePreparation:  "sample_preparation",
	Testing:            "testing",
	QualityControl:     "quality_control",
	ResultVerification: "result_verification",
	Reporting:          "reporting",
}

// StepTypes returns the canonical step list in sequence order.
func StepTypes() []StepType {
	return []StepType{SampleCollection, SamplePreparation, Testing, QualityControl, ResultVerification, Reporting}
}

func ParseStepType(s string) (StepType, error) {
	for t, name := range stepTypeNames {
		if name == s {
			return t, nil
		}
	}
	return UnknownStepType, errs.NewValueIsInvalidErrorWithCause("step type", fmt.Errorf("%q is not a workflow step", s))
}

func (t StepType) String() string {
	if name, ok := stepTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t StepType) Validate() error {
	if _, ok := stepTypeNames[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("step type", fmt.Errorf("%d is not a valid step type", t))
	}
	return nil
}

// Sequence is the 1-based position of the step in the workflow.
func (t StepType) Sequence() int {
	return int(t)
}

// IsParallelCapable reports whether the step may run concurrently with its
// neighbours (sample preparation and testing).
func (t StepType) IsParallelCapable() bool {
	return t == SamplePreparation || t == Testing
}
