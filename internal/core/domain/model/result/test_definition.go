package result

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"labflow/internal/pkg/errs"
)

// ReferenceRange is a normal-value interval of a test, optionally restricted
// to an age group and gender.
type ReferenceRange struct {
	Min      float64
	Max      float64
	AgeGroup string
	Gender   string
	// Text overrides the generated display text when set.
	Text string
}

func NewReferenceRange(minValue, maxValue float64, ageGroup, gender, text string) (ReferenceRange, error) {
	if minValue > maxValue {
		return ReferenceRange{}, errs.NewValueIsOutOfRangeError("reference range min", minValue, "-inf", maxValue)
	}
	return ReferenceRange{Min: minValue, Max: maxValue, AgeGroup: ageGroup, Gender: gender, Text: text}, nil
}

// DisplayText renders the range, e.g. "4 - 10 g/dL".
func (r ReferenceRange) DisplayText(unit string) string {
	if r.Text != "" {
		return r.Text
	}
	text := formatNumber(r.Min) + " - " + formatNumber(r.Max)
	if unit != "" {
		text += " " + unit
	}
	return text
}

// TestDefinition is the read-only catalog entry a result refers to.
type TestDefinition struct {
	ID     string
	Code   string
	Name   string
	Unit   string
	Ranges []ReferenceRange
}

func NewTestDefinition(id, code, name, unit string, ranges []ReferenceRange) (TestDefinition, error) {
	var err error
	if strings.TrimSpace(id) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("test definition id"))
	}
	if strings.TrimSpace(name) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("test definition name"))
	}
	for i, r := range ranges {
		if r.Min > r.Max {
			err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("reference range",
				fmt.Errorf("range %d of %s has min %v above max %v", i, id, r.Min, r.Max)))
		}
	}
	if err != nil {
		return TestDefinition{}, err
	}

	return TestDefinition{ID: id, Code: code, Name: name, Unit: unit, Ranges: ranges}, nil
}

// Subject identifies who a result was measured on, for range applicability.
type Subject struct {
	AgeGroup string
	Gender   string
}

// Interpretation is the derived part of a result. An empty Interpretation
// means no applicable range was found.
type Interpretation struct {
	ReferenceRange string
	IsAbnormal     *bool
	Text           string
}

func (i Interpretation) IsZero() bool {
	return i.ReferenceRange == "" && i.IsAbnormal == nil && i.Text == ""
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
