package services

import (
	"math"
	"strconv"
	"strings"

	"labflow/internal/core/domain/model/result"
)

const (
	InterpretationBelow  = "Below normal range"
	InterpretationAbove  = "Above normal range"
	InterpretationWithin = "Within normal range"
)

// RangeMatcher decides whether a reference range applies to a subject.
type RangeMatcher interface {
	Matches(r result.ReferenceRange, subject result.Subject) bool
}

// MatchAnyRange accepts every range.
type MatchAnyRange struct{}

func (MatchAnyRange) Matches(result.ReferenceRange, result.Subject) bool {
	return true
}

// MatchSubject accepts a range when its age group and gender are empty or
// equal (case-insensitive) to the subject's.
type MatchSubject struct{}

func (MatchSubject) Matches(r result.ReferenceRange, s result.Subject) bool {
	return matchesField(r.AgeGroup, s.AgeGroup) && matchesField(r.Gender, s.Gender)
}

func matchesField(rangeValue, subjectValue string) bool {
	return rangeValue == "" || strings.EqualFold(rangeValue, subjectValue)
}

// ReferenceRangeEvaluator interprets numeric result values against the
// reference ranges of a test definition.
//
// Evaluation rules:
//   - Non-numeric values leave the interpretation untouched
//   - The first range accepted by the matcher is used
//   - Without an applicable range the interpretation is cleared
//   - Otherwise abnormal = value < min or value > max
//
// Example usage:
//
//	evaluator := services.NewReferenceRangeEvaluator(nil)
//	evaluator.InterpretResult(labResult, definition)
type ReferenceRangeEvaluator struct {
	matcher RangeMatcher
}

// NewReferenceRangeEvaluator creates an evaluator; a nil matcher means MatchAnyRange.
func NewReferenceRangeEvaluator(matcher RangeMatcher) ReferenceRangeEvaluator {
	if matcher == nil {
		matcher = MatchAnyRange{}
	}
	return ReferenceRangeEvaluator{matcher: matcher}
}

// Evaluate computes the interpretation of value. ok is false when the value is
// not a finite number ("positive", "NaN", "Inf") and the caller must keep its
// current interpretation.
func (e ReferenceRangeEvaluator) Evaluate(
	value string,
	def result.TestDefinition,
	subject result.Subject,
) (interp result.Interpretation, ok bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return result.Interpretation{}, false
	}

	for _, r := range def.Ranges {
		if !e.matcher.Matches(r, subject) {
			continue
		}

		abnormal := v < r.Min || v > r.Max
		text := InterpretationWithin
		switch {
		case v < r.Min:
			text = InterpretationBelow
		case v > r.Max:
			text = InterpretationAbove
		}
		return result.Interpretation{
			ReferenceRange: r.DisplayText(def.Unit),
			IsAbnormal:     &abnormal,
			Text:           text,
		}, true
	}

	return result.Interpretation{}, true
}

// InterpretResult re-derives the interpretation of r. It is idempotent.
func (e ReferenceRangeEvaluator) InterpretResult(r *result.LabResult, def result.TestDefinition) {
	interp, ok := e.Evaluate(r.Value(), def, r.Subject())
	if !ok {
		return
	}
	r.ApplyInterpretation(interp)
}
