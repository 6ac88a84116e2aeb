// Package metric turns paired timing series into normalized performance.
package metric

import (
	"errors"
	"fmt"
)

var (
	ErrLengthMismatch = errors.New("baseline and speculative series differ in length")
	ErrZeroBaseline   = errors.New("baseline time is zero")
)

// Normalize returns speculative[i] / baseline[i] for every index.
// A value below 1 means the speculative run was faster at that point.
func Normalize(baseline, speculative []float64) ([]float64, error) {
	if len(baseline) != len(speculative) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(baseline), len(speculative))
	}
	out := make([]float64, len(baseline))
	for i, b := range baseline {
		if b == 0 {
			return nil, fmt.Errorf("%w at index %d", ErrZeroBaseline, i)
		}
		out[i] = speculative[i] / b
	}
	return out, nil
}
