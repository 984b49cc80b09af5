// Package signal reduces per-indicator signal columns into one combined
// trade signal sequence.
package signal

import (
	"errors"

	"signal-systemv1/internal/indicator"
	"signal-systemv1/internal/model"
)

// ErrNoSignals means the frame carries no computed signal columns to combine.
var ErrNoSignals = errors.New("no indicator signals to combine")

// Combine reduces a frame's per-indicator signal columns into one direction
// per bar.
//
// A single indicator passes through unchanged. For multiple indicators the
// per-bar mean of all signals (a value in [-1, 1]) is thresholded: above 0.5
// buys, below -0.5 sells, anything between is neutral. Indicators that
// failed to compute are simply absent from the frame and never vote.
func Combine(f *indicator.Frame) ([]int, error) {
	cols := f.Signals()
	if len(cols) == 0 {
		return nil, ErrNoSignals
	}

	if len(cols) == 1 {
		out := make([]int, len(cols[0]))
		copy(out, cols[0])
		return out, nil
	}

	out := make([]int, f.Len())
	for i := range out {
		sum := 0
		for _, col := range cols {
			sum += col[i]
		}
		mean := float64(sum) / float64(len(cols))
		switch {
		case mean > 0.5:
			out[i] = model.DirectionBuy
		case mean < -0.5:
			out[i] = model.DirectionSell
		}
	}
	return out, nil
}

// Latest returns the combined direction at the final bar, or 0 for an empty
// sequence.
func Latest(combined []int) int {
	if len(combined) == 0 {
		return 0
	}
	return combined[len(combined)-1]
}
