package indicator

import (
	"fmt"
	"log"

	"signal-systemv1/internal/model"
)

// Apply computes every requested indicator over the bar series and returns
// the augmented Frame. The input slice is copied, never mutated.
//
// An indicator whose warm-up exceeds the series length is skipped with a
// warning — one failing indicator never aborts the others. Apply fails only
// when nothing could be computed: with ErrInsufficientData if every
// indicator was skipped, or ErrInvalidSpec for an empty spec list.
func Apply(bars []model.Bar, specs []Spec) (*Frame, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no indicators requested", ErrInvalidSpec)
	}

	f := newFrame(bars)
	applied := 0
	var firstErr error

	for _, sp := range specs {
		c, err := newCompute(sp)
		if err != nil {
			// Specs are validated at parse time; a malformed one that
			// slips through fails the whole request.
			return nil, err
		}
		if len(bars) < c.minBars() {
			err := fmt.Errorf("%s: %w: have %d bars, need %d", c.label(), ErrInsufficientData, len(bars), c.minBars())
			log.Printf("[indicator] skipping %v", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		c.apply(f)
		applied++
	}

	if applied == 0 {
		return nil, firstErr
	}
	return f, nil
}

// MinBars returns the minimum series length a spec needs to produce a value.
func MinBars(sp Spec) (int, error) {
	c, err := newCompute(sp)
	if err != nil {
		return 0, err
	}
	return c.minBars(), nil
}
