package indicator

import (
	"fmt"

	"signal-systemv1/internal/model"
)

// bollingerCompute is Bollinger Bands: an SMA middle band with upper/lower
// bands at stddev multiples of the rolling standard deviation.
// Signal: +1 when close re-enters above the lower band from below,
// -1 when close re-enters below the upper band from above.
type bollingerCompute struct {
	period int
	stddev float64
}

func newBollinger(sp Spec) (*bollingerCompute, error) {
	period, err := sp.periodParam("period", 20)
	if err != nil {
		return nil, err
	}
	sd := sp.param("stddev", 2)
	if sd <= 0 {
		return nil, fmt.Errorf("%w: Bollinger stddev must be positive, got %.2f", ErrInvalidSpec, sd)
	}
	return &bollingerCompute{period: period, stddev: sd}, nil
}

func (c *bollingerCompute) label() string { return "BOLLINGER" }
func (c *bollingerCompute) minBars() int  { return c.period }

func (c *bollingerCompute) apply(f *Frame) {
	closes := model.Closes(f.Bars)
	n := f.Len()

	middle := rollingMean(closes, c.period)
	std := rollingStd(closes, c.period)

	upper := nans(n)
	lower := nans(n)
	for i := range middle {
		upper[i] = middle[i] + c.stddev*std[i]
		lower[i] = middle[i] - c.stddev*std[i]
	}

	f.setColumn("BB_MIDDLE", middle)
	f.setColumn("BB_UPPER", upper)
	f.setColumn("BB_LOWER", lower)

	sig := make([]int, n)
	for i := 1; i < n; i++ {
		switch {
		case crossAbove(closes[i-1], closes[i], lower[i-1], lower[i]):
			sig[i] = model.DirectionBuy
		case crossBelow(closes[i-1], closes[i], upper[i-1], upper[i]):
			sig[i] = model.DirectionSell
		}
	}
	f.setSignal(c.label(), sig)
}
