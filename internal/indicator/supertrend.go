package indicator

import (
	"fmt"
	"math"
)

// superTrendCompute is the ATR band-flip trend indicator. ATR is the rolling
// mean of true range; the upper band holds while price stays below it and is
// non-increasing in a downtrend, the lower band symmetrically in an uptrend.
// A band flip produces the signal: +1 when price breaks above the upper band,
// -1 when it breaks below the lower band.
type superTrendCompute struct {
	period     int
	multiplier float64
}

func newSuperTrend(sp Spec) (*superTrendCompute, error) {
	period, err := sp.periodParam("period", 10)
	if err != nil {
		return nil, err
	}
	mult := sp.param("multiplier", 3)
	if mult <= 0 {
		return nil, fmt.Errorf("%w: SuperTrend multiplier must be positive, got %.2f", ErrInvalidSpec, mult)
	}
	return &superTrendCompute{period: period, multiplier: mult}, nil
}

func (c *superTrendCompute) label() string { return "SUPERTREND" }

// True range needs the previous close, so ATR's first value lands at index
// period and any value needs period+1 bars.
func (c *superTrendCompute) minBars() int { return c.period + 1 }

func (c *superTrendCompute) apply(f *Frame) {
	n := f.Len()
	atr := rollingMean(trueRange(f), c.period)

	basicUB := nans(n)
	basicLB := nans(n)
	for i := range atr {
		if math.IsNaN(atr[i]) {
			continue
		}
		hl2 := (f.Bars[i].High + f.Bars[i].Low) / 2
		basicUB[i] = hl2 + c.multiplier*atr[i]
		basicLB[i] = hl2 - c.multiplier*atr[i]
	}

	finalUB := nans(n)
	finalLB := nans(n)
	st := nans(n)
	dir := make([]int, n)

	for i := 0; i < n; i++ {
		if math.IsNaN(basicUB[i]) {
			continue
		}
		close := f.Bars[i].Close
		if i == 0 || math.IsNaN(finalUB[i-1]) {
			finalUB[i] = basicUB[i]
			finalLB[i] = basicLB[i]
		} else {
			prevClose := f.Bars[i-1].Close
			if prevClose <= finalUB[i-1] {
				finalUB[i] = math.Min(basicUB[i], finalUB[i-1])
			} else {
				finalUB[i] = basicUB[i]
			}
			if prevClose >= finalLB[i-1] {
				finalLB[i] = math.Max(basicLB[i], finalLB[i-1])
			} else {
				finalLB[i] = basicLB[i]
			}
		}
		if close <= finalUB[i] {
			st[i] = finalUB[i]
			dir[i] = -1
		} else {
			st[i] = finalLB[i]
			dir[i] = 1
		}
	}
	f.setColumn("SUPERTREND", st)

	sig := make([]int, n)
	for i := 1; i < n; i++ {
		if dir[i] != 0 && dir[i-1] != 0 && dir[i] != dir[i-1] {
			sig[i] = dir[i]
		}
	}
	f.setSignal(c.label(), sig)
}

// trueRange computes per-bar true range; the first bar has no previous close
// and yields NaN.
func trueRange(f *Frame) []float64 {
	tr := nans(f.Len())
	for i := 1; i < f.Len(); i++ {
		b := f.Bars[i]
		prevClose := f.Bars[i-1].Close
		tr[i] = math.Max(b.High-b.Low, math.Max(math.Abs(b.High-prevClose), math.Abs(b.Low-prevClose)))
	}
	return tr
}
