package indicator

import (
	"fmt"
	"math"

	"signal-systemv1/internal/model"
)

// rsiCompute is the Relative Strength Index over rolling-mean gains and
// losses (not Wilder smoothing).
//
// Edge cases: a window with zero average loss yields RSI 100 (never a
// division by zero); a completely flat window (zero gain AND zero loss)
// yields RSI 50.
//
// Signal: +1 when RSI crosses above the oversold threshold from below,
// -1 when it crosses below the overbought threshold from above.
type rsiCompute struct {
	period     int
	overbought float64
	oversold   float64
}

func newRSI(sp Spec) (*rsiCompute, error) {
	period, err := sp.periodParam("period", 14)
	if err != nil {
		return nil, err
	}
	ob := sp.param("overbought", 70)
	os := sp.param("oversold", 30)
	if os >= ob {
		return nil, fmt.Errorf("%w: RSI oversold %.1f must be below overbought %.1f", ErrInvalidSpec, os, ob)
	}
	return &rsiCompute{period: period, overbought: ob, oversold: os}, nil
}

func (c *rsiCompute) label() string { return "RSI" }

// The first delta exists at bar 1, so the first RSI value needs period+1 bars.
func (c *rsiCompute) minBars() int { return c.period + 1 }

func (c *rsiCompute) apply(f *Frame) {
	closes := model.Closes(f.Bars)
	n := f.Len()

	gains := nans(n)
	losses := nans(n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i], losses[i] = delta, 0
		} else {
			gains[i], losses[i] = 0, -delta
		}
	}

	avgGain := rollingMean(gains, c.period)
	avgLoss := rollingMean(losses, c.period)

	rsi := nans(n)
	for i := range rsi {
		g, l := avgGain[i], avgLoss[i]
		if math.IsNaN(g) || math.IsNaN(l) {
			continue
		}
		switch {
		case g == 0 && l == 0:
			rsi[i] = 50
		case l == 0:
			rsi[i] = 100
		default:
			rs := g / l
			rsi[i] = 100 - 100/(1+rs)
		}
	}
	f.setColumn(fmt.Sprintf("RSI_%d", c.period), rsi)

	sig := make([]int, n)
	for i := 1; i < n; i++ {
		switch {
		case crossAbove(rsi[i-1], rsi[i], c.oversold, c.oversold):
			sig[i] = model.DirectionBuy
		case crossBelow(rsi[i-1], rsi[i], c.overbought, c.overbought):
			sig[i] = model.DirectionSell
		}
	}
	f.setSignal(c.label(), sig)
}
