package indicator

import (
	"fmt"

	"signal-systemv1/internal/model"
)

// smaCompute is the rolling arithmetic mean of close over period bars.
// Signal: +1 when close crosses above the SMA, -1 on the downward cross.
type smaCompute struct {
	period int
}

func newSMA(sp Spec) (*smaCompute, error) {
	period, err := sp.periodParam("period", 20)
	if err != nil {
		return nil, err
	}
	return &smaCompute{period: period}, nil
}

func (c *smaCompute) label() string { return "SMA" }
func (c *smaCompute) minBars() int  { return c.period }

func (c *smaCompute) apply(f *Frame) {
	closes := model.Closes(f.Bars)
	sma := rollingMean(closes, c.period)
	f.setColumn(fmt.Sprintf("SMA_%d", c.period), sma)

	sig := make([]int, f.Len())
	for i := 1; i < f.Len(); i++ {
		switch {
		case crossAbove(closes[i-1], closes[i], sma[i-1], sma[i]):
			sig[i] = model.DirectionBuy
		case crossBelow(closes[i-1], closes[i], sma[i-1], sma[i]):
			sig[i] = model.DirectionSell
		}
	}
	f.setSignal(c.label(), sig)
}
