package indicator

import (
	"fmt"

	"signal-systemv1/internal/model"
)

// emaCompute is the exponential moving average with smoothing 2/(period+1),
// seeded by the first close (no bias correction). Signal mirrors the SMA
// rule: close crossing the EMA.
type emaCompute struct {
	period int
}

func newEMA(sp Spec) (*emaCompute, error) {
	period, err := sp.periodParam("period", 20)
	if err != nil {
		return nil, err
	}
	return &emaCompute{period: period}, nil
}

func (c *emaCompute) label() string { return "EMA" }
func (c *emaCompute) minBars() int  { return c.period }

func (c *emaCompute) apply(f *Frame) {
	closes := model.Closes(f.Bars)
	ema := ewm(closes, c.period)
	f.setColumn(fmt.Sprintf("EMA_%d", c.period), ema)

	sig := make([]int, f.Len())
	for i := 1; i < f.Len(); i++ {
		switch {
		case crossAbove(closes[i-1], closes[i], ema[i-1], ema[i]):
			sig[i] = model.DirectionBuy
		case crossBelow(closes[i-1], closes[i], ema[i-1], ema[i]):
			sig[i] = model.DirectionSell
		}
	}
	f.setSignal(c.label(), sig)
}
