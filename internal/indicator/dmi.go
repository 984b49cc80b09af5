package indicator

import (
	"math"

	"signal-systemv1/internal/model"
)

// dmiCompute is the Directional Movement Index with ADX trend strength.
// Only the larger, positive directional move counts toward +DM/-DM; ties
// yield zero for both. When +DI + -DI is 0 for a bar, DX is defined as 0.
// Signal: +1 when +DI > -DI and ADX > 25, -1 when -DI > +DI and ADX > 25,
// else 0 — level-based, not a crossover.
type dmiCompute struct {
	period int
}

const adxTrendThreshold = 25.0

func newDMI(sp Spec) (*dmiCompute, error) {
	period, err := sp.periodParam("period", 14)
	if err != nil {
		return nil, err
	}
	return &dmiCompute{period: period}, nil
}

func (c *dmiCompute) label() string { return "DMI" }

// ADX is a rolling mean over DX, which itself needs a full DM window, so the
// first ADX value lands at index 2*period - 1.
func (c *dmiCompute) minBars() int { return 2 * c.period }

func (c *dmiCompute) apply(f *Frame) {
	n := f.Len()

	plusDM := nans(n)
	minusDM := nans(n)
	for i := 1; i < n; i++ {
		upMove := f.Bars[i].High - f.Bars[i-1].High
		downMove := f.Bars[i-1].Low - f.Bars[i].Low
		plusDM[i], minusDM[i] = 0, 0
		if upMove > 0 && upMove > downMove {
			plusDM[i] = upMove
		}
		if downMove > 0 && downMove > upMove {
			minusDM[i] = downMove
		}
	}

	atr := rollingMean(trueRange(f), c.period)
	avgPlusDM := rollingMean(plusDM, c.period)
	avgMinusDM := rollingMean(minusDM, c.period)

	plusDI := nans(n)
	minusDI := nans(n)
	dx := nans(n)
	for i := range atr {
		if math.IsNaN(atr[i]) || math.IsNaN(avgPlusDM[i]) || atr[i] == 0 {
			continue
		}
		plusDI[i] = avgPlusDM[i] / atr[i] * 100
		minusDI[i] = avgMinusDM[i] / atr[i] * 100
		if sum := plusDI[i] + minusDI[i]; sum == 0 {
			dx[i] = 0
		} else {
			dx[i] = math.Abs(plusDI[i]-minusDI[i]) / sum * 100
		}
	}
	adx := rollingMean(dx, c.period)

	f.setColumn("PLUS_DI", plusDI)
	f.setColumn("MINUS_DI", minusDI)
	f.setColumn("ADX", adx)

	sig := make([]int, n)
	for i := range sig {
		if math.IsNaN(plusDI[i]) || math.IsNaN(minusDI[i]) || math.IsNaN(adx[i]) {
			continue
		}
		if adx[i] <= adxTrendThreshold {
			continue
		}
		if plusDI[i] > minusDI[i] {
			sig[i] = model.DirectionBuy
		} else if minusDI[i] > plusDI[i] {
			sig[i] = model.DirectionSell
		}
	}
	f.setSignal(c.label(), sig)
}
