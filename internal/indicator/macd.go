package indicator

import (
	"fmt"

	"signal-systemv1/internal/model"
)

// macdCompute is Moving Average Convergence Divergence: EMA(fast)-EMA(slow),
// a signal line EMA(signal) of the MACD line, and their histogram.
// Signal: +1 on the MACD line crossing above the signal line, -1 below.
type macdCompute struct {
	fast   int
	slow   int
	signal int
}

func newMACD(sp Spec) (*macdCompute, error) {
	fast, err := sp.periodParam("fast", 12)
	if err != nil {
		return nil, err
	}
	slow, err := sp.periodParam("slow", 26)
	if err != nil {
		return nil, err
	}
	sig, err := sp.periodParam("signal", 9)
	if err != nil {
		return nil, err
	}
	if fast >= slow {
		return nil, fmt.Errorf("%w: MACD fast period %d must be below slow period %d", ErrInvalidSpec, fast, slow)
	}
	return &macdCompute{fast: fast, slow: slow, signal: sig}, nil
}

func (c *macdCompute) label() string { return "MACD" }

func (c *macdCompute) minBars() int {
	m := c.fast
	if c.slow > m {
		m = c.slow
	}
	if c.signal > m {
		m = c.signal
	}
	return m
}

func (c *macdCompute) apply(f *Frame) {
	closes := model.Closes(f.Bars)
	n := f.Len()

	fastEMA := ewm(closes, c.fast)
	slowEMA := ewm(closes, c.slow)

	macd := make([]float64, n)
	for i := range macd {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine := ewm(macd, c.signal)

	hist := make([]float64, n)
	for i := range hist {
		hist[i] = macd[i] - signalLine[i]
	}

	f.setColumn("MACD", macd)
	f.setColumn("MACD_SIGNAL", signalLine)
	f.setColumn("MACD_HIST", hist)

	sig := make([]int, n)
	for i := 1; i < n; i++ {
		switch {
		case crossAbove(macd[i-1], macd[i], signalLine[i-1], signalLine[i]):
			sig[i] = model.DirectionBuy
		case crossBelow(macd[i-1], macd[i], signalLine[i-1], signalLine[i]):
			sig[i] = model.DirectionSell
		}
	}
	f.setSignal(c.label(), sig)
}
