package indicator

import "math"

// nans returns a slice of length n filled with NaN. Warm-up cells in every
// value column are NaN and must never be read as a signal.
func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// rollingMean computes the arithmetic mean over a trailing window of size
// period. A window that is incomplete or contains a NaN yields NaN, so
// warm-up gaps propagate the way they do in the reference column model.
func rollingMean(src []float64, period int) []float64 {
	out := nans(len(src))
	for i := period - 1; i < len(src); i++ {
		sum := 0.0
		valid := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(src[j]) {
				valid = false
				break
			}
			sum += src[j]
		}
		if valid {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// rollingStd computes the sample standard deviation (n-1 denominator) over a
// trailing window of size period, NaN-propagating like rollingMean.
func rollingStd(src []float64, period int) []float64 {
	out := nans(len(src))
	if period < 2 {
		return out
	}
	for i := period - 1; i < len(src); i++ {
		sum := 0.0
		valid := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(src[j]) {
				valid = false
				break
			}
			sum += src[j]
		}
		if !valid {
			continue
		}
		mean := sum / float64(period)
		sq := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := src[j] - mean
			sq += d * d
		}
		out[i] = math.Sqrt(sq / float64(period-1))
	}
	return out
}

// ewm computes an exponential moving average with smoothing 2/(span+1),
// seeded by the first finite value (no bias correction).
func ewm(src []float64, span int) []float64 {
	out := nans(len(src))
	alpha := 2.0 / float64(span+1)
	seeded := false
	prev := 0.0
	for i, v := range src {
		if math.IsNaN(v) {
			continue
		}
		if !seeded {
			prev = v
			seeded = true
		} else {
			prev = v*alpha + prev*(1-alpha)
		}
		out[i] = prev
	}
	return out
}

// crossAbove reports whether series a crossed above series b between the
// previous and current bar. Any NaN input means no crossing.
func crossAbove(prevA, curA, prevB, curB float64) bool {
	if math.IsNaN(prevA) || math.IsNaN(curA) || math.IsNaN(prevB) || math.IsNaN(curB) {
		return false
	}
	return prevA <= prevB && curA > curB
}

// crossBelow is the symmetric downward crossing.
func crossBelow(prevA, curA, prevB, curB float64) bool {
	if math.IsNaN(prevA) || math.IsNaN(curA) || math.IsNaN(prevB) || math.IsNaN(curB) {
		return false
	}
	return prevA >= prevB && curA < curB
}
