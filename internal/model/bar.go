// Package model defines the shared data types flowing through the system:
// OHLCV bars, trade signals, and live trade events.
package model

import (
	"encoding/json"
	"time"
)

// Bar represents a single OHLCV price bar for one instrument.
// Bars in a series are ordered by ascending Time with no duplicate timestamps.
type Bar struct {
	Time   time.Time `json:"timestamp"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// JSON returns the JSON-encoded bar (ignoring errors for hot-path usage).
func (b *Bar) JSON() []byte {
	buf, _ := json.Marshal(b)
	return buf
}

// Closes extracts the close series from a bar slice.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		out[i] = bars[i].Close
	}
	return out
}
