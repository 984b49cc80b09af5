package model

import "time"

// Signal directions. Zero is neutral (no action).
const (
	DirectionSell = -1
	DirectionHold = 0
	DirectionBuy  = 1
)

// Signal is a discrete trade signal derived from indicator state at one bar.
type Signal struct {
	Time      time.Time `json:"timestamp"`
	Direction int       `json:"direction"` // -1 sell, 0 neutral, +1 buy
	// Detail carries the contributing indicator values at the signal's bar,
	// keyed by column name (e.g. "RSI_14", "MACD").
	Detail map[string]float64 `json:"detail,omitempty"`
}
