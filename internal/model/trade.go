package model

import "time"

// Trade types for live trade events.
const (
	TradeTypeBuy  = "BUY"
	TradeTypeSell = "SELL"
)

// TradeEvent is the live trade message pushed to a connected client when the
// trade manager opens, closes, or flips a position.
type TradeEvent struct {
	Timestamp       time.Time          `json:"timestamp"`
	Price           float64            `json:"price"`
	Signal          int                `json:"signal"` // -1, 0, +1
	TradeType       string             `json:"trade_type"`
	Profit          float64            `json:"profit"` // closed leg's percentage profit, 0 on a fresh open
	IndicatorDetail map[string]float64 `json:"indicator_detail,omitempty"`
}
