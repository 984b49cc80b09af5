// Package live runs per-connection signal sessions: each connected client
// owns a polling task that evaluates indicators against fresh market data,
// a trade-state machine, and a keep-alive task, all torn down together on
// disconnect.
package live

import (
	"time"

	"signal-systemv1/internal/model"
)

// TradeManager is the live trade-state machine. It processes one signal at
// a time, holds at most one open position, and deduplicates stale or
// duplicate deliveries by timestamp.
//
// Designed for single-goroutine usage by its owning session — no locks.
type TradeManager struct {
	side           int // 0 flat, +1 long, -1 short
	entryPrice     float64
	entryTime      time.Time
	totalProfit    float64
	history        []model.TradeEvent
	lastSignalTime time.Time
}

// NewTradeManager creates an empty trade manager. State lives for the
// session and is discarded with it.
func NewTradeManager() *TradeManager {
	return &TradeManager{}
}

// Process applies one signal at the given market price. It returns a trade
// event when the position opens or flips, nil otherwise.
//
// Rules:
//   - a signal not newer than the last processed one is ignored, so events
//     leave in strictly increasing timestamp order;
//   - neutral signals are ignored;
//   - on a flat book the position opens in the signal's direction (event
//     with profit 0);
//   - an opposite signal closes the position and immediately reopens in the
//     new direction, never leaving a flat gap; the event carries the closed
//     leg's percentage profit;
//   - a same-side signal is a no-op (no pyramiding).
func (tm *TradeManager) Process(sig model.Signal, price float64) *model.TradeEvent {
	if !tm.lastSignalTime.IsZero() && !sig.Time.After(tm.lastSignalTime) {
		return nil
	}
	if sig.Direction == 0 {
		return nil
	}
	tm.lastSignalTime = sig.Time

	if tm.side == sig.Direction {
		return nil
	}

	profit := 0.0
	if tm.side != 0 {
		// Closing leg: percentage profit relative to entry, sign by side.
		profit = (price - tm.entryPrice) / tm.entryPrice * 100 * float64(tm.side)
		tm.totalProfit += profit
	}

	tm.side = sig.Direction
	tm.entryPrice = price
	tm.entryTime = sig.Time

	ev := &model.TradeEvent{
		Timestamp:       sig.Time,
		Price:           price,
		Signal:          sig.Direction,
		TradeType:       tradeType(sig.Direction),
		Profit:          profit,
		IndicatorDetail: sig.Detail,
	}
	tm.history = append(tm.history, *ev)
	return ev
}

func tradeType(direction int) string {
	if direction == model.DirectionBuy {
		return model.TradeTypeBuy
	}
	return model.TradeTypeSell
}

// Side returns the open position's direction, 0 when flat.
func (tm *TradeManager) Side() int { return tm.side }

// EntryPrice returns the open position's entry price, 0 when flat.
func (tm *TradeManager) EntryPrice() float64 {
	if tm.side == 0 {
		return 0
	}
	return tm.entryPrice
}

// TotalProfit returns the cumulative percentage profit of all closed legs.
func (tm *TradeManager) TotalProfit() float64 { return tm.totalProfit }

// History returns a snapshot of emitted trade events.
func (tm *TradeManager) History() []model.TradeEvent {
	cp := make([]model.TradeEvent, len(tm.history))
	copy(cp, tm.history)
	return cp
}
