// Package backtest replays a combined indicator signal sequence against a
// simulated single-position account and reports aggregate performance.
package backtest

import (
	"errors"
	"time"

	"signal-systemv1/internal/indicator"
	"signal-systemv1/internal/model"
	"signal-systemv1/internal/signal"
)

// ErrNoTradableSignal means the combined signal sequence never produced a
// non-zero value. Reported distinctly from a signal-bearing run that simply
// closed zero trades.
var ErrNoTradableSignal = errors.New("no tradable signal in series")

// DefaultInitialBalance is the simulated account's starting balance.
const DefaultInitialBalance = 10000.0

// allocationRatio is the fraction of current balance committed per entry.
const allocationRatio = 0.95

// Config configures a backtest run.
type Config struct {
	InitialBalance float64 // 0 means DefaultInitialBalance
}

// Trade is one closed round trip, appended in exit order.
type Trade struct {
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Size       float64   `json:"size"` // position size in units
	Profit     float64   `json:"profit"`
	ProfitPct  float64   `json:"profit_percentage"`
}

// Result aggregates a backtest run.
type Result struct {
	InitialBalance float64 `json:"initial_balance"`
	FinalBalance   float64 `json:"final_balance"`
	TotalProfit    float64 `json:"total_profit"`
	TotalProfitPct float64 `json:"total_profit_percentage"`
	TotalTrades    int     `json:"total_trades"`
	WinningTrades  int     `json:"winning_trades"`
	WinRate        float64 `json:"win_rate"`
	MaxDrawdown    float64 `json:"max_drawdown"`

	// Buy-and-hold comparison over the same series.
	StartPrice     float64 `json:"start_price"`
	EndPrice       float64 `json:"end_price"`
	PriceChangePct float64 `json:"price_change_percentage"`

	IndicatorsUsed []string `json:"indicators_used"`
	Trades         []Trade  `json:"trades"`
}

// position is the single open long, if any.
type position struct {
	entryPrice float64
	entryTime  time.Time
	size       float64 // units
}

// Run computes indicators over the bars, combines their signals, and replays
// the combined sequence against a simulated account. Sizing commits 95% of
// the current balance as notional at entry; an open position at the end of
// the series is force-closed at the last bar's close.
func Run(bars []model.Bar, specs []indicator.Spec, cfg Config) (*Result, error) {
	frame, err := indicator.Apply(bars, specs)
	if err != nil {
		return nil, err
	}
	combined, err := signal.Combine(frame)
	if err != nil {
		return nil, err
	}

	tradable := false
	for _, d := range combined {
		if d != 0 {
			tradable = true
			break
		}
	}
	if !tradable {
		return nil, ErrNoTradableSignal
	}

	res := simulate(frame.Bars, combined, cfg)
	res.IndicatorsUsed = frame.SignalLabels()
	return res, nil
}

// simulate replays a combined signal sequence against the account.
// combined must be aligned with bars.
func simulate(bars []model.Bar, combined []int, cfg Config) *Result {
	initial := cfg.InitialBalance
	if initial <= 0 {
		initial = DefaultInitialBalance
	}

	balance := initial
	var pos *position
	var trades []Trade

	for i, bar := range bars {
		price := bar.Close
		switch {
		case combined[i] == model.DirectionBuy && pos == nil:
			notional := allocationRatio * balance
			pos = &position{
				entryPrice: price,
				entryTime:  bar.Time,
				size:       notional / price,
			}
			balance -= notional

		case combined[i] == model.DirectionSell && pos != nil:
			balance += pos.size * price
			trades = append(trades, closeTrade(pos, price, bar.Time))
			pos = nil
		}
	}

	// Auto-liquidation: an open position is closed at the last bar's close.
	if pos != nil {
		last := bars[len(bars)-1]
		balance += pos.size * last.Close
		trades = append(trades, closeTrade(pos, last.Close, last.Time))
		pos = nil
	}

	res := &Result{
		InitialBalance: initial,
		FinalBalance:   balance,
		TotalProfit:    balance - initial,
		TotalTrades:    len(trades),
		StartPrice:     bars[0].Close,
		EndPrice:       bars[len(bars)-1].Close,
		Trades:         trades,
	}
	res.TotalProfitPct = res.TotalProfit / initial * 100
	if res.StartPrice != 0 {
		res.PriceChangePct = (res.EndPrice - res.StartPrice) / res.StartPrice * 100
	}

	for _, t := range trades {
		if t.Profit > 0 {
			res.WinningTrades++
		}
	}
	if res.TotalTrades > 0 {
		res.WinRate = float64(res.WinningTrades) / float64(res.TotalTrades) * 100
	}
	res.MaxDrawdown = maxDrawdown(initial, trades)

	return res
}

// closeTrade realizes a position at the given exit price.
func closeTrade(pos *position, exitPrice float64, exitTime time.Time) Trade {
	profit := pos.size*exitPrice - pos.size*pos.entryPrice
	return Trade{
		EntryTime:  pos.entryTime,
		ExitTime:   exitTime,
		EntryPrice: pos.entryPrice,
		ExitPrice:  exitPrice,
		Size:       pos.size,
		Profit:     profit,
		ProfitPct:  (exitPrice - pos.entryPrice) / pos.entryPrice * 100,
	}
}

// maxDrawdown computes the peak-to-trough decline, in percent, over the
// discrete equity curve sampled at trade boundaries.
func maxDrawdown(initial float64, trades []Trade) float64 {
	equity := initial
	peak := initial
	maxDD := 0.0
	for _, t := range trades {
		equity += t.Profit
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			if dd := (peak - equity) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
