package backtest

import (
	"errors"
	"math"
	"testing"
	"time"

	"signal-systemv1/internal/indicator"
	"signal-systemv1/internal/model"
)

func series(closes ...float64) []model.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Bar, len(closes))
	for i, c := range closes {
		out[i] = model.Bar{
			Time:   base.Add(time.Duration(i) * time.Hour),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

func assertMoney(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s: got %.6f, want %.6f", label, got, want)
	}
}

func TestSimulate_SingleRoundTrip(t *testing.T) {
	// Buy at 10, sell at 20, balance 10000.
	//   entry notional = 0.95 * 10000 = 9500 -> size 950, cash 500
	//   exit proceeds  = 950 * 20 = 19000    -> balance 19500
	bars := series(10, 10, 20, 20)
	combined := []int{0, 1, 0, -1}

	res := simulate(bars, combined, Config{})

	assertMoney(t, "final balance", res.FinalBalance, 19500)
	assertMoney(t, "total profit", res.TotalProfit, 9500)
	assertMoney(t, "total profit pct", res.TotalProfitPct, 95)
	if res.TotalTrades != 1 || res.WinningTrades != 1 {
		t.Errorf("trades = %d/%d winning, want 1/1", res.TotalTrades, res.WinningTrades)
	}
	assertMoney(t, "win rate", res.WinRate, 100)
	assertMoney(t, "max drawdown", res.MaxDrawdown, 0)

	tr := res.Trades[0]
	assertMoney(t, "entry price", tr.EntryPrice, 10)
	assertMoney(t, "exit price", tr.ExitPrice, 20)
	assertMoney(t, "size", tr.Size, 950)
	assertMoney(t, "trade profit", tr.Profit, 9500)
	assertMoney(t, "trade profit pct", tr.ProfitPct, 100)
	if !tr.EntryTime.Equal(bars[1].Time) || !tr.ExitTime.Equal(bars[3].Time) {
		t.Errorf("trade times = %v -> %v, want bars 1 -> 3", tr.EntryTime, tr.ExitTime)
	}

	// Buy-and-hold comparison over the same series.
	assertMoney(t, "start price", res.StartPrice, 10)
	assertMoney(t, "end price", res.EndPrice, 20)
	assertMoney(t, "price change pct", res.PriceChangePct, 100)
}

func TestSimulate_ForcedLiquidation(t *testing.T) {
	// Position still open at the end of the series is closed at the last
	// bar's close and timestamp.
	bars := series(10, 10, 15)
	combined := []int{1, 0, 0}

	res := simulate(bars, combined, Config{})

	if res.TotalTrades != 1 {
		t.Fatalf("trades = %d, want 1", res.TotalTrades)
	}
	tr := res.Trades[0]
	assertMoney(t, "exit price", tr.ExitPrice, 15)
	if !tr.ExitTime.Equal(bars[2].Time) {
		t.Errorf("exit time = %v, want last bar %v", tr.ExitTime, bars[2].Time)
	}
	// size 950, profit 950 * (15-10) = 4750
	assertMoney(t, "final balance", res.FinalBalance, 14750)
}

func TestSimulate_LosingTrade_Drawdown(t *testing.T) {
	// Buy at 20, sell at 10: size 9500/20 = 475, loss 4750.
	// Equity at trade boundaries: 10000 -> 5250, drawdown 47.5%.
	bars := series(20, 20, 10, 10)
	combined := []int{0, 1, 0, -1}

	res := simulate(bars, combined, Config{})

	assertMoney(t, "final balance", res.FinalBalance, 5250)
	if res.WinningTrades != 0 {
		t.Errorf("winning trades = %d, want 0", res.WinningTrades)
	}
	assertMoney(t, "win rate", res.WinRate, 0)
	assertMoney(t, "max drawdown", res.MaxDrawdown, 47.5)
}

func TestSimulate_RepeatedBuysDoNotPyramid(t *testing.T) {
	// A second buy while a position is open is ignored.
	bars := series(10, 10, 10, 20)
	combined := []int{1, 1, 0, -1}

	res := simulate(bars, combined, Config{})

	if res.TotalTrades != 1 {
		t.Fatalf("trades = %d, want 1", res.TotalTrades)
	}
	assertMoney(t, "entry price", res.Trades[0].EntryPrice, 10)
}

func TestSimulate_CompoundingAndNoDrawdown(t *testing.T) {
	// Two winning round trips; sizing compounds off the grown balance.
	//   trip 1: buy 10 sell 20: size 950, balance 19500
	//   trip 2: buy 20 sell 40: notional 18525, size 926.25, balance 38025
	// Monotonically rising equity: drawdown must be exactly 0.
	bars := series(10, 20, 20, 40)
	combined := []int{1, -1, 1, -1}

	res := simulate(bars, combined, Config{})

	assertMoney(t, "final balance", res.FinalBalance, 38025)
	if res.TotalTrades != 2 || res.WinningTrades != 2 {
		t.Errorf("trades = %d/%d winning, want 2/2", res.TotalTrades, res.WinningTrades)
	}
	assertMoney(t, "max drawdown", res.MaxDrawdown, 0)
}

func TestSimulate_CustomInitialBalance(t *testing.T) {
	bars := series(10, 20)
	combined := []int{1, -1}

	res := simulate(bars, combined, Config{InitialBalance: 1000})

	assertMoney(t, "initial balance", res.InitialBalance, 1000)
	// size 95, proceeds 1900, balance 50 + 1900 = 1950
	assertMoney(t, "final balance", res.FinalBalance, 1950)
}

func TestRun_EndToEnd_SMA(t *testing.T) {
	// Closes 10,10,10,9,12 with SMA(3): sell at bar 3 (no position, no-op),
	// buy at bar 4, force-closed on the same final bar at zero profit.
	specs, err := indicator.ParseList("SMA:3")
	if err != nil {
		t.Fatal(err)
	}

	res, err := Run(series(10, 10, 10, 9, 12), specs, Config{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.TotalTrades != 1 {
		t.Fatalf("trades = %d, want 1", res.TotalTrades)
	}
	assertMoney(t, "final balance", res.FinalBalance, DefaultInitialBalance)
	if len(res.IndicatorsUsed) != 1 || res.IndicatorsUsed[0] != "SMA" {
		t.Errorf("indicators used = %v, want [SMA]", res.IndicatorsUsed)
	}
}

func TestRun_NoTradableSignal(t *testing.T) {
	// Constant prices: the SMA equals the close everywhere, nothing ever
	// crosses, the combined sequence is all zeros.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}
	specs, err := indicator.ParseList("SMA:3")
	if err != nil {
		t.Fatal(err)
	}

	_, err = Run(series(closes...), specs, Config{})
	if !errors.Is(err, ErrNoTradableSignal) {
		t.Fatalf("Run on flat series: got %v, want ErrNoTradableSignal", err)
	}
}

func TestRun_InsufficientData(t *testing.T) {
	specs, err := indicator.ParseList("RSI:14")
	if err != nil {
		t.Fatal(err)
	}

	_, err = Run(series(10, 11, 12), specs, Config{})
	if !errors.Is(err, indicator.ErrInsufficientData) {
		t.Fatalf("Run on short series: got %v, want ErrInsufficientData", err)
	}
}
