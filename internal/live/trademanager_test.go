package live

import (
	"math"
	"testing"
	"time"

	"signal-systemv1/internal/model"
)

func sig(direction int, at time.Time) model.Signal {
	return model.Signal{Time: at, Direction: direction}
}

func TestTradeManager_OpensFlat(t *testing.T) {
	tm := NewTradeManager()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ev := tm.Process(sig(model.DirectionBuy, t0), 100)
	if ev == nil {
		t.Fatal("opening signal produced no event")
	}
	if ev.TradeType != model.TradeTypeBuy || ev.Profit != 0 || ev.Price != 100 {
		t.Errorf("event = %+v, want BUY at 100 with zero profit", ev)
	}
	if tm.Side() != model.DirectionBuy || tm.EntryPrice() != 100 {
		t.Errorf("state = side %d entry %.2f, want long at 100", tm.Side(), tm.EntryPrice())
	}
}

func TestTradeManager_DeduplicatesByTimestamp(t *testing.T) {
	tm := NewTradeManager()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if ev := tm.Process(sig(model.DirectionBuy, t0), 100); ev == nil {
		t.Fatal("first signal produced no event")
	}
	// Same timestamp again: dropped even though the direction differs.
	if ev := tm.Process(sig(model.DirectionSell, t0), 110); ev != nil {
		t.Errorf("duplicate timestamp produced event %+v", ev)
	}
	// Older timestamp: dropped.
	if ev := tm.Process(sig(model.DirectionSell, t0.Add(-time.Minute)), 110); ev != nil {
		t.Errorf("stale timestamp produced event %+v", ev)
	}
	if tm.Side() != model.DirectionBuy {
		t.Errorf("side = %d, want long unchanged", tm.Side())
	}
}

func TestTradeManager_NeutralIgnored(t *testing.T) {
	tm := NewTradeManager()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if ev := tm.Process(sig(model.DirectionHold, t0), 100); ev != nil {
		t.Errorf("neutral signal produced event %+v", ev)
	}
	if tm.Side() != 0 {
		t.Errorf("side = %d, want flat", tm.Side())
	}
}

func TestTradeManager_SameSideNoOp(t *testing.T) {
	tm := NewTradeManager()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.Process(sig(model.DirectionBuy, t0), 100)
	if ev := tm.Process(sig(model.DirectionBuy, t0.Add(time.Minute)), 120); ev != nil {
		t.Errorf("same-side signal produced event %+v", ev)
	}
	// No pyramiding: entry stays at the original price.
	if tm.EntryPrice() != 100 {
		t.Errorf("entry price = %.2f, want 100", tm.EntryPrice())
	}
	if len(tm.History()) != 1 {
		t.Errorf("history length = %d, want 1", len(tm.History()))
	}
}

func TestTradeManager_FlipLongToShort(t *testing.T) {
	tm := NewTradeManager()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.Process(sig(model.DirectionBuy, t0), 100)
	ev := tm.Process(sig(model.DirectionSell, t0.Add(time.Minute)), 110)
	if ev == nil {
		t.Fatal("flip produced no event")
	}
	// Long leg closed: (110-100)/100 * 100 = +10%.
	if math.Abs(ev.Profit-10) > 1e-9 {
		t.Errorf("flip profit = %.4f, want 10", ev.Profit)
	}
	if ev.TradeType != model.TradeTypeSell {
		t.Errorf("trade type = %s, want SELL", ev.TradeType)
	}
	// Immediately reopened short, never flat.
	if tm.Side() != model.DirectionSell || tm.EntryPrice() != 110 {
		t.Errorf("state = side %d entry %.2f, want short at 110", tm.Side(), tm.EntryPrice())
	}
}

func TestTradeManager_ShortLegProfit(t *testing.T) {
	tm := NewTradeManager()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.Process(sig(model.DirectionSell, t0), 110)
	ev := tm.Process(sig(model.DirectionBuy, t0.Add(time.Minute)), 99)
	if ev == nil {
		t.Fatal("flip produced no event")
	}
	// Short from 110 covered at 99: (99-110)/110 * 100 * (-1) = +10%.
	if math.Abs(ev.Profit-10) > 1e-9 {
		t.Errorf("short leg profit = %.4f, want 10", ev.Profit)
	}
	if math.Abs(tm.TotalProfit()-10) > 1e-9 {
		t.Errorf("total profit = %.4f, want 10", tm.TotalProfit())
	}
}

func TestTradeManager_TotalProfitAccumulates(t *testing.T) {
	tm := NewTradeManager()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.Process(sig(model.DirectionBuy, t0), 100)
	// Long leg +10%, then the short from 110 loses 10% covering at 121.
	tm.Process(sig(model.DirectionSell, t0.Add(time.Minute)), 110)
	tm.Process(sig(model.DirectionBuy, t0.Add(2*time.Minute)), 121)
	if math.Abs(tm.TotalProfit()-0) > 1e-9 {
		t.Errorf("total profit = %.4f, want 0", tm.TotalProfit())
	}
	if len(tm.History()) != 3 {
		t.Errorf("history length = %d, want 3", len(tm.History()))
	}
}

func TestTradeManager_HistoryIsSnapshot(t *testing.T) {
	tm := NewTradeManager()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.Process(sig(model.DirectionBuy, t0), 100)
	h := tm.History()
	h[0].Price = -1
	if tm.History()[0].Price != 100 {
		t.Error("History returned the manager's own slice")
	}
}
