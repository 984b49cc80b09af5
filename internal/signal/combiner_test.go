package signal

import (
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
			Time:   base.Add(time.Duration(i) * time.Minute),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

func frame(t *testing.T, bars []model.Bar, list string) *indicator.Frame {
	t.Helper()
	specs, err := indicator.ParseList(list)
	if err != nil {
		t.Fatalf("ParseList(%q): %v", list, err)
	}
	f, err := indicator.Apply(bars, specs)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return f
}

func TestCombine_SingleIndicatorPassesThrough(t *testing.T) {
	// One indicator: the combined sequence is its signal column verbatim.
	f := frame(t, series(10, 10, 10, 9, 12), "SMA:3")

	combined, err := Combine(f)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	want := f.Signal("SMA")
	for i := range want {
		if combined[i] != want[i] {
			t.Errorf("bar %d: combined %d, want %d", i, combined[i], want[i])
		}
	}

	// The pass-through must be a copy, not the frame's own column.
	combined[0] = 99
	if f.Signal("SMA")[0] == 99 {
		t.Error("Combine aliased the frame's signal column")
	}
}

func TestCombine_MajorityVote(t *testing.T) {
	// Closes 10, 10, 10, 9, 12 with SMA(3) and RSI(2):
	//   SMA signals: [0 0 0 -1 +1]  (close crosses the SMA both ways)
	//   RSI signals: [0 0 0  0 +1]  (RSI 0 -> 75 crosses above oversold 30)
	// bar 3 mean = -0.5: not strictly below -0.5, stays neutral.
	// bar 4 mean = +1.0: unanimous buy.
	f := frame(t, series(10, 10, 10, 9, 12), "SMA:3,RSI:2")

	combined, err := Combine(f)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}

	want := []int{0, 0, 0, 0, 1}
	for i := range want {
		if combined[i] != want[i] {
			t.Errorf("bar %d: combined %d, want %d", i, combined[i], want[i])
		}
	}
}

func TestCombine_SkippedIndicatorNeverVotes(t *testing.T) {
	// RSI(14) needs 15 bars and is skipped over 5; only SMA votes, so the
	// combined sequence degrades to the single-indicator pass-through.
	f := frame(t, series(10, 10, 10, 9, 12), "SMA:3,RSI:14")

	combined, err := Combine(f)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	want := []int{0, 0, 0, -1, 1}
	for i := range want {
		if combined[i] != want[i] {
			t.Errorf("bar %d: combined %d, want %d", i, combined[i], want[i])
		}
	}
}

func TestLatest(t *testing.T) {
	if got := Latest(nil); got != 0 {
		t.Errorf("Latest(nil) = %d, want 0", got)
	}
	if got := Latest([]int{0, 1, -1}); got != -1 {
		t.Errorf("Latest = %d, want -1", got)
	}
}
