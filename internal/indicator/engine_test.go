package indicator

import (
	"errors"
	"testing"
)

func TestApply_EmptySpecs(t *testing.T) {
	_, err := Apply(series(1, 2, 3), nil)
	if !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("Apply with no specs: got %v, want ErrInvalidSpec", err)
	}
}

func TestApply_SkipsInsufficientIndicator(t *testing.T) {
	// 5 bars: SMA(3) fits, RSI(14) needs 15. The short one is skipped,
	// the rest of the request still succeeds.
	specs := mustParse(t, "SMA:3,RSI:14")
	f, err := Apply(series(10, 11, 12, 13, 14), specs)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	labels := f.SignalLabels()
	if len(labels) != 1 || labels[0] != "SMA" {
		t.Errorf("applied labels = %v, want [SMA]", labels)
	}
	if f.Column("RSI_14") != nil {
		t.Error("skipped indicator left a value column behind")
	}
}

func TestApply_AllInsufficient(t *testing.T) {
	specs := mustParse(t, "RSI:14,DMI:14")
	_, err := Apply(series(10, 11, 12), specs)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("Apply with all skipped: got %v, want ErrInsufficientData", err)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	bars := series(10, 11, 12, 13, 14)
	f, err := Apply(bars, mustParse(t, "SMA:3"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	f.Bars[0].Close = -1
	if bars[0].Close != 10 {
		t.Error("Apply shares the caller's bar slice")
	}
}

func TestMinBars(t *testing.T) {
	cases := []struct {
		spec string
		want int
	}{
		{"SMA:3", 3},
		{"EMA:5", 5},
		{"RSI:14", 15},
		{"MACD:12:26:9", 26},
		{"BOLLINGER:20", 20},
		{"SUPERTREND:10", 11},
		{"DMI:14", 28},
	}
	for _, tc := range cases {
		sp := mustParse(t, tc.spec)[0]
		got, err := MinBars(sp)
		if err != nil {
			t.Fatalf("MinBars(%s): %v", tc.spec, err)
		}
		if got != tc.want {
			t.Errorf("MinBars(%s) = %d, want %d", tc.spec, got, tc.want)
		}
	}
}

func TestParseKind_Aliases(t *testing.T) {
	cases := map[string]Kind{
		"sma":        KindSMA,
		" RSI ":      KindRSI,
		"BB":         KindBollinger,
		"BBANDS":     KindBollinger,
		"bollinger":  KindBollinger,
		"ST":         KindSuperTrend,
		"supertrend": KindSuperTrend,
		"ADX":        KindDMI,
		"macd":       KindMACD,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseKind(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseKind("VWAP"); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("ParseKind(VWAP): got %v, want ErrInvalidSpec", err)
	}
}

func TestNewSpec_RejectsBadParams(t *testing.T) {
	cases := []struct {
		typ    string
		params map[string]float64
	}{
		{"SMA", map[string]float64{"period": 0}},
		{"SMA", map[string]float64{"period": -3}},
		{"RSI", map[string]float64{"oversold": 80, "overbought": 20}},
		{"MACD", map[string]float64{"fast": 26, "slow": 12}},
		{"BOLLINGER", map[string]float64{"stddev": -1}},
		{"SUPERTREND", map[string]float64{"multiplier": 0}},
	}
	for _, tc := range cases {
		if _, err := NewSpec(tc.typ, tc.params); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("NewSpec(%s, %v): got %v, want ErrInvalidSpec", tc.typ, tc.params, err)
		}
	}
}

func TestNewSpec_DefaultsValidate(t *testing.T) {
	for _, typ := range []string{"SMA", "EMA", "RSI", "MACD", "BOLLINGER", "SUPERTREND", "DMI"} {
		if _, err := NewSpec(typ, nil); err != nil {
			t.Errorf("NewSpec(%s) with defaults: %v", typ, err)
		}
	}
}

func TestParseList(t *testing.T) {
	specs, err := ParseList("RSI:14, MACD:12:26:9 ,bollinger")
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("ParseList: got %d specs, want 3", len(specs))
	}
	if specs[0].Kind != KindRSI || specs[0].Params["period"] != 14 {
		t.Errorf("spec 0 = %+v, want RSI period 14", specs[0])
	}
	if specs[1].Kind != KindMACD || specs[1].Params["slow"] != 26 {
		t.Errorf("spec 1 = %+v, want MACD slow 26", specs[1])
	}
	if specs[2].Kind != KindBollinger || len(specs[2].Params) != 0 {
		t.Errorf("spec 2 = %+v, want BOLLINGER with defaults", specs[2])
	}
}

func TestParseList_Errors(t *testing.T) {
	for _, in := range []string{
		"",
		" , ",
		"VWAP",
		"SMA:abc",
		"SMA:5:9", // SMA takes a single param
		"RSI:0",
	} {
		if _, err := ParseList(in); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("ParseList(%q): got %v, want ErrInvalidSpec", in, err)
		}
	}
}

func TestValuesAt_SkipsWarmupCells(t *testing.T) {
	f, err := Apply(series(10, 11, 12, 13, 14), mustParse(t, "SMA:3"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if vals := f.ValuesAt(1); len(vals) != 0 {
		t.Errorf("ValuesAt inside warm-up = %v, want empty", vals)
	}
	vals := f.ValuesAt(4)
	if got, ok := vals["SMA_3"]; !ok || got != 13 {
		t.Errorf("ValuesAt(4) = %v, want SMA_3=13", vals)
	}
	if f.ValuesAt(99) != nil {
		t.Error("ValuesAt out of range should be nil")
	}
}

func mustParse(t *testing.T, s string) []Spec {
	t.Helper()
	specs, err := ParseList(s)
	if err != nil {
		t.Fatalf("ParseList(%q): %v", s, err)
	}
	return specs
}
