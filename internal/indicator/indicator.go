// Package indicator computes technical indicators over OHLCV bar series.
//
// Apply takes a bar series and a list of indicator specs and returns a Frame:
// the series augmented with per-indicator value columns and one discrete
// signal column per indicator (-1 sell, 0 neutral, +1 buy). Computation is
// pure — the caller's bars are never mutated.
package indicator

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for indicator computation. Use errors.Is to classify.
var (
	// ErrInsufficientData means the bar series is shorter than an
	// indicator's minimum warm-up window.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidSpec means an unknown indicator kind or malformed params.
	ErrInvalidSpec = errors.New("invalid indicator spec")
)

// Kind identifies an indicator. The set is closed — unknown kinds are
// rejected at parse time, never at compute time.
type Kind int

const (
	KindSMA Kind = iota
	KindEMA
	KindRSI
	KindMACD
	KindBollinger
	KindSuperTrend
	KindDMI
)

func (k Kind) String() string {
	switch k {
	case KindSMA:
		return "SMA"
	case KindEMA:
		return "EMA"
	case KindRSI:
		return "RSI"
	case KindMACD:
		return "MACD"
	case KindBollinger:
		return "BOLLINGER"
	case KindSuperTrend:
		return "SUPERTREND"
	case KindDMI:
		return "DMI"
	}
	return "UNKNOWN"
}

// ParseKind resolves an indicator type string to its Kind.
// Matching is case-insensitive and tolerates surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SMA":
		return KindSMA, nil
	case "EMA":
		return KindEMA, nil
	case "RSI":
		return KindRSI, nil
	case "MACD":
		return KindMACD, nil
	case "BOLLINGER", "BB", "BBANDS":
		return KindBollinger, nil
	case "SUPERTREND", "ST":
		return KindSuperTrend, nil
	case "DMI", "ADX":
		return KindDMI, nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidSpec, s)
}

// Spec specifies one indicator to compute. Params not present fall back to
// the kind's documented defaults.
type Spec struct {
	Kind   Kind
	Params map[string]float64
}

// NewSpec parses and validates an indicator spec. It fails fast with
// ErrInvalidSpec on unknown kinds or malformed params, so a bad request
// never reaches the compute path.
func NewSpec(typ string, params map[string]float64) (Spec, error) {
	kind, err := ParseKind(typ)
	if err != nil {
		return Spec{}, err
	}
	sp := Spec{Kind: kind, Params: params}
	if _, err := newCompute(sp); err != nil {
		return Spec{}, err
	}
	return sp, nil
}

// param returns the named param or def when absent.
func (s Spec) param(name string, def float64) float64 {
	if v, ok := s.Params[name]; ok {
		return v
	}
	return def
}

// periodParam returns the named param as a positive integer period.
func (s Spec) periodParam(name string, def int) (int, error) {
	v := int(s.param(name, float64(def)))
	if v <= 0 {
		return 0, fmt.Errorf("%w: %s param %q must be a positive period, got %d", ErrInvalidSpec, s.Kind, name, v)
	}
	return v, nil
}

// compute is one configured indicator ready to run over a bar series.
type compute interface {
	// label is the signal column key, e.g. "RSI".
	label() string

	// minBars is the minimum series length needed to produce any value.
	minBars() int

	// apply writes the indicator's value columns and signal column into f.
	// Called only when f.Len() >= minBars().
	apply(f *Frame)
}

// newCompute builds the compute for a spec. The switch is exhaustive over
// Kind — ParseKind guarantees no other value reaches here.
func newCompute(sp Spec) (compute, error) {
	switch sp.Kind {
	case KindSMA:
		return newSMA(sp)
	case KindEMA:
		return newEMA(sp)
	case KindRSI:
		return newRSI(sp)
	case KindMACD:
		return newMACD(sp)
	case KindBollinger:
		return newBollinger(sp)
	case KindSuperTrend:
		return newSuperTrend(sp)
	case KindDMI:
		return newDMI(sp)
	}
	return nil, fmt.Errorf("%w: unhandled kind %d", ErrInvalidSpec, sp.Kind)
}
