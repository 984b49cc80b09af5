package indicator

import (
	"fmt"
	"strconv"
	"strings"
)

// positionalNames maps each kind's colon-separated CLI params to their
// param names, in order.
var positionalNames = map[Kind][]string{
	KindSMA:        {"period"},
	KindEMA:        {"period"},
	KindRSI:        {"period", "overbought", "oversold"},
	KindMACD:       {"fast", "slow", "signal"},
	KindBollinger:  {"period", "stddev"},
	KindSuperTrend: {"period", "multiplier"},
	KindDMI:        {"period"},
}

// ParseList parses a comma-separated indicator list with optional
// colon-separated params, e.g. "RSI:14,MACD:12:26:9,BOLLINGER:20:2".
// Omitted params take the kind's defaults. Unknown kinds or malformed
// params fail with ErrInvalidSpec.
func ParseList(s string) ([]Spec, error) {
	var specs []Spec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		kind, err := ParseKind(fields[0])
		if err != nil {
			return nil, err
		}

		names := positionalNames[kind]
		if len(fields)-1 > len(names) {
			return nil, fmt.Errorf("%w: %s takes at most %d params, got %d",
				ErrInvalidSpec, kind, len(names), len(fields)-1)
		}

		params := make(map[string]float64, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s param %q is not a number", ErrInvalidSpec, kind, f)
			}
			params[names[i]] = v
		}

		sp, err := NewSpec(kind.String(), params)
		if err != nil {
			return nil, err
		}
		specs = append(specs, sp)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: empty indicator list", ErrInvalidSpec)
	}
	return specs, nil
}
