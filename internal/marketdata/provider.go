// Package marketdata provides OHLCV bar providers: a Binance-backed fetcher,
// a symbol-keyed caching layer, and a scheduled prefetcher.
package marketdata

import (
	"context"
	"errors"
	"fmt"

	"signal-systemv1/internal/model"
)

// ErrDataUnavailable means the provider returned no bars for the request.
// Retryable for live sessions, terminal for one-shot backtests.
var ErrDataUnavailable = errors.New("market data unavailable")

// Provider fetches OHLCV bars for a symbol. Implementations must return
// bars in ascending timestamp order with no duplicate timestamps, and must
// never return an empty series with a nil error.
type Provider interface {
	Klines(ctx context.Context, symbol, interval string, limit int) ([]model.Bar, error)
}

// validate enforces the Provider ordering contract on a fetched series.
func validate(symbol string, bars []model.Bar) ([]model.Bar, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, symbol)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return nil, fmt.Errorf("%s: bars out of order at index %d (%s then %s)",
				symbol, i, bars[i-1].Time, bars[i].Time)
		}
	}
	return bars, nil
}
