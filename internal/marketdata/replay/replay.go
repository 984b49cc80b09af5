// Package replay serves historical bars from the local SQLite store through
// the standard provider interface, so backtests and live sessions can run
// against recorded data instead of the exchange.
package replay

import (
	"context"
	"fmt"

	"signal-systemv1/internal/marketdata"
	"signal-systemv1/internal/model"
	sqlitestore "signal-systemv1/internal/store/sqlite"
)

// Provider reads bar windows from a SQLite store. It satisfies
// marketdata.Provider.
type Provider struct {
	store *sqlitestore.Store
}

// NewProvider creates a replay provider over store.
func NewProvider(store *sqlitestore.Store) *Provider {
	return &Provider{store: store}
}

// Klines returns the newest limit bars recorded for the symbol and interval,
// in ascending timestamp order.
func (p *Provider) Klines(ctx context.Context, symbol, interval string, limit int) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars, err := p.store.ReadBars(symbol, interval, limit)
	if err != nil {
		return nil, fmt.Errorf("replay %s %s: %w", symbol, interval, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s %s not in store", marketdata.ErrDataUnavailable, symbol, interval)
	}
	return bars, nil
}
