package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"

	"signal-systemv1/internal/model"
)

const fetchTimeout = 10 * time.Second

// BinanceProvider fetches klines from the Binance spot REST API.
// Public kline endpoints work without credentials.
type BinanceProvider struct {
	client  *binance.Client
	limiter *rate.Limiter
}

// NewBinanceProvider creates a Binance-backed provider. Requests are rate
// limited to stay inside Binance's request weight budget.
func NewBinanceProvider(apiKey, apiSecret string) *BinanceProvider {
	return &BinanceProvider{
		client:  binance.NewClient(apiKey, apiSecret),
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// Klines fetches up to limit bars for symbol at the given interval.
func (p *BinanceProvider) Klines(ctx context.Context, symbol, interval string, limit int) ([]model.Bar, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	klines, err := p.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance klines %s/%s: %w", symbol, interval, err)
	}

	bars := make([]model.Bar, 0, len(klines))
	for _, k := range klines {
		bar, err := parseKline(k)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s/%s: %w", symbol, interval, err)
		}
		bars = append(bars, bar)
	}
	return validate(symbol, bars)
}

func parseKline(k *binance.Kline) (model.Bar, error) {
	var (
		bar model.Bar
		err error
	)
	bar.Time = time.UnixMilli(k.OpenTime).UTC()
	if bar.Open, err = strconv.ParseFloat(k.Open, 64); err != nil {
		return bar, fmt.Errorf("parse open %q: %w", k.Open, err)
	}
	if bar.High, err = strconv.ParseFloat(k.High, 64); err != nil {
		return bar, fmt.Errorf("parse high %q: %w", k.High, err)
	}
	if bar.Low, err = strconv.ParseFloat(k.Low, 64); err != nil {
		return bar, fmt.Errorf("parse low %q: %w", k.Low, err)
	}
	if bar.Close, err = strconv.ParseFloat(k.Close, 64); err != nil {
		return bar, fmt.Errorf("parse close %q: %w", k.Close, err)
	}
	if bar.Volume, err = strconv.ParseFloat(k.Volume, 64); err != nil {
		return bar, fmt.Errorf("parse volume %q: %w", k.Volume, err)
	}
	return bar, nil
}
