// cmd/fetch downloads klines from Binance into the SQLite kline database
// so backtests can replay them offline.
//
// Usage:
//
//	go run ./cmd/fetch --symbol=BTCUSDT --interval=1h --limit=1000 --db=data/klines.db
package main

import (
	"context"
	"flag"
	"log"

	"signal-systemv1/config"
	"signal-systemv1/internal/marketdata"
	sqlitestore "signal-systemv1/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	symbol := flag.String("symbol", "BTCUSDT", "Symbol to download")
	interval := flag.String("interval", "1h", "Kline interval")
	limit := flag.Int("limit", 1000, "Bars to download")
	dbPath := flag.String("db", "data/klines.db", "SQLite database path")
	flag.Parse()

	cfg := config.Load()
	provider := marketdata.NewBinanceProvider(cfg.BinanceAPIKey, cfg.BinanceAPISecret)

	bars, err := provider.Klines(context.Background(), *symbol, *interval, *limit)
	if err != nil {
		log.Fatalf("[fetch] %v", err)
	}

	store, err := sqlitestore.Open(*dbPath)
	if err != nil {
		log.Fatalf("[fetch] %v", err)
	}
	defer store.Close()

	if err := store.InsertBars(*symbol, *interval, bars); err != nil {
		log.Fatalf("[fetch] %v", err)
	}
	log.Printf("[fetch] stored %d bars for %s/%s in %s (%s .. %s)",
		len(bars), *symbol, *interval, *dbPath,
		bars[0].Time.Format("2006-01-02 15:04"), bars[len(bars)-1].Time.Format("2006-01-02 15:04"))
}
