// cmd/backtest runs a one-shot backtest of the indicator/signal pipeline
// over a bar series, fetched live from Binance or replayed from a SQLite
// kline database.
//
// Usage:
//
//	go run ./cmd/backtest --symbol=BTCUSDT --interval=1h --indicators=RSI:14,MACD
//	go run ./cmd/backtest --symbol=BTCUSDT --db=data/klines.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"signal-systemv1/config"
	"signal-systemv1/internal/backtest"
	"signal-systemv1/internal/indicator"
	"signal-systemv1/internal/marketdata"
	"signal-systemv1/internal/marketdata/replay"
	"signal-systemv1/internal/model"
	sqlitestore "signal-systemv1/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	symbol := flag.String("symbol", "BTCUSDT", "Symbol to backtest")
	interval := flag.String("interval", "1h", "Kline interval")
	limit := flag.Int("limit", 500, "Bars to evaluate")
	indicatorCfg := flag.String("indicators", "RSI:14,MACD:12:26:9", "Indicator specs: TYPE[:param...],...")
	dbPath := flag.String("db", "", "Replay bars from this SQLite database instead of fetching")
	balance := flag.Float64("balance", backtest.DefaultInitialBalance, "Initial account balance")
	flag.Parse()

	specs, err := indicator.ParseList(*indicatorCfg)
	if err != nil {
		log.Fatalf("[backtest] %v", err)
	}

	bars, err := loadBars(*symbol, *interval, *limit, *dbPath)
	if err != nil {
		log.Fatalf("[backtest] %v", err)
	}
	log.Printf("[backtest] loaded %d bars for %s/%s", len(bars), *symbol, *interval)

	result, err := backtest.Run(bars, specs, backtest.Config{InitialBalance: *balance})
	if err != nil {
		log.Fatalf("[backtest] %v", err)
	}
	printSummary(result)
}

func loadBars(symbol, interval string, limit int, dbPath string) ([]model.Bar, error) {
	var provider marketdata.Provider
	if dbPath != "" {
		store, err := sqlitestore.Open(dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		provider = replay.NewProvider(store)
	} else {
		cfg := config.Load()
		provider = marketdata.NewBinanceProvider(cfg.BinanceAPIKey, cfg.BinanceAPISecret)
	}
	return provider.Klines(context.Background(), symbol, interval, limit)
}

func printSummary(r *backtest.Result) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║         BACKTEST COMPLETE            ║")
	fmt.Println("╠══════════════════════════════════════╣")
	fmt.Printf("║  Initial balance:  %15.2f   ║\n", r.InitialBalance)
	fmt.Printf("║  Final balance:    %15.2f   ║\n", r.FinalBalance)
	fmt.Printf("║  Total profit:     %14.2f%%   ║\n", r.TotalProfitPct)
	fmt.Printf("║  Trades (won):     %8d (%d)      ║\n", r.TotalTrades, r.WinningTrades)
	fmt.Printf("║  Win rate:         %14.2f%%   ║\n", r.WinRate)
	fmt.Printf("║  Max drawdown:     %14.2f%%   ║\n", r.MaxDrawdown)
	fmt.Printf("║  Buy & hold:       %14.2f%%   ║\n", r.PriceChangePct)
	fmt.Println("╚══════════════════════════════════════╝")

	for _, t := range r.Trades {
		fmt.Printf("  %s → %s  entry=%.4f exit=%.4f pnl=%+.2f (%+.2f%%)\n",
			t.EntryTime.Format("2006-01-02 15:04"), t.ExitTime.Format("2006-01-02 15:04"),
			t.EntryPrice, t.ExitPrice, t.Profit, t.ProfitPct)
	}
}
