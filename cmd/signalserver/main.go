// cmd/signalserver serves the indicator/signal pipeline over HTTP:
// live signal sessions on /ws, one-shot backtests on /api/run-backtest,
// a prefetched market snapshot on /api/market-data, and Prometheus
// metrics on /metrics.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"

	"signal-systemv1/config"
	"signal-systemv1/internal/backtest"
	"signal-systemv1/internal/indicator"
	"signal-systemv1/internal/live"
	"signal-systemv1/internal/logger"
	"signal-systemv1/internal/marketdata"
	"signal-systemv1/internal/metrics"
	"signal-systemv1/internal/model"
	"signal-systemv1/internal/notification"
	"signal-systemv1/internal/ringbuf"
	redisstore "signal-systemv1/internal/store/redis"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

const (
	defaultInterval  = "1h"
	defaultSpecs     = "RSI,MACD"
	backtestLimit    = 500
	prefetchRefresh  = 15 * time.Minute
	readDeadline     = 90 * time.Second
	shutdownDeadline = 5 * time.Second

	// recentTradeBuffer bounds the /api/recent-trades feed.
	recentTradeBuffer = 256
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	slogger := logger.Init("signalserver", slog.LevelInfo)

	cfg := config.Load()
	m := metrics.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Provider with a symbol-keyed cache: Redis when configured, in-process
	// otherwise.
	var cache marketdata.BarCache
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("[signalserver] redis connection failed: %v", err)
		}
		slogger.Info("redis kline cache enabled", "addr", cfg.RedisAddr)
		cache = redisstore.NewKlineCache(rdb, cacheTTL)
	} else {
		cache = marketdata.NewMemoryCache(cacheTTL, 256)
	}
	provider := marketdata.NewCachingProvider(
		marketdata.NewBinanceProvider(cfg.BinanceAPIKey, cfg.BinanceAPISecret),
		cache,
	)

	// Startup prefetch for the dashboard market snapshot, refreshed on a
	// schedule.
	prefetcher := marketdata.NewPrefetcher(
		provider, cfg.ParseSymbols(), cfg.PrefetchInterval, cfg.PrefetchLimit, prefetchRefresh)
	go prefetcher.Run(ctx)

	mgr := live.NewManager(provider, live.Config{}, m)
	mgr.SetRecentRing(ringbuf.New(recentTradeBuffer))
	if cfg.WebhookURL != "" {
		slogger.Info("trade webhook enabled", "url", cfg.WebhookURL)
		mgr.SetNotifier(notification.NewWebhookNotifier(cfg.WebhookURL))
	} else {
		mgr.SetNotifier(notification.NewLogNotifier())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handleWS(ctx, mgr))
	mux.HandleFunc("/api/run-backtest", handleBacktest(provider, m))
	mux.HandleFunc("/api/market-data", handleMarketData(prefetcher))
	mux.HandleFunc("/api/recent-trades", handleRecentTrades(mgr))
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slogger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownDeadline)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
		mgr.CloseAll()
		cancel()
	}()

	slogger.Info("listening", "addr", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("[signalserver] serve: %v", err)
	}
}

// handleWS upgrades the connection and opens a live signal session for it.
// Query params: symbol (required), interval, indicators (comma list,
// e.g. "RSI:14,MACD").
func handleWS(ctx context.Context, mgr *live.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			http.Error(w, `{"error":"symbol is required"}`, http.StatusBadRequest)
			return
		}
		interval := r.URL.Query().Get("interval")
		if interval == "" {
			interval = defaultInterval
		}
		specsParam := r.URL.Query().Get("indicators")
		if specsParam == "" {
			specsParam = defaultSpecs
		}
		specs, err := indicator.ParseList(specsParam)
		if err != nil {
			http.Error(w, `{"error":"invalid indicators: `+err.Error()+`"}`, http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[signalserver] ws upgrade: %v", err)
			return
		}

		session, err := mgr.Open(ctx, live.NewWSConn(conn), symbol, interval, specs)
		if err != nil {
			conn.WriteJSON(map[string]string{"error": err.Error()})
			conn.Close()
			return
		}

		// Read loop exists to surface disconnects; clients send nothing we
		// act on. Pongs from our keep-alive pings extend the deadline.
		go func() {
			defer mgr.Close(session.ID)
			conn.SetReadLimit(1024)
			conn.SetReadDeadline(time.Now().Add(readDeadline))
			conn.SetPongHandler(func(string) error {
				conn.SetReadDeadline(time.Now().Add(readDeadline))
				return nil
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

// backtestRequest is the run-backtest request body. One symbol and one
// timeframe per request.
type backtestRequest struct {
	Symbols    []string `json:"symbols"`
	Timeframes []string `json:"timeframes"`
	Indicators []struct {
		Type   string             `json:"type"`
		Params map[string]float64 `json:"params"`
	} `json:"indicators"`
	InitialBalance float64 `json:"initial_balance"`
}

func handleBacktest(provider marketdata.Provider, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}

		var req backtestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		if len(req.Symbols) != 1 || len(req.Timeframes) != 1 {
			writeError(w, http.StatusBadRequest, "exactly one symbol and one timeframe per request")
			return
		}

		specs := make([]indicator.Spec, 0, len(req.Indicators))
		for _, ind := range req.Indicators {
			sp, err := indicator.NewSpec(ind.Type, ind.Params)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			specs = append(specs, sp)
		}
		if len(specs) == 0 {
			writeError(w, http.StatusBadRequest, "at least one indicator is required")
			return
		}

		symbol, timeframe := req.Symbols[0], req.Timeframes[0]
		bars, err := provider.Klines(r.Context(), symbol, timeframe, backtestLimit)
		if err != nil {
			m.FetchErrorsTotal.Inc()
			if errors.Is(err, marketdata.ErrDataUnavailable) {
				writeError(w, http.StatusNotFound, err.Error())
			} else {
				writeError(w, http.StatusBadGateway, err.Error())
			}
			return
		}

		result, err := backtest.Run(bars, specs, backtest.Config{InitialBalance: req.InitialBalance})
		if err != nil {
			m.BacktestErrors.Inc()
			switch {
			case errors.Is(err, indicator.ErrInvalidSpec):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, indicator.ErrInsufficientData),
				errors.Is(err, backtest.ErrNoTradableSignal):
				writeError(w, http.StatusUnprocessableEntity, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		m.BacktestsTotal.Inc()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			symbol: map[string]interface{}{timeframe: result},
		})
	}
}

func handleMarketData(prefetcher *marketdata.Prefetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		snapshot := prefetcher.Snapshot()
		if len(snapshot) == 0 {
			writeError(w, http.StatusNotFound, "market data not available yet")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshot)
	}
}

func handleRecentTrades(mgr *live.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		events := mgr.RecentEvents()
		if events == nil {
			events = []model.TradeEvent{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(events)
	}
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
