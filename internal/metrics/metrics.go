// Package metrics exposes Prometheus metrics for the signal server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the signal pipeline and live
// sessions.
type Metrics struct {
	ActiveSessions   prometheus.Gauge
	TradeEventsTotal prometheus.Counter
	SignalsTotal     *prometheus.CounterVec // labels: direction
	BacktestsTotal   prometheus.Counter
	BacktestErrors   prometheus.Counter
	FetchErrorsTotal prometheus.Counter
	IndicatorSkips   prometheus.Counter
	ComputeDur       prometheus.Histogram

	registry *prometheus.Registry
}

// New registers and returns all metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signalserver_active_sessions",
			Help: "Currently registered live signal sessions",
		}),
		TradeEventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalserver_trade_events_total",
			Help: "Trade events pushed to live clients",
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalserver_signals_total",
			Help: "Non-zero combined signals forwarded to trade managers",
		}, []string{"direction"}),
		BacktestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalserver_backtests_total",
			Help: "Backtest requests completed",
		}),
		BacktestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalserver_backtest_errors_total",
			Help: "Backtest requests that failed",
		}),
		FetchErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalserver_fetch_errors_total",
			Help: "Market data fetch failures",
		}),
		IndicatorSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalserver_indicator_skips_total",
			Help: "Indicators skipped for insufficient data",
		}),
		ComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signalserver_indicator_compute_duration_seconds",
			Help:    "Indicator pipeline compute latency per window",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.ActiveSessions,
		m.TradeEventsTotal,
		m.SignalsTotal,
		m.BacktestsTotal,
		m.BacktestErrors,
		m.FetchErrorsTotal,
		m.IndicatorSkips,
		m.ComputeDur,
	)
	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
