package live

import (
	"context"
	"errors"
	"log"
	"math"
	"strconv"
	"sync"
	"time"

	"signal-systemv1/internal/indicator"
	"signal-systemv1/internal/marketdata"
	"signal-systemv1/internal/model"
	"signal-systemv1/internal/notification"
	"signal-systemv1/internal/signal"
)

// Conn is the transport handle a session emits to. One JSON object per Send
// call; a failed Send or Ping signals disconnect.
type Conn interface {
	Send(v interface{}) error
	Ping() error
	Close() error
}

// Session is one live signal session bound to a single connection. It owns
// a polling task and a keep-alive task; both are cancelled together on
// teardown and never outlive the session.
type Session struct {
	ID       string
	Symbol   string
	Interval string

	specs    []indicator.Spec
	conn     Conn
	provider marketdata.Provider
	mgr      *Manager
	cfg      Config
	tm       *TradeManager

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once

	// Polling state, touched only by the poll goroutine.
	primed    bool
	lastClose float64
	lastEmit  time.Time

	pollDone chan struct{}
	pingDone chan struct{}
}

// Done is closed when the session has been torn down.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

// TradeManager exposes the session's trade state machine.
func (s *Session) TradeManager() *TradeManager { return s.tm }

// stop cancels both tasks and closes the connection. Safe to call multiple
// times.
func (s *Session) stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.conn.Close()
	})
}

// pollLoop fetches the market window, recomputes the signal pipeline when
// price moved, and forwards fresh signals to the trade manager. A fixed
// sleep separates iterations regardless of whether work occurred.
func (s *Session) pollLoop() {
	defer close(s.pollDone)
	for {
		s.iterate()
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(s.cfg.PollInterval):
		}
	}
}

func (s *Session) iterate() {
	bars, err := s.provider.Klines(s.ctx, s.Symbol, s.Interval, s.cfg.FetchLimit)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// DataUnavailable and transient provider errors are retryable:
		// log and wait for the next poll.
		log.Printf("[live] %s %s: fetch: %v", s.ID, s.Symbol, err)
		if s.mgr.metrics != nil {
			s.mgr.metrics.FetchErrorsTotal.Inc()
		}
		return
	}

	latest := bars[len(bars)-1]
	if s.primed && relChange(latest.Close, s.lastClose) <= s.cfg.PriceEpsilon {
		return
	}

	start := time.Now()
	frame, err := indicator.Apply(bars, s.specs)
	if err != nil {
		log.Printf("[live] %s %s: indicators: %v", s.ID, s.Symbol, err)
		if s.mgr.metrics != nil {
			s.mgr.metrics.IndicatorSkips.Inc()
		}
		return
	}
	if s.mgr.metrics != nil {
		s.mgr.metrics.ComputeDur.Observe(time.Since(start).Seconds())
	}
	combined, err := signal.Combine(frame)
	if err != nil {
		log.Printf("[live] %s %s: combine: %v", s.ID, s.Symbol, err)
		return
	}

	s.primed = true
	s.lastClose = latest.Close

	dir := signal.Latest(combined)
	if dir == 0 {
		return
	}
	if !s.lastEmit.IsZero() && time.Since(s.lastEmit) < s.cfg.MinSignalGap {
		return
	}
	s.lastEmit = time.Now()

	sig := model.Signal{
		Time:      latest.Time,
		Direction: dir,
		Detail:    frame.ValuesAt(frame.Len() - 1),
	}
	if s.mgr.metrics != nil {
		s.mgr.metrics.SignalsTotal.WithLabelValues(strconv.Itoa(dir)).Inc()
	}

	ev := s.tm.Process(sig, latest.Close)
	if ev == nil {
		return
	}
	if err := s.conn.Send(ev); err != nil {
		log.Printf("[live] %s: send failed, closing session: %v", s.ID, err)
		s.mgr.Close(s.ID)
		return
	}
	if s.mgr.metrics != nil {
		s.mgr.metrics.TradeEventsTotal.Inc()
	}
	if s.mgr.recent != nil {
		s.mgr.recent.Push(*ev)
	}
	if s.mgr.notifier != nil {
		alert := notification.Alert{Symbol: s.Symbol, Interval: s.Interval, Event: *ev}
		go func() {
			if err := s.mgr.notifier.Send(context.Background(), alert); err != nil {
				log.Printf("[live] %s: notify: %v", s.ID, err)
			}
		}()
	}
}

// keepAlive pings the connection on a fixed schedule; a failed ping tears
// the session down.
func (s *Session) keepAlive() {
	defer close(s.pingDone)
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.conn.Ping(); err != nil {
				log.Printf("[live] %s: ping failed, closing session: %v", s.ID, err)
				s.mgr.Close(s.ID)
				return
			}
		}
	}
}

// relChange is the relative price change between two closes.
func relChange(cur, prev float64) float64 {
	if prev == 0 {
		return math.Inf(1)
	}
	return math.Abs(cur-prev) / math.Abs(prev)
}
