package live

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"signal-systemv1/internal/indicator"
	"signal-systemv1/internal/marketdata"
	"signal-systemv1/internal/metrics"
	"signal-systemv1/internal/model"
	"signal-systemv1/internal/notification"
	"signal-systemv1/internal/ringbuf"
)

// Config holds the live session timing knobs. Zero values fall back to the
// production defaults; tests shrink them.
type Config struct {
	PollInterval time.Duration // sleep between poll iterations (default 1s)
	PingInterval time.Duration // keep-alive cadence (default 30s)
	MinSignalGap time.Duration // minimum gap between emitted signals (default 60s)
	FetchLimit   int           // bars per poll fetch (default 100)
	PriceEpsilon float64       // relative close change that triggers recompute (default 1e-4)
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.MinSignalGap <= 0 {
		c.MinSignalGap = 60 * time.Second
	}
	if c.FetchLimit <= 0 {
		c.FetchLimit = 100
	}
	if c.PriceEpsilon <= 0 {
		c.PriceEpsilon = 1e-4
	}
	return c
}

// Manager owns the registry of active live sessions. The registry is the
// only state shared across sessions; add/remove/lookup are serialized.
type Manager struct {
	cfg      Config
	provider marketdata.Provider
	metrics  *metrics.Metrics      // optional, nil disables instrumentation
	recent   *ringbuf.Ring         // optional, records emitted trade events
	notifier notification.Notifier // optional, best-effort trade alerts

	mu       sync.Mutex
	sessions map[string]*Session
	seq      int64
}

// NewManager creates a session manager fetching from provider. m may be nil.
func NewManager(provider marketdata.Provider, cfg Config, m *metrics.Metrics) *Manager {
	return &Manager{
		cfg:      cfg.withDefaults(),
		provider: provider,
		metrics:  m,
		sessions: make(map[string]*Session),
	}
}

// SetRecentRing attaches a ring recording every emitted trade event.
// Call before Open.
func (m *Manager) SetRecentRing(r *ringbuf.Ring) { m.recent = r }

// SetNotifier attaches a best-effort alert backend. Call before Open.
func (m *Manager) SetNotifier(n notification.Notifier) { m.notifier = n }

// RecentEvents returns the buffered trade events, oldest first.
func (m *Manager) RecentEvents() []model.TradeEvent {
	if m.recent == nil {
		return nil
	}
	return m.recent.Snapshot()
}

// Open registers a new session for conn and starts its polling and
// keep-alive tasks. The session lives until Close, a transport failure, or
// ctx cancellation.
func (m *Manager) Open(ctx context.Context, conn Conn, symbol, interval string, specs []indicator.Spec) (*Session, error) {
	if symbol == "" {
		return nil, fmt.Errorf("live: symbol is required")
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("live: %w: no indicators requested", indicator.ErrInvalidSpec)
	}

	sctx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.seq++
	s := &Session{
		ID:       fmt.Sprintf("session-%d", m.seq),
		Symbol:   symbol,
		Interval: interval,
		specs:    specs,
		conn:     conn,
		provider: m.provider,
		mgr:      m,
		cfg:      m.cfg,
		tm:       NewTradeManager(),
		ctx:      sctx,
		cancel:   cancel,
		pollDone: make(chan struct{}),
		pingDone: make(chan struct{}),
	}
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.ActiveSessions.Inc()
	}
	log.Printf("[live] %s opened: symbol=%s interval=%s indicators=%d (%d active)",
		s.ID, symbol, interval, len(specs), count)

	go s.pollLoop()
	go s.keepAlive()
	return s, nil
}

// Close tears down one session: removes it from the registry and cancels
// exactly its own polling and keep-alive tasks. Idempotent — safe to call
// from the read loop, a failed send, and explicit teardown at once.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return
	}
	s.stop()
	if m.metrics != nil {
		m.metrics.ActiveSessions.Dec()
	}
	log.Printf("[live] %s closed (%d active)", id, count)
}

// CloseAll tears down every registered session. Used on server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.Close(id)
	}
}

// Count returns the number of registered sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Lookup returns a registered session by ID.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}
