package marketdata

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"signal-systemv1/internal/model"
)

// BarCache stores fetched bar windows keyed by request. Implemented by the
// in-memory MemoryCache and by the Redis-backed store.
type BarCache interface {
	Get(ctx context.Context, key string) ([]model.Bar, bool)
	Set(ctx context.Context, key string, bars []model.Bar)
}

// CacheKey builds the cache key for a kline request.
func CacheKey(symbol, interval string, limit int) string {
	return fmt.Sprintf("klines:%s:%s:%d", symbol, interval, limit)
}

type memEntry struct {
	bars     []model.Bar
	storedAt time.Time
}

// MemoryCache is a bounded, TTL-expiring in-process bar cache. When full,
// the oldest entry is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memEntry
	ttl        time.Duration
	maxEntries int
}

// NewMemoryCache creates a cache holding up to maxEntries windows for ttl.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]memEntry, maxEntries),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]model.Bar, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.bars, true
}

func (c *MemoryCache) Set(_ context.Context, key string, bars []model.Bar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		oldestKey := ""
		var oldest time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.storedAt.Before(oldest) {
				oldestKey, oldest = k, e.storedAt
			}
		}
		delete(c.entries, oldestKey)
	}
	c.entries[key] = memEntry{bars: bars, storedAt: time.Now()}
}

// CachingProvider wraps a Provider with a BarCache so repeated requests for
// the same window within the TTL hit the cache instead of the upstream API.
type CachingProvider struct {
	inner Provider
	cache BarCache
}

// NewCachingProvider wraps inner with cache.
func NewCachingProvider(inner Provider, cache BarCache) *CachingProvider {
	return &CachingProvider{inner: inner, cache: cache}
}

func (p *CachingProvider) Klines(ctx context.Context, symbol, interval string, limit int) ([]model.Bar, error) {
	key := CacheKey(symbol, interval, limit)
	if bars, ok := p.cache.Get(ctx, key); ok {
		return bars, nil
	}
	bars, err := p.inner.Klines(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}
	p.cache.Set(ctx, key, bars)
	return bars, nil
}

// Prefetcher keeps a snapshot of bar windows for a fixed symbol list,
// refreshed on an explicit schedule. It backs the market-data endpoint so
// dashboard reads never block on the upstream API.
type Prefetcher struct {
	provider Provider
	symbols  []string
	interval string
	limit    int
	refresh  time.Duration

	mu   sync.RWMutex
	data map[string][]model.Bar
}

// NewPrefetcher creates a prefetcher for the given symbols.
func NewPrefetcher(provider Provider, symbols []string, interval string, limit int, refresh time.Duration) *Prefetcher {
	return &Prefetcher{
		provider: provider,
		symbols:  symbols,
		interval: interval,
		limit:    limit,
		refresh:  refresh,
		data:     make(map[string][]model.Bar, len(symbols)),
	}
}

// Run fetches all symbols immediately, then refreshes on the configured
// schedule until ctx is cancelled.
func (p *Prefetcher) Run(ctx context.Context) {
	p.refreshAll(ctx)
	ticker := time.NewTicker(p.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refreshAll(ctx)
		}
	}
}

func (p *Prefetcher) refreshAll(ctx context.Context) {
	for _, sym := range p.symbols {
		bars, err := p.provider.Klines(ctx, sym, p.interval, p.limit)
		if err != nil {
			log.Printf("[prefetch] %s: %v", sym, err)
			continue
		}
		p.mu.Lock()
		p.data[sym] = bars
		p.mu.Unlock()
	}
}

// Snapshot returns the current per-symbol bar windows.
func (p *Prefetcher) Snapshot() map[string][]model.Bar {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cp := make(map[string][]model.Bar, len(p.data))
	for k, v := range p.data {
		cp[k] = v
	}
	return cp
}
