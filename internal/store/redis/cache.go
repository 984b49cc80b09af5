// Package redis provides a Redis-backed kline cache so multiple server
// instances share fetched bar windows instead of each hitting the upstream
// API. Entries expire on a TTL; Redis being down degrades to cache misses.
package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"signal-systemv1/internal/model"
)

// KlineCache implements marketdata.BarCache over Redis.
type KlineCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewKlineCache creates a cache writing entries with the given TTL.
func NewKlineCache(rdb *goredis.Client, ttl time.Duration) *KlineCache {
	return &KlineCache{rdb: rdb, ttl: ttl}
}

// Get reads a cached bar window. Any Redis or decode error is a miss.
func (c *KlineCache) Get(ctx context.Context, key string) ([]model.Bar, bool) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			log.Printf("[redis] cache get %s: %v", key, err)
		}
		return nil, false
	}
	var bars []model.Bar
	if err := json.Unmarshal(data, &bars); err != nil {
		log.Printf("[redis] cache decode %s: %v", key, err)
		return nil, false
	}
	return bars, true
}

// Set writes a bar window with the configured TTL. Write failures are
// logged and dropped — the cache is best effort.
func (c *KlineCache) Set(ctx context.Context, key string, bars []model.Bar) {
	data, err := json.Marshal(bars)
	if err != nil {
		log.Printf("[redis] cache encode %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("[redis] cache set %s: %v", key, err)
	}
}
