// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package query is the console's resource-fetch layer: a Valkey-backed
// read-through cache over the platform API with single-flight de-duplication.
// Reads declare a cache key and a fetch function; concurrent identical reads
// share one upstream request, results are served from cache until their TTL
// expires or a mutation invalidates them. Writes never touch cached values
// directly — a successful mutation invalidates its declared keys (see
// invalidation.go) and the next read refetches.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	// keyPrefix namespaces query cache entries in Valkey.
	keyPrefix = "query:"

	// DefaultTTL is how long a fetched resource stays fresh. Short on
	// purpose: the console is the only writer it knows about, but other
	// actors mutate platform data too.
	DefaultTTL = 30 * time.Second
)

// Key identifies a cached resource collection or object.
type Key string

// Cache keys for every resource the console reads.
const (
	KeyUsers           Key = "users"
	KeyDomains         Key = "domains"
	KeyWebsites        Key = "websites"
	KeyLeads           Key = "leads"
	KeyPrompts         Key = "prompts"
	KeyStorageOverview Key = "storage-overview"
	KeyStorageProvider Key = "storage-provider"
	KeyStats           Key = "stats"
)

// StorageDetailKey returns the parameterized key for one website's storage
// drill-down.
func StorageDetailKey(websiteID string) Key {
	return Key("storage-detail:" + websiteID)
}

// Cache is the shared read-through cache. Safe for concurrent use.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewCache creates a query cache backed by the given Valkey client.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Invalidate drops the given keys so the next read refetches from the
// platform API. Missing keys are a no-op.
func (c *Cache) Invalidate(ctx context.Context, keys ...Key) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + string(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		slog.Warn("query cache invalidate error", "keys", keys, "error", err)
		return
	}
	slog.Debug("query cache invalidated", "keys", keys)
}

// InvalidateAll drops every cached resource by scanning the prefix.
// Used on logout so a new session starts from fresh reads.
func (c *Cache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("query cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("query cache bulk delete error", "error", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
}

// getRaw reads a cached entry. A Valkey error counts as a miss — the cache
// degrades to pass-through rather than failing reads.
func (c *Cache) getRaw(ctx context.Context, key Key) ([]byte, bool) {
	val, err := c.client.Get(ctx, keyPrefix+string(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("query cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// setRaw stores a fetched entry with the configured TTL.
func (c *Cache) setRaw(ctx context.Context, key Key, payload []byte) {
	if err := c.client.Set(ctx, keyPrefix+string(key), payload, c.ttl).Err(); err != nil {
		slog.Warn("query cache set error", "key", key, "error", err)
	}
}

// Fetch returns the cached value for key, or runs fetch to populate it.
// Concurrent calls for the same key share a single in-flight fetch; a
// failed fetch caches nothing, so the next read tries again.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	if payload, ok := c.getRaw(ctx, key); ok {
		var cached T
		if err := json.Unmarshal(payload, &cached); err == nil {
			slog.Debug("query cache hit", "key", key)
			return cached, nil
		}
		// Undecodable entry (schema drift after a deploy) — drop and refetch.
		c.Invalidate(ctx, key)
	}

	result, err, _ := c.group.Do(string(key), func() (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("query cache marshal %s: %w", key, err)
		}
		c.setRaw(ctx, key, payload)
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("query cache: unexpected type for key %s", key)
	}
	return value, nil
}
