// Package cache is a read-through Redis cache for search results. Identical
// concurrent misses are collapsed through singleflight so the backing server
// sees one query instead of a stampede.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/mygramdb/mygram-go/pkg/mygram"
)

const keyPrefix = "search:"

type QueryCache struct {
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

// New connects to Redis and verifies the connection with a PING.
func New(addr string, ttl time.Duration) (*QueryCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &QueryCache{rdb: rdb, ttl: ttl}, nil
}

// Key builds a deterministic cache key from the table, the compiled form of
// the expression, and any request options that change the result page. The
// compiled form is used because distinct inputs like "a  b" and "a b"
// compile to the same query.
func Key(table, compiled string, opts ...string) string {
	raw := strings.Join(append([]string{table, compiled}, opts...), "|")
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, sum[:16])
}

// GetOrCompute returns the cached result for key, or runs compute and caches
// what it returns. A nil receiver disables caching and calls compute
// directly. Redis failures degrade to compute; a broken cache must not take
// search down with it.
func (c *QueryCache) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (*mygram.SearchResult, error)) (*mygram.SearchResult, bool, error) {
	if c == nil {
		result, err := compute(ctx)
		return result, false, err
	}

	if result, ok := c.lookup(ctx, key); ok {
		return result, true, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another collapsed caller may have filled the key already.
		if result, ok := c.lookup(ctx, key); ok {
			return result, nil
		}
		result, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*mygram.SearchResult), false, nil
}

func (c *QueryCache) lookup(ctx context.Context, key string) (*mygram.SearchResult, bool) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}

	var result mygram.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		slog.Warn("cache unmarshal failed", "key", key, "error", err)
		return nil, false
	}
	return &result, true
}

func (c *QueryCache) store(ctx context.Context, key string, result *mygram.SearchResult) {
	data, err := json.Marshal(result)
	if err != nil {
		slog.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}

func (c *QueryCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
