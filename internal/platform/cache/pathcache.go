package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "dashboard:cache:"

// RevalidateHook runs after a path has been invalidated.
type RevalidateHook func(ctx context.Context, path string)

// PathCache caches rendered data per logical page path. Each path carries a
// version counter in Redis; Revalidate bumps it so every key built from the
// old version is ignored and expires on its own.
type PathCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group

	mu    sync.RWMutex
	hooks []RevalidateHook
}

// NewPathCache instantiates the cache. A nil client disables caching and
// every Fetch goes straight to its loader.
func NewPathCache(client *redis.Client, ttl time.Duration) *PathCache {
	return &PathCache{client: client, ttl: ttl}
}

// OnRevalidate registers a hook invoked after each successful Revalidate.
func (c *PathCache) OnRevalidate(hook RevalidateHook) {
	if c == nil || hook == nil {
		return
	}
	c.mu.Lock()
	c.hooks = append(c.hooks, hook)
	c.mu.Unlock()
}

// Version returns the current version of path, 0 when never revalidated.
func (c *PathCache) Version(ctx context.Context, path string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(path)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

// Fetch loads the cached value for path/variant into dest or populates it
// using loader. Concurrent misses on the same key share one loader call.
// Redis failures degrade to calling the loader directly.
func (c *PathCache) Fetch(ctx context.Context, path, variant string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		return loadInto(ctx, dest, loader)
	}

	ver, err := c.Version(ctx, path)
	if err != nil {
		return loadInto(ctx, dest, loader)
	}
	key := dataKey(path, variant, ver)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return loadInto(ctx, dest, loader)
	}

	// The fill outlives any single caller; each waiter still honors its own ctx.
	fillCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		value, err := loader(fillCtx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		_ = c.client.Set(fillCtx, key, raw, c.ttl).Err()
		return raw, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.([]byte), dest)
	}
}

// Revalidate discards every cached rendering of path. Hooks run only when
// the bump succeeded.
func (c *PathCache) Revalidate(ctx context.Context, path string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Incr(ctx, versionKey(path)).Err(); err != nil {
		return fmt.Errorf("cache: revalidate %s: %w", path, err)
	}
	c.mu.RLock()
	hooks := append([]RevalidateHook(nil), c.hooks...)
	c.mu.RUnlock()
	for _, hook := range hooks {
		hook(ctx, path)
	}
	return nil
}

func loadInto(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func versionKey(path string) string {
	return keyPrefix + "version:" + normalise(path)
}

func dataKey(path, variant string, ver int64) string {
	parts := []string{keyPrefix + "data", normalise(path), fmt.Sprintf("v%d", ver)}
	if variant != "" {
		parts = append(parts, variant)
	}
	return strings.Join(parts, ":")
}

func normalise(path string) string {
	path = strings.TrimSpace(path)
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}
