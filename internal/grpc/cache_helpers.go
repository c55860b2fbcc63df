package grpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	cacheWriteTimeout = 5 * time.Second
	// jitter spreads expiry over ±jitterFraction of the TTL.
	jitterFraction = 0.1
)

// viewCache is the read-through path shared by the insight views. Keys embed
// the dataset fingerprint, so an entry is valid until it expires and a new
// dataset simply stops hitting the old keys.
type viewCache struct {
	store   Cacher
	group   singleflight.Group
	ttl     time.Duration
	logger  *zap.Logger
	observe func(hit bool)
}

func newViewCache(store Cacher, ttl time.Duration, logger *zap.Logger, observe func(hit bool)) *viewCache {
	if observe == nil {
		observe = func(bool) {}
	}
	return &viewCache{store: store, ttl: ttl, logger: logger.Named("view-cache"), observe: observe}
}

func (c *viewCache) expiry() time.Duration {
	span := int64(float64(c.ttl) * jitterFraction)
	if span <= 0 {
		return c.ttl
	}
	return c.ttl + time.Duration(rand.Int63n(2*span+1)-span)
}

// lookup reports whether key was served from the store into dest. Store
// errors other than a miss are logged and treated as a miss.
func (c *viewCache) lookup(ctx context.Context, key string, dest any) bool {
	err := c.store.Get(ctx, key, dest)
	switch {
	case err == nil:
		c.logger.Debug("view served from cache", zap.String("key", key))
		c.observe(true)
		return true
	case errors.Is(err, redis.Nil):
		c.logger.Debug("view not cached", zap.String("key", key))
	default:
		c.logger.Warn("cache read failed, computing view", zap.String("key", key), zap.Error(err))
	}
	c.observe(false)
	return false
}

// store writes v in the background so the caller is not held up by Redis.
func (c *viewCache) storeAsync(key string, v any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		if err := c.store.Set(ctx, key, v, c.expiry()); err != nil {
			c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}()
}

// readThrough returns the cached view under key or computes it with build.
// Concurrent misses on one key share a single build, which runs detached
// from the first caller's cancellation so the others still get a result.
func readThrough[T any](ctx context.Context, c *viewCache, key string, build func(ctx context.Context) (T, error)) (T, error) {
	var view T
	if c.lookup(ctx, key, &view) {
		return view, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		v, err := build(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.storeAsync(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return view, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			c.logger.Error("view build failed", zap.String("key", key), zap.Error(res.Err))
			return view, res.Err
		}
		v, ok := res.Val.(T)
		if !ok {
			return view, fmt.Errorf("cached view %q has type %T", key, res.Val)
		}
		if res.Shared {
			c.logger.Debug("view build shared", zap.String("key", key))
		}
		return v, nil
	}
}
