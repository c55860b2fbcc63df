package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type CacheEntry struct {
	Value  []byte
	Expiry time.Time
}

// TrackingCache keeps JSON-encoded entries in memory and counts calls. A
// miss returns redis.Nil like the real cache.
type TrackingCache struct {
	mu       sync.Mutex
	GetCalls int
	SetCalls int
	Hits     int
	data     map[string]CacheEntry
	setDone  chan string
}

func NewTrackingCache() *TrackingCache {
	return &TrackingCache{
		data:    make(map[string]CacheEntry),
		setDone: make(chan string, 64),
	}
}

func (c *TrackingCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalls++
	entry, ok := c.data[key]
	if !ok || time.Now().After(entry.Expiry) {
		return redis.Nil
	}
	c.Hits++
	return json.Unmarshal(entry.Value, dest)
}

func (c *TrackingCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.SetCalls++
	c.data[key] = CacheEntry{Value: b, Expiry: time.Now().Add(exp)}
	c.mu.Unlock()
	c.setDone <- key
	return nil
}

// WaitSet blocks until a Set completes or timeout passes and returns the key.
func (c *TrackingCache) WaitSet(timeout time.Duration) (string, bool) {
	select {
	case k := <-c.setDone:
		return k, true
	case <-time.After(timeout):
		return "", false
	}
}

func (c *TrackingCache) Stats() (gets, sets, hits int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.GetCalls, c.SetCalls, c.Hits
}

func (c *TrackingCache) Close() error {
	return nil
}
