package mocks

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockCacher stands in for the view cache. Unset functions behave like an
// empty cache: reads miss with redis.Nil and writes are dropped.
type MockCacher struct {
	GetFunc   func(ctx context.Context, key string, dest any) error
	SetFunc   func(ctx context.Context, key string, value any, expiration time.Duration) error
	CloseFunc func() error
}

func (m *MockCacher) Get(ctx context.Context, key string, dest any) error {
	if m.GetFunc == nil {
		return redis.Nil
	}
	return m.GetFunc(ctx, key, dest)
}

func (m *MockCacher) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}

func (m *MockCacher) Close() error {
	if m.CloseFunc == nil {
		return nil
	}
	return m.CloseFunc()
}
