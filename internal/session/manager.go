// Package session keeps one dashboard per client and evicts idle ones.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godilite/collab-dashboard/internal/service"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	DefaultTTL           = 30 * time.Minute
	defaultSweepInterval = time.Minute

	ReasonClosed   = "closed"
	ReasonExpired  = "expired"
	ReasonShutdown = "shutdown"
)

// DashboardFactory creates the dashboard a new session owns.
type DashboardFactory func() (*service.Dashboard, error)

// Observer is told about session lifecycle events.
type Observer interface {
	SessionOpened()
	SessionClosed(reason string)
}

type entry struct {
	mu        sync.Mutex
	dashboard *service.Dashboard
	lastUsed  time.Time
	closed    bool
}

type Option func(*Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager owns the open sessions. Calls on one session are serialized; calls
// on different sessions run concurrently.
type Manager struct {
	factory  DashboardFactory
	logger   *zap.Logger
	ttl      time.Duration
	now      func() time.Time
	observer Observer

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewManager(factory DashboardFactory, logger *zap.Logger, opts ...Option) *Manager {
	if factory == nil {
		panic("factory must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		factory:  factory,
		logger:   logger,
		ttl:      DefaultTTL,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a session and returns its id.
func (m *Manager) Create(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d, err := m.factory()
	if err != nil {
		return "", err
	}
	id := uuid.NewString()

	m.mu.Lock()
	m.sessions[id] = &entry{dashboard: d, lastUsed: m.now()}
	m.mu.Unlock()

	if m.observer != nil {
		m.observer.SessionOpened()
	}
	m.logger.Debug("session created", zap.String("session_id", id))
	return id, nil
}

// With runs fn with exclusive access to the session's dashboard.
func (m *Manager) With(ctx context.Context, id string, fn func(d *service.Dashboard) error) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrSessionNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.lastUsed = m.now()
	return fn(e.dashboard)
}

// Close ends a session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	m.release(id, e, ReasonClosed)
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many.
// A session busy in With is skipped until its call returns.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired map[string]*entry
	for id, e := range m.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			if expired == nil {
				expired = make(map[string]*entry)
			}
			expired[id] = e
			delete(m.sessions, id)
		}
		e.mu.Unlock()
	}
	m.mu.Unlock()

	for id, e := range expired {
		m.release(id, e, ReasonExpired)
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done, then closes every session.
func (m *Manager) Run(ctx context.Context) {
	interval := defaultSweepInterval
	if m.ttl < interval {
		interval = m.ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("expired idle sessions", zap.Int("count", n), zap.Int("open", m.Len()))
			}
		}
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()

	for id, e := range all {
		m.release(id, e, ReasonShutdown)
	}
}

func (m *Manager) release(id string, e *entry, reason string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.dashboard.Close()
	e.mu.Unlock()

	if m.observer != nil {
		m.observer.SessionClosed(reason)
	}
	m.logger.Debug("session closed", zap.String("session_id", id), zap.String("reason", reason))
}
