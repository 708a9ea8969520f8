// Package ratelimit provides a per-actor fixed-window write throttle.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	DefaultLimit  = 20
	DefaultWindow = time.Minute
)

var ErrLimitExceeded = errors.New("rate limit exceeded")

// Limiter gates write volume per actor. Implementations are created
// once per process and injected into the services that need them.
type Limiter interface {
	Allow(ctx context.Context, actorID string) error
	Limit() int
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a process-local limiter backed by a single mutex and
// a per-actor counter map. Best effort: counters are not shared across
// server instances.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	windows map[string]*window

	now func() time.Time
}

func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if period <= 0 {
		period = DefaultWindow
	}
	return &MemoryLimiter{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Limit() int {
	return l.limit
}

func (l *MemoryLimiter) Allow(_ context.Context, actorID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[actorID]
	if !ok || now.After(w.resetAt) {
		l.windows[actorID] = &window{count: 1, resetAt: now.Add(l.period)}
		return nil
	}
	if w.count >= l.limit {
		// Rejected calls do not consume budget.
		return ErrLimitExceeded
	}
	w.count++
	return nil
}
