package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(limit int, period time.Duration) (*MemoryLimiter, *time.Time) {
	l := NewMemoryLimiter(limit, period)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestMemoryLimiter_AdmitsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(20, time.Minute)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, l.Allow(ctx, "user-1"), "call %d should be admitted", i+1)
	}

	err := l.Allow(ctx, "user-1")
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestMemoryLimiter_RejectionsDoNotConsumeBudget(t *testing.T) {
	l, now := newTestLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(ctx, "user-1"))
	}
	for i := 0; i < 10; i++ {
		require.ErrorIs(t, l.Allow(ctx, "user-1"), ErrLimitExceeded)
	}

	// After the window expires the full budget is available again,
	// untouched by the rejected attempts.
	*now = now.Add(61 * time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(ctx, "user-1"))
	}
	assert.ErrorIs(t, l.Allow(ctx, "user-1"), ErrLimitExceeded)
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	l, now := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "user-1"))
	require.NoError(t, l.Allow(ctx, "user-1"))
	require.ErrorIs(t, l.Allow(ctx, "user-1"), ErrLimitExceeded)

	// One second before expiry the window still holds.
	*now = now.Add(59 * time.Second)
	require.ErrorIs(t, l.Allow(ctx, "user-1"), ErrLimitExceeded)

	// Past expiry a fresh window opens.
	*now = now.Add(2 * time.Second)
	assert.NoError(t, l.Allow(ctx, "user-1"))
}

func TestMemoryLimiter_ActorsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "user-1"))
	require.NoError(t, l.Allow(ctx, "user-1"))
	require.ErrorIs(t, l.Allow(ctx, "user-1"), ErrLimitExceeded)

	// A different actor still has a full budget.
	assert.NoError(t, l.Allow(ctx, "user-2"))
	assert.NoError(t, l.Allow(ctx, "user-2"))
}

func TestMemoryLimiter_ConcurrentCallers(t *testing.T) {
	l := NewMemoryLimiter(20, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	var admitted atomic.Int64
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow(ctx, "user-1") == nil {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 20, admitted.Load(), "exactly the budget is admitted under contention")
}

func TestMemoryLimiter_Defaults(t *testing.T) {
	l := NewMemoryLimiter(0, 0)
	assert.Equal(t, DefaultLimit, l.Limit())
	assert.Equal(t, DefaultWindow, l.period)
}
