package ratelimiter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAdmitsUpToMax(t *testing.T) {
	l := New(60, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tk, err := l.Acquire(ctx, "test")
		require.NoError(t, err)
		tk.Observe(200)
	}

	snap := l.Snapshot()
	assert.Equal(t, 3, snap.InUse)
}

func TestAcquireBlocksBeyondWindow(t *testing.T) {
	l := New(1, 2) // 1-second window, 2 max

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		tk, err := l.Acquire(ctx, "test")
		require.NoError(t, err)
		tk.Observe(200)
	}

	start := time.Now()
	tk, err := l.Acquire(ctx, "test")
	elapsed := time.Since(start)
	require.NoError(t, err)
	tk.Observe(200)

	assert.GreaterOrEqual(t, elapsed, 500*time.Millisecond)
}

func TestAcquireRespectsContextCancellation(t *testing.T) {
	l := New(60, 1)
	ctx := context.Background()

	tk, err := l.Acquire(ctx, "test")
	require.NoError(t, err)
	defer tk.Observe(200)

	cctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = l.Acquire(cctx, "test")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestObserve429DoublesAndCapsPenalty(t *testing.T) {
	l := New(60, 100, WithPenaltyCap(2*time.Second))
	ctx := context.Background()

	tk, err := l.Acquire(ctx, "test")
	require.NoError(t, err)
	tk.Observe(429)

	snap := l.Snapshot()
	assert.Greater(t, snap.ActivePenaltyMs, int64(0))
	assert.LessOrEqual(t, snap.ActivePenaltyMs, int64(2000))
	assert.NotNil(t, snap.Last429At)
}

func TestObserveSuccessDecaysPenaltyToZero(t *testing.T) {
	l := New(60, 100)
	ctx := context.Background()

	tk1, err := l.Acquire(ctx, "test")
	require.NoError(t, err)
	tk1.Observe(429)

	tk2, err := l.Acquire(ctx, "test")
	require.NoError(t, err)
	tk2.Observe(200)

	snap := l.Snapshot()
	assert.Equal(t, int64(0), snap.ActivePenaltyMs)
}

func TestCancelledWaiterDoesNotWedgeQueue(t *testing.T) {
	l := New(1, 1) // 1-second window so the single slot frees within the test's wait
	ctx := context.Background()

	tk, err := l.Acquire(ctx, "test")
	require.NoError(t, err)

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Acquire(cctx, "test")
	assert.Error(t, err)

	tk.Observe(200) // clears any penalty; the slot itself frees once the 1s window passes

	// A fresh, non-cancelled acquire must still be able to proceed once a
	// slot exists; it must not be permanently blocked behind the
	// cancelled ticket's queue position.
	done := make(chan struct{})
	go func() {
		tk3, err := l.Acquire(context.Background(), "test")
		if err == nil {
			tk3.Observe(200)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("acquire wedged behind a cancelled waiter")
	}
}

func TestConcurrentAcquireNeverExceedsMaxInWindow(t *testing.T) {
	l := New(1, 5)
	ctx := context.Background()

	var wg sync.WaitGroup
	var maxObserved int64
	var current int64

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tk, err := l.Acquire(ctx, "test")
			if err != nil {
				return
			}
			n := atomic.AddInt64(&current, 1)
			for {
				m := atomic.LoadInt64(&maxObserved)
				if n <= m || atomic.CompareAndSwapInt64(&maxObserved, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&current, -1)
			tk.Observe(200)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&maxObserved), int64(5))
}
