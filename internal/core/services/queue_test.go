package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameQueue_SerialisesSameName(t *testing.T) {
	q := newNameQueue()
	ctx := context.Background()

	var active, maxActive atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := q.acquire(ctx, "app")
			require.NoError(t, err)
			defer release()

			n := active.Add(1)
			for {
				m := maxActive.Load()
				if n <= m || maxActive.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive.Load())
	assert.Equal(t, 0, q.size())
}

func TestNameQueue_DifferentNamesDoNotBlock(t *testing.T) {
	q := newNameQueue()
	ctx := context.Background()

	releaseA, err := q.acquire(ctx, "a")
	require.NoError(t, err)
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB, err := q.acquire(ctx, "b")
		assert.NoError(t, err)
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquire for a different name blocked")
	}
}

func TestNameQueue_CancelledWaiter(t *testing.T) {
	q := newNameQueue()

	release, err := q.acquire(context.Background(), "app")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = q.acquire(ctx, "app")
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 1, q.size())
	release()
	assert.Equal(t, 0, q.size())
}

func TestNameQueue_ReleaseIsIdempotent(t *testing.T) {
	q := newNameQueue()
	ctx := context.Background()

	release, err := q.acquire(ctx, "app")
	require.NoError(t, err)
	release()
	release()

	release, err = q.acquire(ctx, "app")
	require.NoError(t, err)
	release()
	assert.Equal(t, 0, q.size())
}
