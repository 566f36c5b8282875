package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	pool := NewPool(2)

	var (
		running atomic.Int32
		peak    atomic.Int32
		wg      sync.WaitGroup
	)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pool.Submit(context.Background(), func(ctx context.Context) error {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				running.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	pool.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPool_SubmitReturnsTaskError(t *testing.T) {
	pool := NewPool(1)
	wantErr := errors.New("boom")

	err := pool.Submit(context.Background(), func(ctx context.Context) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestPool_SubmitHonorsContextWhileQueued(t *testing.T) {
	pool := NewPool(1)

	release := make(chan struct{})
	done := pool.Go(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	})

	// Give the first task time to occupy the only slot.
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pool.Submit(ctx, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, <-done)
	pool.Wait()
}

func TestPool_GoDeliversResult(t *testing.T) {
	pool := NewPool(4)

	done := pool.Go(context.Background(), func(ctx context.Context) error {
		return nil
	})

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("task never finished")
	}
}
