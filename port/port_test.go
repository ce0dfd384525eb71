// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package port_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/handoff"
	"code.hybscloud.com/handoff/internal/goid"
	"code.hybscloud.com/handoff/port"
)

func open(t *testing.T, cfg *port.Config) *port.Port {
	t.Helper()
	p, err := port.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// drainAll waits until every submitted request has completed.
func drainAll(t *testing.T, p *port.Port) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for p.InFlight() > 0 {
		if _, err := p.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v (in flight %d)", err, p.InFlight())
		}
	}
}

func TestSubmitWaitDeliversAll(t *testing.T) {
	const producers, perProducer = 8, 200
	p := open(t, port.NewConfig().Workers(4))
	owner := goid.Current()

	seen := make(map[int]int, producers*perProducer)
	var g errgroup.Group
	for id := range producers {
		g.Go(func() error {
			for i := range perProducer {
				v := id*perProducer + i
				err := p.Submit(func(context.Context) (int, error) {
					return v, nil
				}, func(r *port.Request) {
					if goid.Current() != owner {
						t.Errorf("callback for %d ran off the owner goroutine", v)
					}
					seen[r.N]++
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	drainAll(t, p)

	require.Len(t, seen, producers*perProducer)
	for v, n := range seen {
		if n != 1 {
			t.Fatalf("value %d delivered %d times", v, n)
		}
	}
}

func TestRetryWouldBlock(t *testing.T) {
	p := open(t, port.NewConfig().Workers(2).MaxRetries(3))

	var calls atomix.Int32
	var got *port.Request
	var attempts int
	var result error
	require.NoError(t, p.Submit(func(context.Context) (int, error) {
		if calls.Add(1) <= 2 {
			return 0, handoff.ErrWouldBlock
		}
		return 11, nil
	}, func(r *port.Request) {
		got = r
		attempts = r.Attempts
		result = r.Err
	}))
	drainAll(t, p)

	require.NotNil(t, got)
	require.Equal(t, int32(3), calls.Load())
	require.Equal(t, 2, attempts)
	require.NoError(t, result)
}

func TestRetryExhausted(t *testing.T) {
	p := open(t, port.NewConfig().Workers(1).MaxRetries(2))

	var calls atomix.Int32
	var attempts int
	var result error
	require.NoError(t, p.Submit(func(context.Context) (int, error) {
		calls.Add(1)
		return 0, handoff.ErrWouldBlock
	}, func(r *port.Request) {
		attempts = r.Attempts
		result = r.Err
	}))
	drainAll(t, p)

	require.Equal(t, int32(3), calls.Load())
	require.Equal(t, 2, attempts)
	require.True(t, handoff.IsWouldBlock(result))
}

func TestPollEmpty(t *testing.T) {
	p := open(t, port.NewConfig().Workers(1))
	n, err := p.Poll()
	require.Zero(t, n)
	require.True(t, errors.Is(err, handoff.ErrWouldBlock))
}

func TestPollDelivers(t *testing.T) {
	p := open(t, port.NewConfig().Workers(1))
	done := 0
	require.NoError(t, p.Submit(func(context.Context) (int, error) { return 1, nil },
		func(*port.Request) { done++ }))

	backoff := time.Millisecond
	deadline := time.Now().Add(5 * time.Second)
	for done == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Poll never delivered the completion")
		}
		if _, err := p.Poll(); err != nil && !handoff.IsWouldBlock(err) {
			t.Fatalf("Poll: %v", err)
		}
		time.Sleep(backoff)
	}
	require.Zero(t, p.InFlight())
}

func TestMemoryLimit(t *testing.T) {
	size := int64(unsafe.Sizeof(port.Request{}))
	p := open(t, port.NewConfig().Workers(2).MemoryLimit(size))

	release := make(chan struct{})
	require.NoError(t, p.Submit(func(context.Context) (int, error) {
		<-release
		return 0, nil
	}, nil))

	err := p.Submit(func(context.Context) (int, error) { return 0, nil }, nil)
	require.True(t, errors.Is(err, handoff.ErrOutOfMemory))
	require.Equal(t, int64(1), p.InFlight())

	close(release)
	drainAll(t, p)
	require.NoError(t, p.Submit(func(context.Context) (int, error) { return 0, nil }, nil))
	drainAll(t, p)
}

func TestNonblockingOverload(t *testing.T) {
	p := open(t, port.NewConfig().Workers(1).Nonblocking())

	release := make(chan struct{})
	require.NoError(t, p.Submit(func(context.Context) (int, error) {
		<-release
		return 0, nil
	}, nil))

	err := p.Submit(func(context.Context) (int, error) { return 0, nil }, nil)
	require.True(t, handoff.IsWouldBlock(err))
	require.Equal(t, int64(1), p.InFlight())

	close(release)
	drainAll(t, p)
}

func TestWaitContextDone(t *testing.T) {
	p := open(t, port.NewConfig().Workers(1))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	n, err := p.Wait(ctx)
	require.Zero(t, n)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestOpPanicCompletesWithError(t *testing.T) {
	p := open(t, port.NewConfig().Workers(1))
	var result error
	require.NoError(t, p.Submit(func(context.Context) (int, error) {
		panic("boom")
	}, func(r *port.Request) { result = r.Err }))
	drainAll(t, p)
	require.ErrorContains(t, result, "boom")
}

func TestCloseDeliversRemaining(t *testing.T) {
	p, err := port.Open(port.NewConfig().Workers(2))
	require.NoError(t, err)

	done := 0
	for range 10 {
		require.NoError(t, p.Submit(func(context.Context) (int, error) { return 0, nil },
			func(*port.Request) { done++ }))
	}
	require.NoError(t, p.Close())
	require.Equal(t, 10, done)
	require.Zero(t, p.InFlight())

	err = p.Submit(func(context.Context) (int, error) { return 0, nil }, nil)
	require.True(t, errors.Is(err, handoff.ErrClosed))
	require.True(t, errors.Is(p.Close(), handoff.ErrClosed))
}

func TestCloseCancelsOps(t *testing.T) {
	p, err := port.Open(port.NewConfig().Workers(1))
	require.NoError(t, err)

	var result error
	require.NoError(t, p.Submit(func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}, func(r *port.Request) { result = r.Err }))

	require.NoError(t, p.Close())
	require.True(t, errors.Is(result, context.Canceled))
}

func TestRun(t *testing.T) {
	p := open(t, port.NewConfig().Workers(2))
	done := 0
	for range 5 {
		require.NoError(t, p.Submit(func(context.Context) (int, error) { return 0, nil },
			func(*port.Request) { done++ }))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := p.Run(ctx)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.Equal(t, 5, done)
}

func TestConfigValidation(t *testing.T) {
	require.Panics(t, func() { port.NewConfig().Workers(0) })
	require.Panics(t, func() { port.NewConfig().MaxRetries(-1) })
	require.Panics(t, func() { port.NewConfig().MaxPending(-1) })
	require.Panics(t, func() { port.NewConfig().MemoryLimit(-1) })
}
