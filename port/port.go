// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package port

import (
	"context"
	"errors"
	"fmt"

	"github.com/panjf2000/ants/v2"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/handoff"
	"code.hybscloud.com/handoff/ilist"
	"code.hybscloud.com/handoff/internal/diag"
	"code.hybscloud.com/handoff/owned"
)

type requests = ilist.List[Request, *Request]

// Port runs operations on worker goroutines and delivers their
// completions to its owner goroutine.
type Port struct {
	q      *handoff.Queue[Request, *Request]
	parker *handoff.Parker
	pool   *ants.PoolWithFunc
	alloc  owned.Allocator
	cfg    Config

	ctx    context.Context
	cancel context.CancelFunc

	inflight atomix.Int64
	closed   atomix.Bool

	ready requests // owner only
}

// Open creates a port owned by the calling goroutine.
func Open(cfg *Config) (*Port, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	p := &Port{
		parker: handoff.NewParker(),
		alloc:  owned.Heap,
		cfg:    *cfg,
	}
	if cfg.memoryLimit > 0 {
		p.alloc = owned.NewBudget(cfg.memoryLimit)
	}
	p.q = handoff.Build[Request](handoff.New().Parker(p.parker))
	p.ctx, p.cancel = context.WithCancel(context.Background())

	pool, err := ants.NewPoolWithFunc(cfg.workers, func(arg any) {
		p.execute(arg.(*Request))
	},
		ants.WithNonblocking(cfg.nonblocking),
		ants.WithMaxBlockingTasks(cfg.maxPending),
		ants.WithPanicHandler(func(v any) {
			diag.L().Err().
				Str("panic", fmt.Sprint(v)).
				Log("port: worker panic")
		}),
	)
	if err != nil {
		p.cancel()
		return nil, fmt.Errorf("port: worker pool: %w", err)
	}
	p.pool = pool

	diag.L().Debug().
		Int("workers", cfg.workers).
		Int("max_retries", cfg.maxRetries).
		Int64("memory_limit", cfg.memoryLimit).
		Log("port: open")
	return p, nil
}

// Submit runs op on a worker and later passes the request to done on the
// owner goroutine (multiple goroutines safe). done may be nil.
//
// Returns ErrOutOfMemory if the memory limit is reached, ErrWouldBlock if
// the pool cannot accept more work, or ErrClosed after Close.
func (p *Port) Submit(op Op, done Callback) error {
	if op == nil {
		panic("port: nil op")
	}
	if p.closed.LoadAcquire() {
		return handoff.ErrClosed
	}
	node, err := owned.TryNewIn(p.alloc, Request{op: op, done: done})
	if err != nil {
		return err
	}
	p.inflight.Add(1)
	if err := p.dispatch(&node); err != nil {
		p.inflight.Add(-1)
		return err
	}
	return nil
}

// dispatch hands the request to the pool. On failure the request is
// dropped and the mapped error is returned.
func (p *Port) dispatch(node *owned.Ptr[Request]) error {
	r, a := node.Surrender()
	err := p.pool.Invoke(r)
	if err == nil {
		return nil
	}
	back := owned.Claim(r, a)
	back.Drop()
	return poolError(err)
}

// poolError maps worker pool errors onto the module's errors.
func poolError(err error) error {
	switch {
	case errors.Is(err, ants.ErrPoolOverload):
		return handoff.ErrWouldBlock
	case errors.Is(err, ants.ErrPoolClosed):
		return handoff.ErrClosed
	default:
		return err
	}
}

// execute runs on a worker goroutine.
func (p *Port) execute(r *Request) {
	func() {
		defer func() {
			if v := recover(); v != nil {
				r.N, r.Err = 0, fmt.Errorf("port: op panicked: %v", v)
			}
		}()
		r.N, r.Err = r.op(p.ctx)
	}()

	var batch requests
	batch.PushBack(owned.Claim(r, p.alloc))
	p.q.Submit(&batch)
}

// Poll delivers the completions that are ready without blocking (owner
// only). Returns ErrWouldBlock if there were none.
func (p *Port) Poll() (int, error) {
	if p.q.Park(noWait, &p.ready) == 0 {
		return 0, handoff.ErrWouldBlock
	}
	return p.complete(), nil
}

func noWait(*requests) int { return 0 }

// Wait blocks until at least one completion is ready or ctx is done, then
// delivers the ready completions (owner only). Returns the number of
// callbacks run, which may be zero if only retries were drained.
func (p *Port) Wait(ctx context.Context) (int, error) {
	var werr error
	p.q.Park(func(dst *requests) int {
		if dst.IsEmpty() {
			werr = p.parker.Park(ctx)
		}
		return 0
	}, &p.ready)
	n := p.complete()
	if n == 0 && werr != nil {
		return 0, werr
	}
	return n, nil
}

// Run delivers completions until ctx is done (owner only).
func (p *Port) Run(ctx context.Context) error {
	for {
		if _, err := p.Wait(ctx); err != nil {
			return err
		}
	}
}

// complete resubmits retryable requests, then runs the callbacks of the
// rest and drops them.
func (p *Port) complete() int {
	closing := p.closed.LoadAcquire()
	retry := p.ready.Retain(func(r *Request) bool {
		if closing || r.Attempts >= p.cfg.maxRetries || !handoff.IsWouldBlock(r.Err) {
			return true
		}
		r.Attempts++
		return false
	})
	for {
		node, ok := retry.PopFront()
		if !ok {
			break
		}
		r, a := node.Surrender()
		diag.L().Debug().
			Int("attempt", r.Attempts).
			Log("port: retry")
		if err := p.pool.Invoke(r); err != nil {
			// The request completes with the dispatch error.
			r.Err = poolError(err)
			p.ready.PushBack(owned.Claim(r, a))
		}
	}

	n := 0
	for {
		node, ok := p.ready.PopFront()
		if !ok {
			break
		}
		r := node.Get()
		if r.done != nil {
			r.done(r)
		}
		node.Drop()
		p.inflight.Add(-1)
		n++
	}
	return n
}

// InFlight returns the number of submitted requests whose callbacks have
// not run yet.
func (p *Port) InFlight() int64 {
	return p.inflight.Load()
}

// Close stops accepting work, waits for running operations and delivers
// every remaining completion without retrying (owner only).
func (p *Port) Close() error {
	if p.closed.LoadAcquire() {
		return handoff.ErrClosed
	}
	p.closed.StoreRelease(true)
	p.cancel()
	err := p.pool.ReleaseTimeout(p.cfg.closeTimeout)
	for p.InFlight() > 0 {
		if _, perr := p.Poll(); perr != nil {
			break
		}
	}
	if n := p.InFlight(); n > 0 {
		diag.L().Warning().
			Int64("in_flight", n).
			Log("port: closed with operations still running")
	}
	return err
}
