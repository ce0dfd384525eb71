// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"context"
	"time"
)

// Parker blocks one consumer goroutine until another goroutine unparks it.
//
// Parker holds at most one wake token. Unpark before Park makes the next
// Park return immediately; several Unparks before a Park collapse into one.
// Spurious returns are allowed, so callers re-check their condition.
type Parker struct {
	token chan struct{}
}

// NewParker creates a Parker with no pending token.
func NewParker() *Parker {
	return &Parker{token: make(chan struct{}, 1)}
}

// Unpark makes the token available (any goroutine, never blocks).
func (p *Parker) Unpark() {
	select {
	case p.token <- struct{}{}:
	default:
	}
}

// Park consumes the token, blocking until it is available or ctx is done.
func (p *Parker) Park(ctx context.Context) error {
	select {
	case <-p.token:
		return nil
	default:
	}
	select {
	case <-p.token:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ParkTimeout consumes the token, blocking for at most d.
// Reports whether the token was consumed.
func (p *Parker) ParkTimeout(d time.Duration) bool {
	select {
	case <-p.token:
		return true
	default:
	}
	if d <= 0 {
		return false
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-p.token:
		return true
	case <-t.C:
		return false
	}
}
