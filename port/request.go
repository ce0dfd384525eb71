// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package port

import (
	"context"

	"code.hybscloud.com/handoff/ilist"
)

// Op is an operation run on a worker goroutine.
type Op func(ctx context.Context) (int, error)

// Callback receives a completed request on the owner goroutine.
// The request is destroyed when the callback returns.
type Callback func(r *Request)

// Request is one submitted operation and, once run, its result.
type Request struct {
	ilist.Link[Request]

	op   Op
	done Callback

	// N and Err are the results of the last attempt.
	N   int
	Err error

	// Attempts counts resubmissions after would-block results.
	Attempts int
}

// Destroy drops the request's references so they do not outlive it.
func (r *Request) Destroy() {
	r.op = nil
	r.done = nil
	r.Err = nil
}
