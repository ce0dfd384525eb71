// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package port is a completion port: operations run on a pool of worker
// goroutines and their completions are handed back to one owner goroutine
// through a [handoff.Queue].
//
// The owner opens the port and is the only goroutine that may Poll, Wait,
// Run or Close it. Any goroutine may Submit.
//
//	p, err := port.Open(port.NewConfig().Workers(8))
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	p.Submit(func(ctx context.Context) (int, error) {
//	    return conn.Read(buf)
//	}, func(r *port.Request) {
//	    // runs on the owner goroutine
//	    handle(buf[:r.N], r.Err)
//	})
//
//	for p.InFlight() > 0 {
//	    if _, err := p.Wait(ctx); err != nil {
//	        return err
//	    }
//	}
//
// An operation that returns an error satisfying [handoff.IsWouldBlock] is
// resubmitted up to the configured retry limit before its callback runs.
package port
