// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package handoff provides a lock-free multi-producer single-consumer
// handoff queue for intrusive nodes, with a park protocol that lets the
// consumer sleep without losing wake-ups.
//
// Nodes embed an [ilist.Link] and travel between goroutines as
// [owned.Ptr] handles inside [ilist.List] batches. The queue never
// allocates: a producer splices its whole batch in with one CAS, and the
// consumer takes everything pending with one swap.
//
// # Quick Start
//
//	type Request struct {
//	    ilist.Link[Request]
//	    Payload []byte
//	}
//
//	p := handoff.NewParker()
//	q := handoff.Build[Request](handoff.New().Parker(p))
//
// Producers (any goroutine):
//
//	var batch ilist.List[Request, *Request]
//	batch.PushBack(owned.New(Request{Payload: data}))
//	q.Submit(&batch) // batch is empty afterwards
//
// Consumer (the goroutine that built q):
//
//	var ready ilist.List[Request, *Request]
//	for {
//	    q.Park(func(dst *ilist.List[Request, *Request]) int {
//	        if dst.IsEmpty() {
//	            p.Park(ctx)
//	        }
//	        return 0
//	    }, &ready)
//	    for {
//	        r, ok := ready.PopFront()
//	        if !ok {
//	            break
//	        }
//	        handle(r.Get())
//	        r.Drop()
//	    }
//	}
//
// # Park Protocol
//
// The queue state is a single atomic pointer with three meanings: empty,
// parked, or the newest pending node. ParkBegin swaps in the parked
// marker and returns what was pending. From then on, the first Append
// observes the marker and returns true; that producer must wake the
// consumer. Submit does this through the registered callbacks. ParkEnd
// swaps the state back to empty and returns everything appended in
// between.
//
// A consumer that blocks between ParkBegin and ParkEnd only when its
// destination list is empty can never miss a wake-up: any append after
// ParkBegin either reports the parked state to its producer or is
// collected by ParkEnd.
//
// # Ordering
//
// Each batch is published atomically and arrives in list order. Batches
// from one producer arrive in submission order. Batches from different
// producers arrive in the order their CAS succeeded.
//
// # Ownership
//
// The goroutine that creates a Queue is its consumer. ParkBegin, ParkEnd
// and Park verify the caller and terminate the process on mismatch. A
// second ParkBegin without ParkEnd, and ParkEnd without ParkBegin, are
// also fatal. Diagnostics are written as structured JSON to stderr before
// exit; see [SetLogOutput].
//
// # Error Handling
//
// Queue operations do not fail. Errors appear in the [port] package and
// in allocation through an [owned.Budget]:
//
//	handoff.IsWouldBlock(err)  // worker pool at capacity, nothing completed
//	handoff.IsSemantic(err)    // control flow signal
//	handoff.IsNonFailure(err)  // nil or ErrWouldBlock
//
// # Race Detection
//
// Node links and queue state use sync/atomic pointers, so the race
// detector observes every handoff. Long stress tests shrink under
// [RaceEnabled].
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic flags with explicit memory
// ordering, [code.hybscloud.com/spin] for CAS retry pauses, and
// [github.com/joeycumines/logiface] with [github.com/joeycumines/stumpy]
// for structured diagnostics.
package handoff
