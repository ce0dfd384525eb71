// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"fmt"
	"sync/atomic"

	"code.hybscloud.com/spin"

	"code.hybscloud.com/handoff/ilist"
	"code.hybscloud.com/handoff/internal/diag"
	"code.hybscloud.com/handoff/internal/goid"
)

// Queue is a lock-free multi-producer single-consumer handoff queue of
// intrusive nodes.
//
// Any goroutine may Append. Only the goroutine that created the queue may
// ParkBegin, ParkEnd or Park; calling them elsewhere terminates the
// process.
//
// The queue state is one atomic word:
//
//	nil     empty, consumer not parked
//	parked  consumer parked, wake it on the next append
//	node    newest pending node; Next leads to older nodes
//
// parked is a sentinel node owned by the queue and never linked.
type Queue[T any, N ilist.Node[T]] struct {
	_      pad
	tail   atomic.Pointer[T]
	_      padPtr
	parked *T
	owner  uint64
	unpark func()

	parking bool // between ParkBegin and ParkEnd, owner only
}

// currentID is replaced by tests inside this package.
var currentID = goid.Current

// NewQueue creates a queue owned by the calling goroutine.
// unpark is invoked by Submit when it wakes a parked consumer; it may be
// nil.
//
// Failing to identify the calling goroutine is fatal.
func NewQueue[T any, N ilist.Node[T]](unpark func()) *Queue[T, N] {
	owner := currentID()
	if owner == 0 {
		diag.Fatal(diag.UnknownGoroutine, "handoff: cannot identify the creating goroutine")
	}
	return &Queue[T, N]{
		parked: new(T),
		owner:  owner,
		unpark: unpark,
	}
}

// Append splices every node of nodes onto the queue, leaving nodes empty
// (multiple producers safe).
//
// The batch is published atomically: no other producer's nodes are
// interleaved with it, and the consumer receives it in list order.
// Returns true iff the consumer was parked when the batch was published;
// the caller is then responsible for waking it.
func (q *Queue[T, N]) Append(nodes *ilist.List[T, N]) bool {
	head, _ := nodes.TakeChain()
	if head == nil {
		return false
	}
	// Reverse the private batch so the shared chain stays newest-first.
	top, bottom := reverse[T, N](head), head

	sw := spin.Wait{}
	for {
		old := q.tail.Load()
		next := old
		if old == q.parked {
			next = nil
		}
		N(bottom).ListLink().UpdateNext(next, ilist.AcqRel)
		if q.tail.CompareAndSwap(old, top) {
			return old == q.parked
		}
		sw.Once()
	}
}

// Submit appends nodes and, if the consumer was parked, invokes the
// unpark callback. It reports whether the callback was invoked.
func (q *Queue[T, N]) Submit(nodes *ilist.List[T, N]) bool {
	if !q.Append(nodes) {
		return false
	}
	if q.unpark != nil {
		q.unpark()
	}
	return true
}

// ParkBegin marks the consumer parked and moves every pending node to the
// back of dst in append order (consumer only).
// Returns the number of nodes moved.
func (q *Queue[T, N]) ParkBegin(dst *ilist.List[T, N]) int {
	q.checkOwner("ParkBegin")
	if q.parking {
		diag.Fatal(diag.DoublePark, "handoff: ParkBegin on a parked queue")
	}
	q.parking = true
	return q.drain(q.tail.Swap(q.parked), dst)
}

// ParkEnd clears the parked mark and moves every node appended since
// ParkBegin to the back of dst (consumer only).
// Returns the number of nodes moved.
func (q *Queue[T, N]) ParkEnd(dst *ilist.List[T, N]) int {
	q.checkOwner("ParkEnd")
	if !q.parking {
		diag.Fatal(diag.UnpairedParkEnd, "handoff: ParkEnd without ParkBegin")
	}
	q.parking = false
	old := q.tail.Swap(nil)
	if old == q.parked {
		return 0
	}
	return q.drain(old, dst)
}

// Park runs ParkBegin, then work, then ParkEnd, and returns the sum of the
// three counts (consumer only).
//
// work typically blocks only if dst is still empty. Because the queue is
// marked parked before work runs, a node appended while work is deciding
// to block either wakes it or is collected by ParkEnd.
func (q *Queue[T, N]) Park(work func(dst *ilist.List[T, N]) int, dst *ilist.List[T, N]) int {
	n := q.ParkBegin(dst)
	n += work(dst)
	n += q.ParkEnd(dst)
	return n
}

// IsOwner reports whether the calling goroutine owns q.
func (q *Queue[T, N]) IsOwner() bool {
	return currentID() == q.owner
}

func (q *Queue[T, N]) checkOwner(op string) {
	if id := currentID(); id != q.owner {
		diag.Fatal(diag.WrongGoroutine, fmt.Sprintf("handoff: %s from goroutine %d, queue owned by goroutine %d", op, id, q.owner))
	}
}

// drain reverses the newest-first chain at top into append order and
// appends it to dst.
func (q *Queue[T, N]) drain(top *T, dst *ilist.List[T, N]) int {
	if top == nil {
		return 0
	}
	n := 0
	var head *T
	for p := top; p != nil; {
		link := N(p).ListLink()
		next := link.Next(ilist.AcqRel)
		link.UpdateNext(head, ilist.Relaxed)
		head = p
		p = next
		n++
	}
	chain := ilist.FromChain[T, N](head, top)
	dst.Append(&chain)
	return n
}

// reverse reverses the chain starting at head in place and returns the new
// head. The old head becomes the last node.
func reverse[T any, N ilist.Node[T]](head *T) *T {
	var prev *T
	for p := head; p != nil; {
		link := N(p).ListLink()
		next := link.Next(ilist.Relaxed)
		link.UpdateNext(prev, ilist.Relaxed)
		prev = p
		p = next
	}
	return prev
}
