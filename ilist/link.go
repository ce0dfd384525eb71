// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ilist

import (
	"sync/atomic"

	assert "github.com/arl/assertgo"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/handoff/owned"
)

// Order selects the memory ordering used for the linked flag.
//
// Single-threaded list code uses Relaxed. Code that publishes nodes to
// other goroutines uses AcqRel.
type Order uint8

const (
	Relaxed Order = iota
	AcqRel
)

// Link is the list membership state embedded in a node type.
//
// The zero value is unlinked with a nil next. A node is linked iff it is
// a member of exactly one list or queue chain.
//
// The next pointer is stored with sync/atomic, which is sequentially
// consistent regardless of Order; Order applies to the linked flag.
type Link[T any] struct {
	next   atomic.Pointer[T]
	linked atomix.Bool
	alloc  owned.Allocator // allocator of the surrendered owning handle
}

// Node is satisfied by *T when T embeds Link[T].
//
//	type Request struct {
//	    ilist.Link[Request]
//	    ...
//	}
//
//	var l ilist.List[Request, *Request]
type Node[T any] interface {
	*T
	ListLink() *Link[T]
}

// ListLink returns l. It is promoted to types embedding Link.
func (l *Link[T]) ListLink() *Link[T] {
	return l
}

// IsLinked reports whether the node is currently in a list.
func (l *Link[T]) IsLinked(o Order) bool {
	if o == Relaxed {
		return l.linked.LoadRelaxed()
	}
	return l.linked.LoadAcquire()
}

// SetNext links an unlinked node with the given successor.
func (l *Link[T]) SetNext(next *T, o Order) {
	assert.True(!l.linked.LoadRelaxed())
	l.next.Store(next)
	if o == Relaxed {
		l.linked.StoreRelaxed(true)
	} else {
		l.linked.StoreRelease(true)
	}
}

// UpdateNext replaces the successor of a linked node.
// The store is sequentially consistent; o is accepted for symmetry with
// the other primitives.
func (l *Link[T]) UpdateNext(next *T, o Order) {
	assert.True(l.linked.LoadRelaxed())
	l.next.Store(next)
}

// Next returns the successor, or nil.
// The load is sequentially consistent; o does not weaken it.
func (l *Link[T]) Next(o Order) *T {
	return l.next.Load()
}

// PopNext clears the link and returns the previous successor.
func (l *Link[T]) PopNext(o Order) *T {
	next := l.next.Swap(nil)
	if o == Relaxed {
		l.linked.StoreRelaxed(false)
	} else {
		l.linked.StoreRelease(false)
	}
	return next
}
