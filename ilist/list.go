// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ilist

import (
	"fmt"
	"iter"

	"code.hybscloud.com/handoff/internal/diag"
	"code.hybscloud.com/handoff/owned"
)

// List is an owning, singly-linked intrusive list with head and tail.
//
// The list owns every node linked into it. Push consumes an owned handle;
// Pop returns one. Nodes left in the list when Clear runs are dropped.
//
// The zero value is an empty list ready to use. List is not safe for
// concurrent use.
type List[T any, N Node[T]] struct {
	head *T
	tail *T
}

// FromNode returns a list holding the single node.
func FromNode[T any, N Node[T]](node owned.Ptr[T]) List[T, N] {
	var l List[T, N]
	l.PushBack(node)
	return l
}

// FromChain returns a list over an existing chain of linked nodes.
//
// head must reach tail by following Next, every node on the way must be
// linked, and tail's successor must be nil. Both are nil for the empty
// list. The returned list takes ownership of the chain.
func FromChain[T any, N Node[T]](head, tail *T) List[T, N] {
	return List[T, N]{head: head, tail: tail}
}

// TakeChain empties l and returns its raw chain. The caller takes
// ownership of the nodes, which stay linked.
func (l *List[T, N]) TakeChain() (head, tail *T) {
	head, tail = l.head, l.tail
	l.head, l.tail = nil, nil
	return head, tail
}

// IsEmpty reports whether l has no nodes.
func (l *List[T, N]) IsEmpty() bool {
	return l.head == nil
}

// Front returns the first node without removing it, or nil.
func (l *List[T, N]) Front() *T {
	return l.head
}

// Back returns the last node without removing it, or nil.
func (l *List[T, N]) Back() *T {
	return l.tail
}

// Len counts the nodes. O(n).
func (l *List[T, N]) Len() (n int) {
	for p := l.head; p != nil; p = N(p).ListLink().Next(Relaxed) {
		n++
	}
	return n
}

// PushFront inserts node before the head. O(1).
func (l *List[T, N]) PushFront(node owned.Ptr[T]) {
	p := adopt[T, N](&node)
	N(p).ListLink().SetNext(l.head, Relaxed)
	if l.tail == nil {
		l.tail = p
	}
	l.head = p
}

// PushBack inserts node after the tail. O(1).
func (l *List[T, N]) PushBack(node owned.Ptr[T]) {
	p := adopt[T, N](&node)
	l.linkBack(p)
}

// PopFront removes the head and returns ownership of it. O(1).
func (l *List[T, N]) PopFront() (owned.Ptr[T], bool) {
	p := l.head
	if p == nil {
		return owned.Ptr[T]{}, false
	}
	l.head = N(p).ListLink().PopNext(Relaxed)
	if l.head == nil {
		l.tail = nil
	}
	return release[T, N](p), true
}

// PopBack removes the tail and returns ownership of it.
// O(n): the predecessor of the tail is found by scanning from the head.
func (l *List[T, N]) PopBack() (owned.Ptr[T], bool) {
	p := l.tail
	if p == nil {
		return owned.Ptr[T]{}, false
	}
	if l.head == p {
		return l.PopFront()
	}
	prev := l.head
	for {
		next := N(prev).ListLink().Next(Relaxed)
		if next == p {
			break
		}
		prev = next
	}
	N(prev).ListLink().UpdateNext(nil, Relaxed)
	N(p).ListLink().PopNext(Relaxed)
	l.tail = prev
	return release[T, N](p), true
}

// Append moves every node of other to the back of l, leaving other empty.
// O(1).
func (l *List[T, N]) Append(other *List[T, N]) {
	if other.head == nil {
		return
	}
	if l.tail == nil {
		l.head = other.head
	} else {
		N(l.tail).ListLink().UpdateNext(other.head, Relaxed)
	}
	l.tail = other.tail
	other.head, other.tail = nil, nil
}

// Prepend moves every node of other to the front of l, leaving other
// empty. O(1).
func (l *List[T, N]) Prepend(other *List[T, N]) {
	if other.head == nil {
		return
	}
	if l.head == nil {
		l.tail = other.tail
	} else {
		N(other.tail).ListLink().UpdateNext(l.head, Relaxed)
	}
	l.head = other.head
	other.head, other.tail = nil, nil
}

// Swap exchanges the contents of l and other. O(1).
func (l *List[T, N]) Swap(other *List[T, N]) {
	l.head, other.head = other.head, l.head
	l.tail, other.tail = other.tail, l.tail
}

// All returns an iterator over the nodes from head to tail.
// Mutating l while iterating invalidates the iterator.
func (l *List[T, N]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for p := l.head; p != nil; p = N(p).ListLink().Next(Relaxed) {
			if !yield(p) {
				return
			}
		}
	}
}

// Retain keeps the nodes for which keep returns true and returns the
// others as a new list. Relative order is preserved in both lists and
// every node is visited exactly once.
//
// keep may modify the node's own fields but not its link.
func (l *List[T, N]) Retain(keep func(*T) bool) List[T, N] {
	var removed List[T, N]
	var prev *T // last kept node
	p := l.head
	for p != nil {
		link := N(p).ListLink()
		next := link.Next(Relaxed)
		if keep(p) {
			prev = p
			p = next
			continue
		}
		if prev == nil {
			l.head = next
		} else {
			N(prev).ListLink().UpdateNext(next, Relaxed)
		}
		if l.tail == p {
			l.tail = prev
		}
		link.PopNext(Relaxed)
		removed.linkBack(p)
		p = next
	}
	return removed
}

// Clear drops every node, head first. Clear on an empty list is a no-op.
func (l *List[T, N]) Clear() {
	for {
		p, ok := l.PopFront()
		if !ok {
			return
		}
		p.Drop()
	}
}

func (l *List[T, N]) linkBack(p *T) {
	N(p).ListLink().SetNext(nil, Relaxed)
	if l.tail == nil {
		l.head = p
	} else {
		N(l.tail).ListLink().UpdateNext(p, Relaxed)
	}
	l.tail = p
}

// adopt takes ownership of the node behind an owned handle.
func adopt[T any, N Node[T]](node *owned.Ptr[T]) *T {
	if node.IsNil() {
		panic("ilist: push of null handle")
	}
	if !node.MemoryIsOwned() {
		diag.Fatal(diag.PushBorrowed, fmt.Sprintf("ilist: push of borrowed %T", node.Get()))
	}
	p, a := node.Surrender()
	N(p).ListLink().alloc = a
	return p
}

// release hands ownership of an unlinked node back to the caller.
func release[T any, N Node[T]](p *T) owned.Ptr[T] {
	link := N(p).ListLink()
	a := link.alloc
	link.alloc = nil
	return owned.Claim(p, a)
}
