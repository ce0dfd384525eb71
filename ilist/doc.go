// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ilist provides an intrusive singly-linked list.
//
// A node type takes part by embedding [Link]:
//
//	type Event struct {
//	    ilist.Link[Event]
//	    ID int
//	}
//
//	var l ilist.List[Event, *Event]
//	l.PushBack(owned.New(Event{ID: 1}))
//	l.PushFront(owned.New(Event{ID: 0}))
//
//	for ev := range l.All() {
//	    fmt.Println(ev.ID)
//	}
//
// Link operations take an [Order] so that the same primitives serve the
// single-threaded list (Relaxed) and the lock-free handoff queue (AcqRel).
//
// Complexity:
//
//	PushFront, PushBack, PopFront     O(1)
//	Append, Prepend, Swap             O(1)
//	PopBack, Len, Retain              O(n)
//
// Link preconditions (SetNext on an unlinked node, UpdateNext on a linked
// one) are asserted when built with the debug tag.
package ilist
