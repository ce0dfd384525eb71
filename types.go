// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import "code.hybscloud.com/handoff/ilist"

// Producer is the interface for handing nodes to a consumer.
//
// Producers give up ownership of every node in the list; the list is left
// empty. Any number of goroutines may produce concurrently.
type Producer[T any, N ilist.Node[T]] interface {
	// Append splices nodes onto the queue.
	// Returns true if the consumer was parked and must be woken.
	Append(nodes *ilist.List[T, N]) bool

	// Submit splices nodes onto the queue and wakes a parked consumer.
	Submit(nodes *ilist.List[T, N]) bool
}

// Consumer is the interface of the single goroutine that drains a queue.
//
// Drained nodes are appended to dst in append order; dst then owns them.
type Consumer[T any, N ilist.Node[T]] interface {
	// ParkBegin marks the consumer parked and drains pending nodes.
	ParkBegin(dst *ilist.List[T, N]) int

	// ParkEnd clears the parked mark and drains nodes that arrived since
	// ParkBegin.
	ParkEnd(dst *ilist.List[T, N]) int

	// Park runs ParkBegin, work and ParkEnd in that order.
	Park(work func(dst *ilist.List[T, N]) int, dst *ilist.List[T, N]) int
}
