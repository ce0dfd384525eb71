// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owned

import (
	"errors"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// ErrOutOfMemory is returned by fallible constructors when the allocator
// cannot reserve space for another node.
var ErrOutOfMemory = errors.New("owned: out of memory")

// Allocator accounts for node memory.
//
// Allocate reserves size bytes or returns ErrOutOfMemory. Free returns
// bytes reserved by a previous Allocate. Both must be safe for concurrent
// use.
type Allocator interface {
	Allocate(size uintptr) error
	Free(size uintptr)
}

// Heap is the unbounded allocator. It never fails.
var Heap Allocator = heap{}

type heap struct{}

func (heap) Allocate(uintptr) error { return nil }
func (heap) Free(uintptr)           {}

// Budget is an Allocator bounded by a byte limit.
type Budget struct {
	_     pad
	inUse atomix.Int64
	_     pad
	limit int64
}

// NewBudget creates a Budget that admits at most limit bytes at once.
func NewBudget(limit int64) *Budget {
	if limit <= 0 {
		panic("owned: budget limit must be > 0")
	}
	return &Budget{limit: limit}
}

// Allocate reserves size bytes (multiple goroutines safe).
// Returns ErrOutOfMemory if the reservation would exceed the limit.
func (b *Budget) Allocate(size uintptr) error {
	n := int64(size)
	sw := spin.Wait{}
	for {
		used := b.inUse.LoadAcquire()
		if used+n > b.limit {
			return ErrOutOfMemory
		}
		if b.inUse.CompareAndSwapAcqRel(used, used+n) {
			return nil
		}
		sw.Once()
	}
}

// Free returns size bytes to the budget.
func (b *Budget) Free(size uintptr) {
	if b.inUse.AddAcqRel(-int64(size)) < 0 {
		panic("owned: budget freed more than allocated")
	}
}

// InUse returns the number of bytes currently reserved.
func (b *Budget) InUse() int64 {
	return b.inUse.LoadAcquire()
}

// Limit returns the configured byte limit.
func (b *Budget) Limit() int64 {
	return b.limit
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
