// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"unsafe"

	"code.hybscloud.com/handoff/ilist"
)

// Options configures queue creation.
type Options struct {
	// Wake-up callbacks invoked by Submit, in registration order
	unpark []func()
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	p := handoff.NewParker()
//	q := handoff.Build[Request](handoff.New().Parker(p))
//
//	// Producer goroutines
//	q.Submit(&batch) // wakes p if the consumer is parked
type Builder struct {
	opts Options
}

// New creates a queue builder.
func New() *Builder {
	return &Builder{}
}

// Unpark registers fn to be called by Submit when it finds the consumer
// parked. fn runs on the producer's goroutine and must not block.
func (b *Builder) Unpark(fn func()) *Builder {
	if fn == nil {
		panic("handoff: nil unpark callback")
	}
	b.opts.unpark = append(b.opts.unpark, fn)
	return b
}

// Parker registers p.Unpark as a wake-up callback.
func (b *Builder) Parker(p *Parker) *Builder {
	return b.Unpark(p.Unpark)
}

// Build creates a Queue owned by the calling goroutine.
func Build[T any, N ilist.Node[T]](b *Builder) *Queue[T, N] {
	switch fns := b.opts.unpark; len(fns) {
	case 0:
		return NewQueue[T, N](nil)
	case 1:
		return NewQueue[T, N](fns[0])
	default:
		fns = append([]func(){}, fns...)
		return NewQueue[T, N](func() {
			for _, fn := range fns {
				fn()
			}
		})
	}
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padPtr is padding to fill cache line after pointer-sized field.
type padPtr [64 - ptrSize]byte
