// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owned

import (
	"fmt"
	"unsafe"

	"code.hybscloud.com/handoff/internal/diag"
)

// Destroyer is implemented by node types that hold resources which must be
// released when their owner drops them.
type Destroyer interface {
	Destroy()
}

// Ptr is an owned or borrowed handle to a *T.
//
// The zero value is the null handle. Dropping it is a no-op.
type Ptr[T any] struct {
	p     *T
	alloc Allocator // nil for borrowed handles
	owned bool
}

// New allocates v on the heap and returns an owning handle.
func New[T any](v T) Ptr[T] {
	return NewIn(Heap, v)
}

// TryNew is the fallible form of New.
func TryNew[T any](v T) (Ptr[T], error) {
	return TryNewIn(Heap, v)
}

// NewIn allocates v under a and returns an owning handle.
// Allocation failure is fatal.
func NewIn[T any](a Allocator, v T) Ptr[T] {
	p, err := TryNewIn(a, v)
	if err != nil {
		diag.Fatal(diag.AllocationFailed, fmt.Sprintf("owned: cannot allocate %d bytes: %v", unsafe.Sizeof(v), err))
	}
	return p
}

// TryNewIn allocates v under a.
// Returns ErrOutOfMemory (or the allocator's error) if a refuses the size
// of T.
func TryNewIn[T any](a Allocator, v T) (Ptr[T], error) {
	if err := a.Allocate(unsafe.Sizeof(v)); err != nil {
		return Ptr[T]{}, err
	}
	p := new(T)
	*p = v
	return Ptr[T]{p: p, alloc: a, owned: true}, nil
}

// FromRaw wraps p in a borrowed handle. A nil p yields the null handle.
//
// The caller keeps p valid for the lifetime of the handle and returns it
// with IntoRaw instead of dropping it.
func FromRaw[T any](p *T) Ptr[T] {
	return Ptr[T]{p: p}
}

// Claim returns an owning handle for p, which must have been surrendered
// from a handle allocated under a. Containers use Claim to hand nodes they
// own back to callers.
func Claim[T any](p *T, a Allocator) Ptr[T] {
	if p == nil {
		return Ptr[T]{}
	}
	if a == nil {
		a = Heap
	}
	return Ptr[T]{p: p, alloc: a, owned: true}
}

// IntoRaw consumes a borrowed handle and returns its address.
// Calling IntoRaw on an owned handle is fatal.
func (x *Ptr[T]) IntoRaw() *T {
	if x.owned {
		diag.Fatal(diag.IntoRawOwned, fmt.Sprintf("owned: IntoRaw on owned %T", x.p))
	}
	p := x.p
	*x = Ptr[T]{}
	return p
}

// Surrender consumes an owned handle and returns its address together with
// the allocator to give back on Claim. The receiver of the address takes
// over ownership. Calling Surrender on a borrowed handle is fatal.
func (x *Ptr[T]) Surrender() (*T, Allocator) {
	if !x.owned {
		diag.Fatal(diag.SurrenderBorrow, fmt.Sprintf("owned: Surrender on borrowed %T", x.p))
	}
	p, a := x.p, x.alloc
	*x = Ptr[T]{}
	return p, a
}

// Get returns the address without transferring ownership.
func (x Ptr[T]) Get() *T {
	return x.p
}

// IsNil reports whether x is the null handle.
func (x Ptr[T]) IsNil() bool {
	return x.p == nil
}

// MemoryIsOwned reports whether dropping x would destroy the node.
func (x Ptr[T]) MemoryIsOwned() bool {
	return x.owned
}

// Drop releases the handle.
//
// An owned node is destroyed and its size is returned to its allocator.
// Dropping a borrowed handle destroys nothing and logs a warning.
func (x *Ptr[T]) Drop() {
	p := x.p
	if p == nil {
		return
	}
	if !x.owned {
		diag.Warn(diag.DropBorrowed, fmt.Sprintf("owned: dropped borrowed %T without IntoRaw", p))
		*x = Ptr[T]{}
		return
	}
	a := x.alloc
	*x = Ptr[T]{}
	if d, ok := any(p).(Destroyer); ok {
		d.Destroy()
	}
	a.Free(unsafe.Sizeof(*p))
}
