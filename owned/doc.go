// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package owned provides Ptr, a single-ownership handle to a node.
//
// A Ptr is either owned or borrowed:
//
//	p := owned.New(Request{})   // owned: Drop destroys it
//	b := owned.FromRaw(&req)    // borrowed: must be returned with IntoRaw
//	raw := b.IntoRaw()
//
// Owned handles run the node's Destroy method (if it implements
// [Destroyer]) and return its size to the [Allocator] exactly once, when
// dropped. The garbage collector reclaims the memory itself.
//
// Ptr is a value type. Passing a Ptr to a function that consumes it moves
// ownership; the caller must not use or drop its own copy afterwards.
//
// # Misuse
//
// Calling IntoRaw on an owned handle, or Surrender on a borrowed one, is a
// protocol violation: the process logs the violation and exits. Dropping a
// borrowed handle is only logged as a warning, since nothing is destroyed.
package owned
