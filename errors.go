// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"errors"

	"code.hybscloud.com/iox"

	"code.hybscloud.com/handoff/owned"
)

// ErrWouldBlock indicates the operation cannot proceed immediately, such
// as a poll that found no completed work or a worker pool at capacity.
//
// ErrWouldBlock is a control flow signal, not a failure.
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrOutOfMemory is returned when a node cannot be allocated.
// This is an alias for [owned.ErrOutOfMemory].
var ErrOutOfMemory = owned.ErrOutOfMemory

// ErrClosed is returned by operations on a closed port.
var ErrClosed = errors.New("handoff: closed")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
