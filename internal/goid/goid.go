// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package goid identifies the calling goroutine.
//
// Ids are stable for the lifetime of a goroutine and distinct between
// goroutines that are alive at the same time. The runtime may reuse an id
// after its goroutine exits.
package goid

import "runtime"

// prefix is the fixed header of the first line of runtime.Stack output.
const prefix = "goroutine "

// Current returns the id of the calling goroutine, or 0 if it cannot be
// parsed.
func Current() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse extracts the id from a stack header, or returns 0.
func parse(b []byte) uint64 {
	if len(b) <= len(prefix) || string(b[:len(prefix)]) != prefix {
		return 0
	}
	var id uint64
	for i := len(prefix); i < len(b); i++ {
		c := b[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
