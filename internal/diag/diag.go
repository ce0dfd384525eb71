// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package diag carries the module's structured diagnostics and its
// abort-on-misuse policy.
//
// Protocol violations in lock-free code are not returned as errors. They
// are logged at emergency level with the name of the violated invariant,
// then the process exits. Recoverable misuse is logged as a warning.
package diag

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the concrete logger type used throughout the module.
type Logger = logiface.Logger[*stumpy.Event]

// ExitCode is the process status used by [Fatal].
const ExitCode = 2

// Violation names, used as the "violation" field of fatal log lines.
const (
	WrongGoroutine   = "wrong-goroutine"
	UnknownGoroutine = "unknown-goroutine"
	DoublePark       = "double-park"
	UnpairedParkEnd  = "unpaired-park-end"
	IntoRawOwned     = "into-raw-owned"
	SurrenderBorrow  = "surrender-borrowed"
	PushBorrowed     = "push-borrowed"
	AllocationFailed = "allocation-failed"
)

// DropBorrowed names the recoverable misuse of dropping a borrowed handle.
const DropBorrowed = "drop-borrowed"

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
	level            = logiface.LevelInformational
	logger atomic.Pointer[Logger]

	// exit is replaced by tests inside this module only.
	exit = os.Exit
)

func init() {
	logger.Store(build(output, level))
}

func build(w io.Writer, lvl logiface.Level) *Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(lvl),
	)
}

// L returns the current logger.
func L() *Logger {
	return logger.Load()
}

// SetOutput redirects all diagnostics to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	logger.Store(build(output, level))
}

// SetLevel sets the minimum level that is written.
func SetLevel(lvl logiface.Level) {
	mu.Lock()
	defer mu.Unlock()
	level = lvl
	logger.Store(build(output, level))
}

// Fatal logs violation at emergency level and terminates the process.
func Fatal(violation, msg string) {
	L().Emerg().
		Str("violation", violation).
		Log(msg)
	mu.Lock()
	fn := exit
	mu.Unlock()
	fn(ExitCode)
	// exit is only replaced in tests; never return into corrupted state.
	panic("handoff: " + violation + ": " + msg)
}

// Warn logs recoverable misuse.
func Warn(kind, msg string) {
	L().Warning().
		Str("misuse", kind).
		Log(msg)
}

// SetExitForTest replaces the exit function and returns a restore func.
func SetExitForTest(fn func(code int)) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := exit
	exit = fn
	return func() {
		mu.Lock()
		defer mu.Unlock()
		exit = prev
	}
}
