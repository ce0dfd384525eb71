// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"code.hybscloud.com/handoff/ilist"
	"code.hybscloud.com/handoff/internal/diag"
)

type node struct {
	ilist.Link[node]
}

type exitCode int

func TestNewQueueUnknownGoroutineIsFatal(t *testing.T) {
	var buf bytes.Buffer
	diag.SetOutput(&buf)
	restoreExit := diag.SetExitForTest(func(code int) { panic(exitCode(code)) })
	prev := currentID
	currentID = func() uint64 { return 0 }
	t.Cleanup(func() {
		currentID = prev
		restoreExit()
		diag.SetOutput(os.Stderr)
	})

	defer func() {
		if r := recover(); r != exitCode(diag.ExitCode) {
			t.Fatalf("recover: got %v, want exit %d", r, diag.ExitCode)
		}
		if !strings.Contains(buf.String(), `"violation":"`+diag.UnknownGoroutine+`"`) {
			t.Fatalf("log %q does not name %s", buf.String(), diag.UnknownGoroutine)
		}
	}()
	NewQueue[node](nil)
	t.Fatal("expected fatal exit")
}
