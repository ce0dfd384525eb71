// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package diag_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/handoff/internal/diag"
)

type exitCalled int

func TestFatalLogsAndExits(t *testing.T) {
	var buf bytes.Buffer
	diag.SetOutput(&buf)
	t.Cleanup(func() { diag.SetOutput(os.Stderr) })
	restore := diag.SetExitForTest(func(code int) { panic(exitCalled(code)) })
	t.Cleanup(restore)

	defer func() {
		r := recover()
		require.Equal(t, exitCalled(diag.ExitCode), r)
		require.Contains(t, buf.String(), `"violation":"double-park"`)
		require.Contains(t, buf.String(), `"msg":"parked twice"`)
	}()
	diag.Fatal(diag.DoublePark, "parked twice")
	t.Fatal("Fatal returned")
}

func TestWarnRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	diag.SetOutput(&buf)
	t.Cleanup(func() {
		diag.SetOutput(os.Stderr)
		diag.SetLevel(logiface.LevelInformational)
	})

	diag.Warn(diag.DropBorrowed, "first")
	require.Contains(t, buf.String(), `"misuse":"drop-borrowed"`)

	buf.Reset()
	diag.SetLevel(logiface.LevelError)
	diag.Warn(diag.DropBorrowed, "second")
	require.Empty(t, buf.String())
}
