// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"io"

	"github.com/joeycumines/logiface"

	"code.hybscloud.com/handoff/internal/diag"
)

// SetLogOutput redirects diagnostics of every package in this module to w.
// The default is os.Stderr.
func SetLogOutput(w io.Writer) {
	diag.SetOutput(w)
}

// SetLogLevel sets the minimum diagnostic level written.
// Fatal protocol violations are logged at [logiface.LevelEmergency] and
// are always written.
func SetLogLevel(level logiface.Level) {
	diag.SetLevel(level)
}
