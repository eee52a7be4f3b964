// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package lpc43xx

import "log"

// Leveled loggers, one per severity, all backed by the standard library's
// log package the way the rest of this library's ambient stack is. Board
// code may redirect any of them (log.SetOutput) before Init.
var (
	logCritical = log.New(log.Writer(), "lpc43xx: critical: ", log.Flags())
	logError    = log.New(log.Writer(), "lpc43xx: error: ", log.Flags())
	logWarning  = log.New(log.Writer(), "lpc43xx: warning: ", log.Flags())
	logInfo     = log.New(log.Writer(), "lpc43xx: info: ", log.Flags())
	logDebug    = log.New(log.Writer(), "lpc43xx: debug: ", log.Flags())
)

// Debug gates verbose per-step tracing (PLL search iterations, frequency
// monitor windows). Off by default; board code flips it on for bring-up.
var Debug = false

func debugf(format string, args ...interface{}) {
	if Debug {
		logDebug.Printf(format, args...)
	}
}
