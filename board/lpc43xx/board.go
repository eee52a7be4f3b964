// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package lpc43xx provides hardware initialization, automatically on
// import, for LPC43xx-based boards (such as GreatFET One).
package lpc43xx

import (
	"github.com/greatscottgadgets/libgreat/lpc43xx"
	"github.com/greatscottgadgets/libgreat/lpc43xx/uart"

	_ "unsafe"
)

// DefaultCPUFrequencyHz is the CPU clock target Init applies. It is a
// constant, so boards cannot change it before import-time initialization
// runs. It is above the soft-start threshold, so the CPU clock is brought
// up through the soft-start divider path.
const DefaultCPUFrequencyHz = 204_000_000

// Peripheral instances
var (
	UART0, _ = uart.Port(0)
)

// Init takes care of the lower level SoC initialization triggered early in
// runtime setup: reset-reason capture, CPU and clock tree bring-up, and the
// console UART.
//
//go:linkname Init runtime.hwinit
func Init() {
	if err := lpc43xx.Init(DefaultCPUFrequencyHz); err != nil {
		panic(err)
	}

	UART0.Init(lpc43xx.BaseUART0, 256)
}
