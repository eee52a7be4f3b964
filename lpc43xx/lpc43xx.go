// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package lpc43xx

import "github.com/greatscottgadgets/libgreat/cm4"

// CPU is the Cortex-M4 core this package is running on.
var CPU = &cm4.CPU{}

// Init brings the SoC up in the platform's own ordering: capture the reset
// reason before anything else overwrites it, bring up the CPU core (FPU,
// interrupts), then the clock tree up to the primary PLL driving the core.
//
// Board code that needs a non-default PrimaryClockSource/PrimaryClockInput,
// or a CPU target frequency other than the primary PLL's configured
// default, must set those before calling Init.
func Init(cpuFreqHz uint32) error {
	InitResetDriver()

	CPU.Init()

	if cpuFreqHz == 0 {
		cpuFreqHz = sources[SourcePLL1].configuredFrequency
	}

	return softStartCPUClock(cpuFreqHz)
}
