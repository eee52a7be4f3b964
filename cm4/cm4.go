// Cortex-M4 processor support
// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package cm4 provides the Cortex-M4 CPU intrinsics this library needs:
// interrupt masking, FPU enable, NVIC control, exception naming and a
// fault-handler hook. It does not install or modify an exception vector
// table. It is the M-profile counterpart of a CPU support package
// such as a Cortex-A target's arm package: same shape (declare the
// instruction-level primitive, wrap it in a Go method), different
// instruction set and interrupt controller.
package cm4

// Base addresses of the System Control Space, common to every Cortex-M4
// implementation regardless of vendor.
const (
	SCBBase  = 0xe000ed00
	NVICBase = 0xe000e100
	CPACR    = SCBBase + 0x88
)

// CPU represents the Cortex-M4 core executing this code.
type CPU struct {
	// Freq is the core clock frequency in Hz, set by the clock tree once
	// the CPU base clock has reached its target rate.
	Freq uint32
}

// Init performs one-time CPU bring-up: enables the FPU and unmasks
// interrupts. It must run once, early, before any peripheral driver that
// relies on interrupts or hardware floating point.
func (cpu *CPU) Init() {
	cpu.EnableFPU()
	cpu.EnableInterrupts()
}
