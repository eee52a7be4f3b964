// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cm4

import "github.com/greatscottgadgets/libgreat/internal/reg"

// defined in intrinsics.s
func cpsie()
func cpsid()
func dmb()

// EnableInterrupts clears PRIMASK, unmasking all interrupts at or below the
// base priority. Cortex-M has no separate FIQ channel, so a single
// CPSIE/CPSID pair covers what a Cortex-A target needs two instructions for.
func (cpu *CPU) EnableInterrupts() {
	cpsie()
}

// DisableInterrupts sets PRIMASK, masking all maskable interrupts. NMI and
// hard fault remain active.
func (cpu *CPU) DisableInterrupts() {
	cpsid()
}

// EnableFPU activates the Cortex-M4F hardware floating point unit by
// setting the CP10/CP11 full-access bits in the Coprocessor Access Control
// Register. Unlike the Cortex-A VFP enable sequence (a coprocessor
// instruction), M-profile FPU enable is an ordinary memory-mapped register
// write.
func (cpu *CPU) EnableFPU() {
	const cp10 = 20
	const cp11 = 22

	reg.SetN(CPACR, cp10, 0b11, 0b11)
	reg.SetN(CPACR, cp11, 0b11, 0b11)
}

// Busyloop spins for approximately n core cycles, for short delays that
// cannot wait on a calibrated timer.
func Busyloop(n uint32) {
	for i := uint32(0); i < n; i++ {
		busyloopTick()
	}
}

//go:noinline
func busyloopTick() {}

// DataMemoryBarrier ensures all memory accesses issued before it complete
// before any issued after it, as required around clearing the crystal
// oscillator's bypass bit and enabling auto-disable flags on a branch
// clock before the enable bit itself is cleared.
func DataMemoryBarrier() {
	dmb()
}
