// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cm4

import "github.com/greatscottgadgets/libgreat/internal/reg"

// NVIC register offsets from NVICBase, relative to the interrupt's group of
// 32 (ISER/ICER/ISPR/ICPR/IABR are one word per 32 interrupts; IPR is one
// byte per interrupt).
const (
	iser = 0x000
	icer = 0x080
	ispr = 0x100
	icpr = 0x180
	ipr  = 0x300
)

// NVIC is a handle onto the Nested Vectored Interrupt Controller, the
// Cortex-M4 counterpart of a Cortex-A target's GIC.
type NVIC struct{}

// EnableIRQ enables delivery of the given external interrupt number.
func (n *NVIC) EnableIRQ(irq int) {
	word := irq / 32
	bit := irq % 32
	reg.Set(uint32(NVICBase+iser+word*4), bit)
}

// DisableIRQ disables delivery of the given external interrupt number.
func (n *NVIC) DisableIRQ(irq int) {
	word := irq / 32
	bit := irq % 32
	reg.Set(uint32(NVICBase+icer+word*4), bit)
}

// ClearPending clears a latched-but-undelivered interrupt.
func (n *NVIC) ClearPending(irq int) {
	word := irq / 32
	bit := irq % 32
	reg.Set(uint32(NVICBase+icpr+word*4), bit)
}

// SetPriority sets an interrupt's priority (0 is highest, 255 lowest; the
// LPC43xx M4 implements the top 3 bits of each priority byte).
func (n *NVIC) SetPriority(irq int, priority uint8) {
	addr := uint32(NVICBase + ipr + irq)
	reg.SetN(addr&^0x3, int((addr&0x3)*8), 0xff, uint32(priority))
}
