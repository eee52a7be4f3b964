// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package lpc43xx

import "github.com/greatscottgadgets/libgreat/internal/reg"

// GPIO register bank: eight 32-bit ports (0-7), each bit one pin, plus a
// per-pin byte alias region. The pin accessors below use the per-port
// SET, CLR and PIN registers; the byte alias is not used.
const (
	gpioBase = 0x400f4000

	gpioByteAddr = gpioBase + 0x0000 // per-pin byte alias, port*32+pin offset
	gpioDir      = gpioBase + 0x2000 // per-port direction, 4 bytes each
	gpioSet      = gpioBase + 0x2200
	gpioClr      = gpioBase + 0x2280
	gpioPin      = gpioBase + 0x2100 // per-port current pin state
)

// GPIOPin identifies a single GPIO pin by its port (0-7) and pin-within-port
// (0-31) numbers.
type GPIOPin struct {
	Port int
	Pin  int
}

func (p GPIOPin) byteAddr() uint32 {
	return uint32(gpioByteAddr + p.Port*32 + p.Pin)
}

func (p GPIOPin) portMask() uint32 {
	return 1 << uint(p.Pin)
}

// SetDirection configures p as an output (out=true) or input (out=false).
func (p GPIOPin) SetDirection(out bool) {
	addr := uint32(gpioDir + p.Port*4)
	if out {
		reg.Or(addr, p.portMask())
	} else {
		reg.Write(addr, reg.Read(addr)&^p.portMask())
	}
}

// Set drives p high.
func (p GPIOPin) Set() {
	reg.Write(uint32(gpioSet+p.Port*4), p.portMask())
}

// Clear drives p low.
func (p GPIOPin) Clear() {
	reg.Write(uint32(gpioClr+p.Port*4), p.portMask())
}

// Write drives p high or low depending on value.
func (p GPIOPin) Write(value bool) {
	if value {
		p.Set()
	} else {
		p.Clear()
	}
}

// Read returns p's current input level, valid regardless of direction.
func (p GPIOPin) Read() bool {
	return reg.Read(uint32(gpioPin+p.Port*4))&p.portMask() != 0
}
