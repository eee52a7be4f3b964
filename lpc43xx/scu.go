// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package lpc43xx

import "github.com/greatscottgadgets/libgreat/internal/reg"

// The System Control Unit's pin multiplexer is an external collaborator:
// this package only provides the narrow seam the clock tree and SGPIO
// planner need (routing a pin to a given function number), not a full pin
// mux redesign.
const scuBase = 0x40086000

// SCUPin identifies a physical pin by its SCU group and pin-within-group
// numbers, matching the datasheet's own Px_y naming.
type SCUPin struct {
	Group int
	Pin   int
}

func (p SCUPin) addr() uint32 {
	return uint32(scuBase + (p.Group * 0x20) + (p.Pin * 4))
}

// SetFunction selects function on a pin's SCU multiplexer, the low 3 bits
// of its SCU register.
func SetFunction(pin SCUPin, function uint32) {
	reg.SetN(pin.addr(), 0, 0x7, function)
}
