// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package sgpio drives the LPC43xx Serial GPIO peripheral: a bank of 16
// configurable shift-register slices that can be chained together and
// clocked to stream data in or out of 16 pins with little or no CPU
// involvement per bit, with the peripheral's exchange-clock interrupt
// moving data between Function buffers and the slices' shadow registers
// each time a chain swaps its shadow and shift registers.
package sgpio

import "fmt"

// NumSlices and NumPins are architectural constants of the LPC43xx SGPIO
// block: 16 addressable shift-register slices, 16 I/O-capable pins.
const (
	NumSlices = 16
	NumPins   = 16

	// MaxSliceChainDepth bounds how many slices a single function's buffer
	// can concatenate: 16 total slices, half of which are reserved as
	// potential direction slices in bidirectional mode, caps any one
	// chain at 8.
	MaxSliceChainDepth = 8
)

// Slice identifies one of the sixteen SGPIO slices, A through P.
type Slice uint8

const (
	SliceA Slice = iota
	SliceB
	SliceC
	SliceD
	SliceE
	SliceF
	SliceG
	SliceH
	SliceI
	SliceJ
	SliceK
	SliceL
	SliceM
	SliceN
	SliceO
	SliceP
)

func (s Slice) String() string {
	return string(rune('A') + rune(s))
}

// Mode selects how a function uses its slice chain.
type Mode int

const (
	ModeStreamDataIn Mode = iota
	ModeStreamDataOut
	ModeFixedDataOut
	ModeStreamBidirectional
	ModeClockGeneration
)

// ioSliceForPin is the fixed mapping from an SGPIO pin number to the slice
// used for single-bit I/O on that pin (User Manual Table 277's "P" column).
var ioSliceForPin = [NumPins]Slice{
	SliceA, SliceI, SliceE, SliceJ,
	SliceC, SliceK, SliceF, SliceL,
	SliceB, SliceM, SliceG, SliceN,
	SliceD, SliceO, SliceH, SliceP,
}

// clockgenSliceForPin is the fixed mapping from a pin to the slice that can
// generate a clock signal on it.
var clockgenSliceForPin = [NumPins]Slice{
	SliceB, SliceD, SliceE, SliceH,
	SliceC, SliceF, SliceO, SliceP,
	SliceA, SliceM, SliceG, SliceN,
	SliceI, SliceJ, SliceK, SliceL,
}

// direction slice lookup tables, width-parameterized: these pick which
// slice controls the pin-direction signal for a parallel bus of a given
// width.
var directionSlice2Bit = [8]Slice{SliceH, SliceD, SliceG, SliceO, SliceP, SliceB, SliceN, SliceM}
var directionSlice4Bit = [4]Slice{SliceH, SliceO, SliceP, SliceN}
var directionSlice8Bit = [4]Slice{SliceH, SliceO, SliceP, SliceN}

// SliceForIO returns the slice used for single-bit I/O on pin.
func SliceForIO(pin int) (Slice, error) {
	if pin < 0 || pin >= NumPins {
		return 0, fmt.Errorf("sgpio: invalid pin %d", pin)
	}
	return ioSliceForPin[pin], nil
}

// IOPinForSlice returns the pin that slice serves for single-bit I/O, the
// inverse of SliceForIO.
func IOPinForSlice(slice Slice) (int, error) {
	for pin, s := range ioSliceForPin {
		if s == slice {
			return pin, nil
		}
	}
	return -1, fmt.Errorf("sgpio: no pin maps to slice %s", slice)
}

// SliceForClockGeneration returns the slice that can generate a clock
// output on pin.
func SliceForClockGeneration(pin int) (Slice, error) {
	if pin < 0 || pin >= NumPins {
		return 0, fmt.Errorf("sgpio: invalid pin %d", pin)
	}
	return clockgenSliceForPin[pin], nil
}

// SliceForDirection returns the slice that controls the direction signal
// for a bus of the given width starting at pin. For a single-bit bus, the
// direction slice mirrors the I/O slice on the opposite half of the chip,
// since the peripheral keeps data and direction slices on opposite sides.
//
// The direction-slice tables only have entries for width 1, 2, 4, and 8:
// a caller requesting an in-between width (3, or 5 through 7) gets snapped
// up to the next entry the hardware actually supports, the same way the
// reference driver rounds a bus width up to its nearest power of two
// before picking a direction slice, rather than rejecting it outright.
func SliceForDirection(pin int, busWidth int) (Slice, error) {
	snapped := busWidth
	switch {
	case busWidth == 3:
		snapped = 4
	case busWidth > 4 && busWidth < 8:
		snapped = 8
	}
	if snapped != busWidth {
		logWarning.Printf("bus width %d has no direction slice mapping, rounding up to %d", busWidth, snapped)
	}

	switch snapped {
	case 8:
		return directionSlice8Bit[pin/8], nil
	case 4:
		return directionSlice4Bit[pin/8], nil
	case 2:
		return directionSlice2Bit[pin/2], nil
	case 1:
		return SliceForIO((pin + NumPins/2) % NumPins)
	default:
		return 0, fmt.Errorf("sgpio: invalid bus width %d", busWidth)
	}
}

// sliceInConcatenation returns the slice depth positions away from ioSlice
// in its concatenation chain, walking the same per-pin ordering SliceForIO
// uses. It assumes no wraparound, which holds because callers always start
// counting from a chain's first (I/O) slice.
func sliceInConcatenation(ioSlice Slice, depth int) (Slice, error) {
	pin, err := IOPinForSlice(ioSlice)
	if err != nil {
		return 0, err
	}
	return SliceForIO(pin + depth)
}
