// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sgpio

import "github.com/greatscottgadgets/libgreat/internal/reg"

// Register bank base address and per-slice register strides, matching the
// layout of the LPC43xx SGPIO peripheral's control block.
const (
	base = 0x40101000

	outConfigBase   = base + 0x100 // per-pin, 4 bytes each
	outMuxCfgBase   = base + 0x200
	cyclesPerShift  = base + 0x2e0 // per-slice, 4 bytes each
	shiftConfigBase = base + 0x300
	cycleCountBase  = base + 0x340
	swapControlBase = base + 0x380
	featureBase     = base + 0x3c0

	dataRegBase   = base + 0x000 // per-slice, live shift register, 4 bytes each
	shadowRegBase = base + 0x080 // per-slice, shadow (double-buffer) register

	shiftClockEnable = base + 0x500
	pinDirection     = base + 0x504
	stopOnNextSwap   = base + 0x508

	exchClockIntEnable       = base + 0xf00
	exchClockIntDisable      = base + 0xf04
	exchClockIntClearStatus  = base + 0xf08
	exchClockIntSetStatus    = base + 0xf0c // unused, kept for layout symmetry
)

func sliceReg(region uint32, slice Slice) uint32 {
	return region + uint32(slice)*4
}

func pinReg(region uint32, pin int) uint32 {
	return region + uint32(pin)*4
}

// shift_configuration register bit positions.
const (
	shiftCfgUseExternalClockPos = 0
	shiftCfgClockSourcePinPos   = 1
	shiftCfgClockSourcePinMask  = 0x3
	shiftCfgClockSourceSlicePos = 3
	shiftCfgClockSourceSliceMask = 0x3
	shiftCfgQualifierModePos    = 5
	shiftCfgQualifierModeMask   = 0x3
	shiftCfgQualifierPinPos     = 7
	shiftCfgQualifierPinMask    = 0x3
	shiftCfgQualifierSlicePos   = 9
	shiftCfgQualifierSliceMask  = 0x3

	shiftCfgConcatEnablePos = 11
	shiftCfgConcatOrderPos  = 12
	shiftCfgConcatOrderMask = 0x3
)

// feature_control register bit positions.
const (
	featureUseAsMatchTriggerPos = 0
	featureShiftOnFallingEdgePos = 1
	featureUseNonlocalClockPos  = 2
	featureInvertOutputClockPos = 3
	featureInvertQualifierPos   = 8
)

// setShiftClockSource configures which pin or slice feeds slice's shift
// clock when it isn't generated locally. sourceSelect is written to both the
// pin and the slice-group selector fields; useExternal decides which of the
// two the peripheral uses.
func setShiftClockSource(slice Slice, useExternal bool, sourceSelect uint8) {
	addr := sliceReg(shiftConfigBase, slice)
	if useExternal {
		reg.Set(addr, shiftCfgUseExternalClockPos)
	} else {
		reg.Clear(addr, shiftCfgUseExternalClockPos)
	}
	reg.SetN(addr, shiftCfgClockSourcePinPos, shiftCfgClockSourcePinMask, uint32(sourceSelect))
	reg.SetN(addr, shiftCfgClockSourceSlicePos, shiftCfgClockSourceSliceMask, uint32(sourceSelect))
}

func setShiftClockEdge(slice Slice, fallingEdge bool) {
	addr := sliceReg(featureBase, slice)
	if fallingEdge {
		reg.Set(addr, featureShiftOnFallingEdgePos)
	} else {
		reg.Clear(addr, featureShiftOnFallingEdgePos)
	}
}

// setNonlocalClock marks slice as consuming a clock it did not generate
// itself, so the peripheral doesn't run the local divider counter against
// it: true for a slice- or pin-sourced clock, false for a local one.
func setNonlocalClock(slice Slice, nonlocal bool) {
	addr := sliceReg(featureBase, slice)
	if nonlocal {
		reg.Set(addr, featureUseNonlocalClockPos)
	} else {
		reg.Clear(addr, featureUseNonlocalClockPos)
	}
}

// setShiftClockDivider programs slice's local counter to divide the SGPIO
// peripheral clock by divider (>=1); the counter reload value is one less
// than the divider, matching the peripheral's divide-by-(N+1) counters.
func setShiftClockDivider(slice Slice, divider uint32) {
	reg.Write(sliceReg(cyclesPerShift, slice), divider-1)
	reg.Write(sliceReg(cycleCountBase, slice), divider-1)
}

// setQualifier configures slice's shift qualifier: mode selects
// always/never/slice/pin gating (shiftCfgQualifierModePos' 2-bit encoding),
// selector picks the slice or pin when the mode needs one, and activeLow
// inverts the qualifier's sense.
func setQualifier(slice Slice, mode uint8, selector uint8, activeLow bool) {
	addr := sliceReg(shiftConfigBase, slice)
	reg.SetN(addr, shiftCfgQualifierModePos, shiftCfgQualifierModeMask, uint32(mode))
	reg.SetN(addr, shiftCfgQualifierPinPos, shiftCfgQualifierPinMask, uint32(selector))
	reg.SetN(addr, shiftCfgQualifierSlicePos, shiftCfgQualifierSliceMask, uint32(selector))

	featAddr := sliceReg(featureBase, slice)
	if activeLow {
		reg.Set(featAddr, featureInvertQualifierPos)
	} else {
		reg.Clear(featAddr, featureInvertQualifierPos)
	}
}

func setConcatenation(slice Slice, enabled bool, order uint8) {
	addr := sliceReg(shiftConfigBase, slice)
	if enabled {
		reg.Set(addr, shiftCfgConcatEnablePos)
	} else {
		reg.Clear(addr, shiftCfgConcatEnablePos)
	}
	reg.SetN(addr, shiftCfgConcatOrderPos, shiftCfgConcatOrderMask, uint32(order))
}

// copySliceProperties copies one slice's shift configuration, clocking, and
// double-buffering setup to another, the register-level step the buffer
// optimizer uses to extend a chain.
func copySliceProperties(to, from Slice) {
	reg.Write(sliceReg(shiftConfigBase, to), reg.Read(sliceReg(shiftConfigBase, from)))
	reg.Write(sliceReg(featureBase, to), reg.Read(sliceReg(featureBase, from)))
	reg.Write(sliceReg(cyclesPerShift, to), reg.Read(sliceReg(cyclesPerShift, from)))
	reg.Write(sliceReg(cycleCountBase, to), reg.Read(sliceReg(cycleCountBase, from)))
	reg.Write(sliceReg(swapControlBase, to), reg.Read(sliceReg(swapControlBase, from)))

	if reg.Get(stopOnNextSwap, int(from), 0x1) != 0 {
		reg.Set(stopOnNextSwap, int(to))
	} else {
		reg.Clear(stopOnNextSwap, int(to))
	}
}

func writeShadow(slice Slice, v uint32) {
	reg.Write(sliceReg(shadowRegBase, slice), v)
}

func readData(slice Slice) uint32 {
	return reg.Read(sliceReg(dataRegBase, slice))
}

func writeData(slice Slice, v uint32) {
	reg.Write(sliceReg(dataRegBase, slice), v)
}

func exchangeInterruptPending(slice Slice) bool {
	return reg.Read(exchClockIntClearStatus)&(1<<uint(slice)) != 0
}

func clearExchangeInterrupt(slice Slice) {
	reg.Write(exchClockIntClearStatus, 1<<uint(slice))
}

func enableExchangeInterrupt(slice Slice) {
	reg.Write(exchClockIntEnable, 1<<uint(slice))
}

func disableExchangeInterrupt(slice Slice) {
	reg.Write(exchClockIntDisable, 1<<uint(slice))
}

// Output pin direction-source and mode constants for OUT_MUX_CFG.
const (
	OutputModeGPIO   = 0x0
	OutputMode1Bit   = 0x4
	OutputMode2BitA  = 0x5
	OutputMode4BitA  = 0x6
	OutputMode8BitA  = 0x7
	UsePinDirection  = 0x0
)
