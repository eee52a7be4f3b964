// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sgpio

import "github.com/greatscottgadgets/libgreat/internal/reg"

// NewEngine returns an Engine ready to accept functions via SetUpFunctions.
func NewEngine() *Engine {
	return &Engine{}
}

// SetUpFunctions resets the SGPIO block, configures every function in fns
// against it, and grows their slice chains as far as the optimizer can
// take them. It must be called before Run.
func (e *Engine) SetUpFunctions(fns []*Function) error {
	e.reset()
	e.Functions = fns

	for _, f := range fns {
		if err := setUpFunction(e, f); err != nil {
			return err
		}
	}

	e.optimizeBuffers()

	for _, f := range fns {
		e.setUpOutputPin(f)
		if exchangeRequiresIRQ(f) {
			e.swapIRQsNeeded |= 1 << uint(f.ioSlice)
		}
	}

	return nil
}

// reset clears the block's shift clock and puts every pin back to plain
// GPIO input, the same state sgpio_set_up_functions starts from.
func (e *Engine) reset() {
	reg.Write(shiftClockEnable, 0)
	for pin := 0; pin < NumPins; pin++ {
		reg.Write(pinReg(outMuxCfgBase, pin), OutputModeGPIO)
	}
	e.slicesInUse = 0
	e.pinsInUse = 0
	e.swapIRQsNeeded = 0
	e.Functions = nil
}

func (e *Engine) setUpOutputPin(f *Function) {
	if f.Mode == ModeStreamDataIn {
		return
	}

	outputMode := outputModeForBusWidth(f.BusWidth)
	for _, p := range f.Pins {
		reg.Write(pinReg(outMuxCfgBase, p.Pin), outputMode)
		reg.SetN(pinDirection, p.Pin, 0x1, 1)
	}
}

func outputModeForBusWidth(busWidth int) uint32 {
	switch busWidth {
	case 1:
		return OutputMode1Bit
	case 2:
		return OutputMode2BitA
	case 4:
		return OutputMode4BitA
	case 8:
		return OutputMode8BitA
	default:
		return OutputModeGPIO
	}
}

// exchangeRequiresIRQ reports whether f needs the CPU woken on every
// shadow/shift register exchange (streaming modes) as opposed to running
// to completion unattended (clock generation).
func exchangeRequiresIRQ(f *Function) bool {
	return f.Mode != ModeClockGeneration
}

// Run starts every configured function's shift clock running.
// SetUpFunctions must have been called first.
func (e *Engine) Run() {
	reg.Write(shiftClockEnable, 0)

	for _, f := range e.Functions {
		prepopulate(f)

		clearExchangeInterrupt(f.ioSlice)
		if e.swapIRQsNeeded&(1<<uint(f.ioSlice)) != 0 {
			enableExchangeInterrupt(f.ioSlice)
		} else {
			disableExchangeInterrupt(f.ioSlice)
		}
	}

	reg.Write(shiftClockEnable, uint32(e.slicesInUse))
	e.running = true
}

// prepopulate copies an output function's first exchange unit from its
// buffer into both the live data register and the shadow register,
// advancing its cursor past it, so the first shift clock edge moves real
// data rather than whatever was left in the shift register from a
// previous run.
func prepopulate(f *Function) {
	switch f.Mode {
	case ModeStreamDataOut, ModeFixedDataOut:
	default:
		return
	}
	if f.cursor+exchangeUnitBytes > len(f.Buffer) {
		return
	}

	var word uint32
	for i := 0; i < exchangeUnitBytes; i++ {
		word |= uint32(f.Buffer[f.cursor+i]) << (8 * uint(i))
	}

	writeData(f.ioSlice, word)
	writeShadow(f.ioSlice, word)
	f.cursor += exchangeUnitBytes
}

// Halt stops every function's shift clock and disables their exchange
// interrupts. Any data already shifted into a slice's shadow register but
// not yet delivered to a Buffer is left in hardware; re-running the same
// function after Halt resumes from its last committed cursor.
func (e *Engine) Halt() {
	reg.Write(shiftClockEnable, 0)

	for _, f := range e.Functions {
		disableExchangeInterrupt(f.ioSlice)
	}

	e.running = false
}

// Running reports whether any configured function still has data left to
// move: a fixed-data-out function with a shift count limit counts as
// finished once its buffer is exhausted, without a call to Halt, although
// its shift clock keeps running until Halt.
func (e *Engine) Running() bool {
	if !e.running {
		return false
	}

	for _, f := range e.Functions {
		if f.Mode != ModeFixedDataOut || f.ShiftCountLimit == 0 {
			return true
		}
		if f.cursor < len(f.Buffer) {
			return true
		}
	}

	return false
}
