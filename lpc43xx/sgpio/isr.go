// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sgpio

import "github.com/greatscottgadgets/libgreat/internal/reg"

// The reference driver this package is modeled on generates a short run of
// Thumb machine code per function at setup time, tailored to that
// function's mode, bus width, and buffer depth, so the data-shuttle
// interrupt handler does no per-shift branching. Go has no sanctioned way
// to mark heap- or stack-allocated memory executable, and nothing else in
// this tree's ecosystem does runtime code generation, so the shuttle here
// is a small table of ordinary Go functions indexed by (mode, bus width)
// and looked up on every interrupt instead, without synthesizing
// instructions. Every width maps to the same 4-byte shuttle; bidirectional
// and clock-generation functions have no entry.
type shuttleFunc func(f *Function, word uint32) (next uint32, done bool)

func shuttleTableKey(mode Mode, busWidth int) (Mode, int) {
	return mode, busWidth
}

var shuttleTable = map[Mode]map[int]shuttleFunc{
	ModeStreamDataIn: {
		1: shuttleIn, 2: shuttleIn, 4: shuttleIn, 8: shuttleIn,
	},
	ModeStreamDataOut: {
		1: shuttleOut, 2: shuttleOut, 4: shuttleOut, 8: shuttleOut,
	},
	ModeFixedDataOut: {
		1: shuttleOut, 2: shuttleOut, 4: shuttleOut, 8: shuttleOut,
	},
}

func shuttleFor(f *Function) (shuttleFunc, bool) {
	byWidth, ok := shuttleTable[f.Mode]
	if !ok {
		return nil, false
	}
	fn, ok := byWidth[f.BusWidth]
	return fn, ok
}

// exchangeUnitBytes is how many bytes a single slice exchange moves: one
// 32-bit shift register's worth, always, regardless of the parallel bus
// width a function drives its pins at (sgpio_data.c's
// copy_size = (1 << buffer_depth_order) * sizeof(uint32_t), per slice).
const exchangeUnitBytes = 4

// shuttleIn/shuttleOut move one exchange unit's worth of bytes between
// f.Buffer at f.cursor and a slice's shift-register word, reporting
// whether the buffer has been fully consumed.
func shuttleIn(f *Function, word uint32) (uint32, bool) {
	if f.cursor+exchangeUnitBytes > len(f.Buffer) {
		return 0, true
	}
	for i := 0; i < exchangeUnitBytes; i++ {
		f.Buffer[f.cursor+i] = byte(word >> (8 * uint(i)))
	}
	f.cursor += exchangeUnitBytes
	return 0, f.cursor >= len(f.Buffer)
}

func shuttleOut(f *Function, _ uint32) (uint32, bool) {
	if f.cursor+exchangeUnitBytes > len(f.Buffer) {
		return 0, true
	}
	var word uint32
	for i := 0; i < exchangeUnitBytes; i++ {
		word |= uint32(f.Buffer[f.cursor+i]) << (8 * uint(i))
	}
	f.cursor += exchangeUnitBytes
	return word, f.cursor >= len(f.Buffer)
}

// HandleInterrupt services the SGPIO exchange-clock interrupt: every
// function whose I/O slice has a pending shadow/shift exchange gets its
// shuttle function run once, moving one shadow register's worth of data
// between hardware and Function.Buffer.
func (e *Engine) HandleInterrupt() {
	for _, f := range e.Functions {
		if !exchangeInterruptPending(f.ioSlice) {
			continue
		}
		clearExchangeInterrupt(f.ioSlice)

		shuttle, ok := shuttleFor(f)
		if !ok {
			continue
		}

		switch f.Mode {
		case ModeStreamDataIn:
			word := reg.Read(sliceReg(shadowRegBase, f.ioSlice))
			if _, done := shuttle(f, word); done {
				e.finishFixedOrBounded(f)
			}
		case ModeStreamDataOut, ModeFixedDataOut:
			word, done := shuttle(f, 0)
			writeShadow(f.ioSlice, word)
			if done {
				e.finishFixedOrBounded(f)
			}
		}
	}
}

// finishFixedOrBounded handles a fixed-data-out function whose buffer has
// been fully consumed. Without a shift count limit the cursor is rewound so
// the pattern repeats until Halt; with one, the cursor stays at the end of
// the buffer, which Running reports as finished. The shift clock itself
// keeps running until Halt. Functions in other modes are left as they are.
func (e *Engine) finishFixedOrBounded(f *Function) {
	if f.Mode != ModeFixedDataOut || f.ShiftCountLimit != 0 {
		return
	}
	f.cursor = 0
}
