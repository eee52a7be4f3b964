// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sgpio

import (
	"fmt"

	"github.com/greatscottgadgets/libgreat/lpc43xx"
)

// scuFunctionFor is the fixed mapping from an (SGPIO pin, SCU group, SCU
// pin) triple to the SCU multiplexer function number that routes that pin
// to SGPIO. Only pins wired to SGPIO on the common LPC43xx packages are
// listed; boards using the BGA-only port groups extend this table.
type scuMapping struct {
	sgpioPin int
	group    int
	pin      int
	function uint32
}

var scuMappings = []scuMapping{
	{0, 0, 0, 3}, {1, 0, 1, 3}, {7, 1, 0, 6}, {8, 1, 1, 3}, {9, 1, 2, 3},
	{10, 1, 3, 2}, {11, 1, 4, 2}, {15, 1, 5, 6}, {14, 1, 6, 6},
	{8, 1, 12, 6}, {9, 1, 13, 6}, {10, 1, 14, 6}, {2, 1, 15, 2},
	{3, 1, 16, 2}, {11, 1, 17, 6}, {12, 1, 18, 6}, {13, 1, 20, 6},
	{4, 2, 0, 1}, {5, 2, 1, 0}, {6, 2, 2, 0}, {12, 2, 3, 0}, {13, 2, 4, 0},
	{14, 2, 5, 0}, {7, 2, 6, 0}, {15, 2, 8, 0},
	{8, 4, 2, 7}, {9, 4, 3, 7}, {10, 4, 4, 7}, {11, 4, 5, 7}, {12, 4, 6, 7},
	{13, 4, 8, 7}, {14, 4, 9, 7}, {15, 4, 10, 7},
	{4, 6, 3, 2}, {5, 6, 6, 2}, {6, 6, 7, 2}, {7, 6, 8, 2},
	{4, 7, 0, 7}, {5, 7, 1, 7}, {6, 7, 2, 7}, {7, 7, 7, 7},
	{3, 9, 5, 6}, {8, 9, 6, 6},
}

func scuFunctionFor(p PinConfig) (uint32, error) {
	for _, m := range scuMappings {
		if m.sgpioPin == p.Pin && m.group == p.SCUGroup && m.pin == p.SCUPin {
			return m.function, nil
		}
	}
	return 0, fmt.Errorf("sgpio: no SCU mapping for SGPIO%d to P%d_%d", p.Pin, p.SCUGroup, p.SCUPin)
}

func setUpPin(e *Engine, p PinConfig) error {
	fn, err := scuFunctionFor(p)
	if err != nil {
		return err
	}

	lpc43xx.SetFunction(lpc43xx.SCUPin{Group: p.SCUGroup, Pin: p.SCUPin}, fn)
	e.pinsInUse |= 1 << uint(p.Pin)

	return nil
}

// setUpBusTopology assigns a Function its I/O slice (and, for bidirectional
// functions, its direction slice), the step that turns a caller's pin list
// into concrete hardware slices.
func setUpBusTopology(f *Function) error {
	switch f.Mode {
	case ModeClockGeneration:
		slice, err := SliceForClockGeneration(f.ClockPin)
		if err != nil {
			return err
		}
		f.ioSlice = slice
		return nil

	case ModeStreamDataIn, ModeStreamDataOut, ModeFixedDataOut:
		if len(f.Pins) == 0 {
			return fmt.Errorf("sgpio: function has no pins")
		}
		slice, err := SliceForIO(f.Pins[0].Pin)
		if err != nil {
			return err
		}
		f.ioSlice = slice
		return nil

	case ModeStreamBidirectional:
		if len(f.Pins) == 0 {
			return fmt.Errorf("sgpio: function has no pins")
		}
		ioSlice, err := SliceForIO(f.Pins[0].Pin)
		if err != nil {
			return err
		}
		dirSlice, err := SliceForDirection(f.Pins[0].Pin, f.BusWidth)
		if err != nil {
			return err
		}
		f.ioSlice = ioSlice
		f.directionSlice = dirSlice
		f.hasDirectionSlice = true
		return nil

	default:
		return fmt.Errorf("sgpio: mode %d not yet implemented", f.Mode)
	}
}

// sgpioClockHz tracks the SGPIO peripheral clock's last known frequency, so
// a function asking for a local shift clock at a specific rate can compute
// the divider to get there without querying the clock tree on every call.
var sgpioClockHz uint32

func init() {
	lpc43xx.RegisterFrequencyChangeConsumer(lpc43xx.BaseSGPIO, func(freqHz uint32) {
		sgpioClockHz = freqHz
	})
}

// setUpClocking brings up the SGPIO peripheral clock, then programs
// slice's shift-clock source, edge, and (for a locally generated clock)
// divider from cfg, grounded on sgpio_set_up_clocking: a slice- or
// pin-sourced clock is routed through shiftCfgUseExternalClockPos and its
// selector fields with the local divider left alone; a local clock instead
// runs the slice's own counter, dividing sgpioClockHz down to cfg.Frequency
// (zero requesting the fastest available rate, a divide-by-one).
func setUpClocking(slice Slice, cfg ClockConfig) error {
	if err := lpc43xx.SetBaseClockSource(lpc43xx.BaseSGPIO, lpc43xx.SourcePrimary, 0); err != nil {
		return err
	}

	useExternal := cfg.Source == ClockSourcePin
	nonlocal := cfg.Source != ClockSourceLocal

	setShiftClockSource(slice, useExternal, cfg.Selector)
	setNonlocalClock(slice, nonlocal)
	setShiftClockEdge(slice, cfg.Edge == ClockEdgeFalling)

	if cfg.Source != ClockSourceLocal {
		return nil
	}

	divider := uint32(1)
	if cfg.Frequency != 0 {
		if sgpioClockHz == 0 {
			return fmt.Errorf("sgpio: SGPIO peripheral clock frequency not yet known")
		}
		divider = sgpioClockHz / cfg.Frequency
		if divider == 0 {
			return fmt.Errorf("sgpio: cannot produce a %d Hz shift clock from a %d Hz SGPIO clock", cfg.Frequency, sgpioClockHz)
		}
	}
	setShiftClockDivider(slice, divider)

	return nil
}

// setUpQualifier programs slice's shift qualifier from q, grounded on
// sgpio_set_up_shift_condition's type/source/polarity fields.
func setUpQualifier(slice Slice, q Qualifier) {
	var mode uint8
	switch q.Mode {
	case QualifierAlways:
		mode = 0
	case QualifierNever:
		mode = 1
	case QualifierSlice:
		mode = 2
	case QualifierPin:
		mode = 3
	}
	setQualifier(slice, mode, q.Selector, q.ActiveLow)
}

// setUpFunction performs the minimal-hardware configuration of a single
// function: pin routing, bus topology (I/O and direction slice
// assignment), and initial (unconcatenated, single-slice) buffer setup.
// Buffer depth is grown later by the optimizer.
func setUpFunction(e *Engine, f *Function) error {
	for _, p := range f.Pins {
		if err := setUpPin(e, p); err != nil {
			return err
		}
	}

	if err := setUpBusTopology(f); err != nil {
		return err
	}

	if err := setUpClocking(f.ioSlice, f.Clock); err != nil {
		return err
	}
	setUpQualifier(f.ioSlice, f.Qualifier)

	f.bufferDepthOrder = 0
	if f.hasDirectionSlice {
		f.directionBufferDepthOrder = 0
	}

	setConcatenation(f.ioSlice, false, 0)
	e.slicesInUse |= 1 << uint(f.ioSlice)

	if f.hasDirectionSlice {
		setConcatenation(f.directionSlice, false, 0)
		e.slicesInUse |= 1 << uint(f.directionSlice)
	}

	return nil
}
