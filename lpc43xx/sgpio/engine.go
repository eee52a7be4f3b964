// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sgpio

// PinConfig describes how a single physical pin is wired into a Function.
type PinConfig struct {
	Pin          int
	SCUGroup     int
	SCUPin       int
	PullResistor PullResistor
}

// PullResistor mirrors the SCU's pin bias options.
type PullResistor int

const (
	PullNone PullResistor = iota
	PullDown
	PullUp
)

// ClockSourceKind selects where a function's shift clock originates.
type ClockSourceKind int

const (
	// ClockSourceLocal generates the shift clock from the slice's own
	// local counter, dividing down the SGPIO peripheral clock.
	ClockSourceLocal ClockSourceKind = iota
	// ClockSourceSlice takes the shift clock from another slice's output.
	ClockSourceSlice
	// ClockSourcePin takes the shift clock from an external SGPIO pin.
	ClockSourcePin
)

// ClockEdge selects which shift clock transition causes a shift.
type ClockEdge int

const (
	ClockEdgeRising ClockEdge = iota
	ClockEdgeFalling
)

// ClockConfig describes a function's shift clock in full: its source, the
// slice or pin feeding it when the source isn't local, the active edge,
// and a target frequency. Frequency of zero requests the fastest rate the
// source allows (for a local clock, a divide-by-one).
type ClockConfig struct {
	Source    ClockSourceKind
	Selector  uint8
	Edge      ClockEdge
	Frequency uint32
}

// QualifierMode gates whether an active shift clock edge actually causes a
// shift: unconditionally, never, or conditioned on a slice's or pin's
// current logic level.
type QualifierMode int

const (
	QualifierAlways QualifierMode = iota
	QualifierNever
	QualifierSlice
	QualifierPin
)

// Qualifier optionally restricts shifting to a logic condition on another
// slice or pin rather than every active clock edge.
type Qualifier struct {
	Mode      QualifierMode
	Selector  uint8
	ActiveLow bool
}

// Function describes one planned use of the SGPIO hardware: a stream-in,
// stream-out, fixed-out, bidirectional, or clock-generation operation
// occupying one or more pins and the slice chain backing them.
type Function struct {
	Mode     Mode
	BusWidth int
	Pins     []PinConfig

	// BufferOrder is log2 of the caller-supplied data buffer's size in
	// bytes; it bounds how far the optimizer is allowed to grow the slice
	// chain.
	BufferOrder int

	// ShiftCountLimit, when non-zero, makes a fixed-data-out function play
	// its buffer once instead of repeating it; the value itself is not
	// programmed into the peripheral, and the shift clock keeps running
	// until Halt. Zero repeats the buffer until Halt.
	ShiftCountLimit uint32

	// clockPin is the pin sourcing (stream modes) or carrying (clock
	// generation mode) this function's shift clock.
	ClockPin int

	// Clock describes this function's shift clock: its source, edge, and
	// target frequency. The zero value asks for a locally generated clock
	// at the fastest rate the SGPIO peripheral clock allows.
	Clock ClockConfig

	// Qualifier optionally gates shifting to a slice's or pin's logic
	// level. The zero value (QualifierAlways) shifts on every active
	// clock edge, unconditionally.
	Qualifier Qualifier

	// populated by the planner
	ioSlice                   Slice
	directionSlice            Slice
	hasDirectionSlice         bool
	bufferDepthOrder          uint8
	directionBufferDepthOrder uint8

	// cursor is the shuttle ISR's read/write position into Buffer.
	cursor int

	// Buffer is the caller-owned backing store the ISR shuttles data
	// to/from. Its length must be at least (1 << BufferOrder) bytes.
	Buffer []byte
}

// Engine is a configured instance of the SGPIO peripheral: the set of
// functions it has been asked to run, and the bookkeeping needed to plan
// and optimize their slice usage.
type Engine struct {
	Functions []*Function

	slicesInUse    uint16
	pinsInUse      uint16
	swapIRQsNeeded uint16
	running        bool
}
