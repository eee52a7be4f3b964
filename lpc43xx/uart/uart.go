// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package uart drives the LPC43xx's NS16550-compatible UART blocks.
package uart

import (
	"fmt"
	"time"

	"github.com/greatscottgadgets/libgreat/lpc43xx"
	"github.com/greatscottgadgets/libgreat/internal/reg"
	"github.com/greatscottgadgets/libgreat/ringbuffer"
)

const parentClockMeasurementTimeout = 10 * time.Millisecond

const (
	// base addresses

	UART0Base uint32 = 0x40081000
	UART1Base        = 0x40082000
	UART2Base        = 0x400C1000
	UART3Base        = 0x400C2000

	// register offsets, DLAB = 0

	RBR = 0x000 // receive buffer register (read)
	THR = 0x000 // transmit holding register (write)
	IER = 0x004 // interrupt enable register
	IIR = 0x008 // interrupt identification register (read)
	FCR = 0x008 // FIFO control register (write)
	LCR = 0x00c // line control register
	MCR = 0x010 // modem control register
	LSR = 0x014 // line status register
	SCR = 0x01c // scratch register
	FDR = 0x028 // fractional divisor register

	// register offsets, DLAB = 1

	DLL = 0x000 // divisor latch, LSB
	DLM = 0x004 // divisor latch, MSB

	// IER bit positions

	IERRBRInterrupt = 0 // receive data available
	IERTHREInterrupt = 1 // transmit holding register empty

	// LCR bit positions

	LCRWordLengthPos  = 0
	LCRWordLengthMask = 0x3
	LCRStopBits2      = 2
	LCRParityEnable   = 3
	LCRParityTypePos  = 4
	LCRParityTypeMask = 0x3
	LCRBreakControl   = 6
	LCRDLAB           = 7

	// LSR bit positions

	LSRRxDataReady    = 0
	LSRTxHoldingEmpty = 5
	LSRTxEmpty        = 6

	// IIR bit positions

	IIRNoInterruptPending = 0
	IIRInterruptIDPos     = 1
	IIRInterruptIDMask    = 0x7

	// FCR bit positions

	FCREnable      = 0
	FCRRxFIFOReset = 1
	FCRTxFIFOReset = 2

	// FDR bit positions

	FDRDivAddValPos  = 0
	FDRDivAddValMask = 0xf
	FDRMulValPos     = 4
	FDRMulValMask    = 0xf

	interruptIDReceiveDataAvailable = 0x2
)

// Parity selects a UART's parity checking mode.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

// StopBits selects the number of stop bits a UART frames each word with.
type StopBits int

const (
	OneStopBit StopBits = iota
	TwoStopBits
)

// UART is a single NS16550-compatible serial port.
type UART struct {
	base uint32

	DataBits int
	Parity   Parity
	StopBits StopBits
	BaudRate uint32

	baudRateAchieved uint32
	parentClockHz    uint32

	rx *ringbuffer.Buffer
	tx *ringbuffer.Buffer
}

// ports are the four UART blocks addressable on an LPC43xx part.
var ports = [4]*UART{
	{base: UART0Base, DataBits: 8, BaudRate: 115200},
	{base: UART1Base, DataBits: 8, BaudRate: 115200},
	{base: UART2Base, DataBits: 8, BaudRate: 115200},
	{base: UART3Base, DataBits: 8, BaudRate: 115200},
}

// Port returns one of the four UART blocks by index (0-3).
func Port(index int) (*UART, error) {
	if index < 0 || index >= len(ports) {
		return nil, fmt.Errorf("uart: invalid port %d", index)
	}
	return ports[index], nil
}

func (u *UART) reg(offset uint32) uint32 { return u.base + offset }

// Init configures the port's framing, applies its baud rate, and brings
// its transmitter up. If bufferSize is non-zero, receive interrupts are
// enabled and incoming bytes are queued into an internal ring buffer for
// later retrieval by Read.
func (u *UART) Init(base lpc43xx.BaseClock, bufferSize int) error {
	if err := lpc43xx.SetBaseClockSource(base, lpc43xx.SourcePLL1, 0); err != nil {
		return err
	}
	u.parentClockHz, _ = lpc43xx.MeasureFrequency(lpc43xx.SourcePLL1, parentClockMeasurementTimeout)

	reg.Set(u.reg(FCR), FCREnable)
	reg.Set(u.reg(FCR), FCRRxFIFOReset)
	reg.Set(u.reg(FCR), FCRTxFIFOReset)
	reg.Clear(u.reg(FCR), FCREnable)

	for reg.Get(u.reg(LSR), LSRRxDataReady, 0x1) != 0 {
		reg.Read(u.reg(RBR))
	}

	reg.Write(u.reg(IER), 0)

	reg.SetN(u.reg(LCR), LCRWordLengthPos, LCRWordLengthMask, uint32(u.DataBits-5))
	if u.Parity != ParityNone {
		reg.Set(u.reg(LCR), LCRParityEnable)
		if u.Parity == ParityEven {
			reg.SetN(u.reg(LCR), LCRParityTypePos, LCRParityTypeMask, 0x1)
		}
	}
	if u.StopBits == TwoStopBits {
		reg.Set(u.reg(LCR), LCRStopBits2)
	}
	reg.Clear(u.reg(LCR), LCRBreakControl)

	if u.SetBaudRate(u.BaudRate) == 0 {
		return fmt.Errorf("uart: baud rate %d unachievable at a %d Hz parent clock", u.BaudRate, u.parentClockHz)
	}

	if bufferSize > 0 {
		u.rx = ringbuffer.New(bufferSize)
		u.tx = ringbuffer.New(bufferSize)
		reg.Set(u.reg(IER), IERRBRInterrupt)
	}

	return nil
}

// divideAndRound computes numerator/denominator rounded to the nearest
// integer using one fixed-point bit, avoiding a float division.
func divideAndRound(numerator, denominator uint32) uint32 {
	return (2*numerator/denominator + 1) / 2
}

func integerDivisorFor(parentClockHz, baudRate uint32, mul, div uint8) uint32 {
	if div == 0 {
		return divideAndRound(parentClockHz, 16*baudRate)
	}
	return divideAndRound(parentClockHz*uint32(mul), 16*baudRate*uint32(mul+div))
}

func achievedBaudRate(parentClockHz uint32, mul, div uint8, integerDivisor uint32) uint32 {
	if div == 0 {
		return parentClockHz / (16 * integerDivisor)
	}
	fractionalRatio := 1.0 + float64(div)/float64(mul)
	actualDivisor := 16.0 * float64(integerDivisor) * fractionalRatio
	return uint32(float64(parentClockHz) / actualDivisor)
}

func baudRateError(desired int64, achieved uint32) uint32 {
	if int64(achieved) < desired {
		return uint32(desired - int64(achieved))
	}
	return uint32(int64(achieved) - desired)
}

// SetBaudRate searches the fractional/integer divider space for the
// combination producing the baud rate closest to baudRate and applies it,
// returning the actual rate achieved, or zero if none could be found.
func (u *UART) SetBaudRate(baudRate uint32) uint32 {
	var bestMul, bestDiv uint8
	var bestIntegerDiv uint32
	bestError := ^uint32(0)

	for div := uint8(0); div < 14; div++ {
		for mul := uint8(1); mul < 16; mul++ {
			if div >= mul {
				continue
			}
			if div == 0 && mul > 1 {
				continue
			}

			integerDiv := integerDivisorFor(u.parentClockHz, baudRate, mul, div)
			if integerDiv == 0 || integerDiv >= (1<<16) {
				continue
			}

			achieved := achievedBaudRate(u.parentClockHz, mul, div, integerDiv)
			err := baudRateError(int64(baudRate), achieved)
			if err < bestError {
				bestMul, bestDiv, bestIntegerDiv, bestError = mul, div, integerDiv, err
			}
		}
	}

	if bestMul == 0 {
		return 0
	}

	reg.SetN(u.reg(FDR), FDRDivAddValPos, FDRDivAddValMask, uint32(bestDiv))
	reg.SetN(u.reg(FDR), FDRMulValPos, FDRMulValMask, uint32(bestMul))

	reg.Set(u.reg(LCR), LCRDLAB)
	reg.Write(u.reg(DLL), bestIntegerDiv&0xff)
	reg.Write(u.reg(DLM), bestIntegerDiv>>8)
	reg.Clear(u.reg(LCR), LCRDLAB)

	u.baudRateAchieved = achievedBaudRate(u.parentClockHz, bestMul, bestDiv, bestIntegerDiv)
	u.BaudRate = baudRate

	return u.baudRateAchieved
}

// HandleInterrupt services a pending UART interrupt, draining a received
// byte into the receive ring buffer.
func (u *UART) HandleInterrupt() {
	if reg.Get(u.reg(IIR), IIRNoInterruptPending, 0x1) != 0 {
		return
	}
	id := reg.Get(u.reg(IIR), IIRInterruptIDPos, IIRInterruptIDMask)
	if id == interruptIDReceiveDataAvailable && u.rx != nil {
		u.rx.EnqueueOverwrite(byte(reg.Read(u.reg(RBR))))
	}
}

// Read drains up to len(p) bytes already received into the internal ring
// buffer, returning the count actually read. It never blocks.
func (u *UART) Read(p []byte) int {
	if u.rx == nil {
		return 0
	}
	n := 0
	for n < len(p) {
		b, ok := u.rx.Dequeue()
		if !ok {
			break
		}
		p[n] = b
		n++
	}
	return n
}

// WriteByteSynchronous blocks until the transmit holding register is
// empty, then writes a single byte.
func (u *UART) WriteByteSynchronous(b byte) {
	for reg.Get(u.reg(LSR), LSRTxHoldingEmpty, 0x1) == 0 {
	}
	reg.Write(u.reg(THR), uint32(b))
}

// Write synchronously transmits every byte of p.
func (u *UART) Write(p []byte) (int, error) {
	for _, b := range p {
		u.WriteByteSynchronous(b)
	}
	return len(p), nil
}
