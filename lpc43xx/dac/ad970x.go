// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package dac bit-bangs the configuration interface of an Analog Devices
// AD970x-family DAC: a 3-wire (SCK/CS/SDIO) serial bus used to set up the
// converter before its sample stream (usually driven separately, over
// SGPIO) starts.
package dac

import (
	"fmt"

	"github.com/greatscottgadgets/libgreat/lpc43xx"
)

const (
	directionRead  = 1 << 7
	directionWrite = 0 << 7
	widthByte      = 0 << 5
)

// AD970x is a connection to an AD970x-family DAC's configuration bus.
type AD970x struct {
	CS   lpc43xx.GPIOPin
	SCK  lpc43xx.GPIOPin
	Data lpc43xx.GPIOPin
	Mode lpc43xx.GPIOPin

	// ClockPeriodMicroseconds is the approximate bit-clock period. It is
	// halved into the per-edge delay, so an odd period is rounded down and a
	// period of 1 is rejected by Init; zero runs the bus as fast as
	// bit-banging allows.
	ClockPeriodMicroseconds uint32

	halfPeriod uint32
	timer      *lpc43xx.Timer
}

// Init configures the bus pins and validates the requested clock period.
func (d *AD970x) Init(timer *lpc43xx.Timer) error {
	d.timer = timer
	d.halfPeriod = d.ClockPeriodMicroseconds / 2

	if d.ClockPeriodMicroseconds != 0 && d.halfPeriod == 0 {
		return fmt.Errorf("dac: clock period %dus is too short to halve", d.ClockPeriodMicroseconds)
	}

	d.CS.SetDirection(true)
	d.SCK.SetDirection(true)
	d.Data.SetDirection(true)

	d.Mode.SetDirection(true)
	d.Mode.Clear() // keep the DAC in SPI mode

	d.CS.Set()
	d.SCK.Clear()

	return nil
}

func (d *AD970x) waitHalfPeriod() {
	if d.halfPeriod != 0 {
		d.timer.DelayMicroseconds(d.halfPeriod)
	}
}

func (d *AD970x) driveDataLine() {
	d.Data.SetDirection(true)
	d.waitHalfPeriod()
}

func (d *AD970x) releaseDataLine() {
	d.Data.SetDirection(false)
	d.waitHalfPeriod()
}

// sendBit and receiveBit both toggle SCK through one bit period; sendBit
// additionally drives Data beforehand, receiveBit samples it just before
// the clock's rising edge, mirroring the DAC's own falling-edge setup.
func (d *AD970x) receiveBit() bool {
	d.SCK.Clear()
	d.waitHalfPeriod()

	bit := d.Data.Read()

	d.SCK.Set()
	d.waitHalfPeriod()

	return bit
}

func (d *AD970x) sendBit(value bool) {
	d.Data.Write(value)
	d.receiveBit()
}

func (d *AD970x) startTransaction() {
	d.CS.Clear()
	d.waitHalfPeriod()
}

func (d *AD970x) endTransaction() {
	d.CS.Set()
	d.SCK.Clear()
	d.waitHalfPeriod()
}

func (d *AD970x) sendByte(value uint8) {
	d.driveDataLine()
	for i := 7; i >= 0; i-- {
		d.sendBit(value&(1<<uint(i)) != 0)
	}
}

func (d *AD970x) receiveByte() uint8 {
	d.releaseDataLine()

	var b uint8
	for i := 0; i < 8; i++ {
		var bit uint8
		if d.receiveBit() {
			bit = 1
		}
		b = (b << 1) | bit
	}
	return b
}

// ReadRegister reads a single configuration register over the bus.
func (d *AD970x) ReadRegister(address uint8) uint8 {
	command := directionRead | widthByte | address

	d.startTransaction()
	d.sendByte(command)
	value := d.receiveByte()
	d.endTransaction()

	return value
}

// WriteRegister writes a single configuration register over the bus.
func (d *AD970x) WriteRegister(address, value uint8) {
	command := directionWrite | widthByte | address

	d.startTransaction()
	d.sendByte(command)
	d.sendByte(value)
	d.endTransaction()
}
