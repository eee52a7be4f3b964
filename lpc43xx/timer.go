// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package lpc43xx

import (
	"time"

	"github.com/greatscottgadgets/libgreat/internal/reg"
)

// The LPC43xx has four general-purpose 32-bit timer blocks; this façade
// allocates one at a time to callers and keeps the rest free, the way the
// platform's own timer driver hands out channels rather than hard-wiring
// one.
const numTimers = 4

var timerBase = [numTimers]uint32{
	0x40084000, // TIMER0
	0x40085000, // TIMER1
	0x400C3000, // TIMER2
	0x400C4000, // TIMER3
}

// Timer register offsets, common across all four blocks.
const (
	timerIR  = 0x00
	timerTCR = 0x04
	timerTC  = 0x08
	timerPR  = 0x0c
	timerPC  = 0x10
	timerMCR = 0x14
	timerMR0 = 0x18
)

const (
	tcrEnablePos = 0
	tcrResetPos  = 1
)

type Timer struct {
	index   int
	base    uint32
	freqHz  uint32
	inUse   bool
}

var timers [numTimers]Timer

func init() {
	for i := range timers {
		timers[i] = Timer{index: i, base: timerBase[i]}
	}
}

// AllocateTimer reserves a free hardware timer channel clocked from base,
// returning ErrNoTimerAvailable if every channel is already taken.
func AllocateTimer(base BaseClock) (*Timer, error) {
	for i := range timers {
		if !timers[i].inUse {
			timers[i].inUse = true
			t := &timers[i]
			RegisterFrequencyChangeConsumer(base, t.onFrequencyChange)
			return t, nil
		}
	}
	return nil, ErrNoTimerAvailable
}

// Free releases a timer channel back to the allocator.
func (t *Timer) Free() {
	reg.Clear(t.base+timerTCR, tcrEnablePos)
	t.inUse = false
	t.freqHz = 0
}

// onFrequencyChange recomputes the timer's prescaler whenever its feeding
// base clock's effective frequency changes, so a one-microsecond tick
// period survives a clock-tree change transparently to callers already
// holding a *Timer.
func (t *Timer) onFrequencyChange(freqHz uint32) {
	t.freqHz = freqHz
	if freqHz == 0 {
		return
	}
	// one tick per microsecond
	prescale := freqHz/1_000_000 - 1
	reg.Write(t.base+timerPR, prescale)
}

// Start enables free-running counting from zero.
func (t *Timer) Start() {
	reg.Write(t.base+timerTCR, 1<<tcrResetPos)
	reg.Write(t.base+timerTCR, 1<<tcrEnablePos)
}

// Ticks returns the current tick count, in microseconds since Start. It
// overflows roughly once per hour at the nominal one-tick-per-microsecond
// rate; callers tracking spans longer than that should use a real-time
// clock instead.
func (t *Timer) Ticks() uint32 {
	return reg.Read(t.base + timerTC)
}

// DelayMicroseconds busy-waits for approximately us microseconds, measured
// against this timer's own free-running count.
func (t *Timer) DelayMicroseconds(us uint32) {
	start := t.Ticks()
	for t.Ticks()-start < us {
	}
}

// Delay busy-waits for approximately d, rounding down to the microsecond.
func (t *Timer) Delay(d time.Duration) {
	t.DelayMicroseconds(uint32(d / time.Microsecond))
}
