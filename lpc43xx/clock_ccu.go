// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package lpc43xx

import (
	"fmt"

	"github.com/greatscottgadgets/libgreat/cm4"
	"github.com/greatscottgadgets/libgreat/internal/reg"
)

// BranchClock identifies one of the CCU's gated peripheral clock outputs: a
// leaf in the clock tree distinct from a BaseClock. Where a BaseClock picks
// a parent source for a whole CGU branch (BASE_UART0_CLK and so on), a
// BranchClock is the CCU-side gate that turns that branch's delivery to one
// specific peripheral on and off, and can itself depend on another branch
// clock (a shared bus clock) rather than directly on a base clock.
type BranchClock int

const (
	BranchM4Bus BranchClock = iota
	BranchM4Core
	BranchM4Timer0
	BranchM4Timer1
	BranchM4Timer2
	BranchM4Timer3
	BranchM4UART0
	BranchM4UART1
	BranchM4UART2
	BranchM4UART3
	BranchPeriphBus
	BranchPeriphSGPIO

	numBranchClocks
)

func (b BranchClock) String() string {
	switch b {
	case BranchM4Bus:
		return "M4_BUS"
	case BranchM4Core:
		return "M4_CORE"
	case BranchM4Timer0:
		return "M4_TIMER0"
	case BranchM4Timer1:
		return "M4_TIMER1"
	case BranchM4Timer2:
		return "M4_TIMER2"
	case BranchM4Timer3:
		return "M4_TIMER3"
	case BranchM4UART0:
		return "M4_USART0"
	case BranchM4UART1:
		return "M4_UART1"
	case BranchM4UART2:
		return "M4_USART2"
	case BranchM4UART3:
		return "M4_USART3"
	case BranchPeriphBus:
		return "PERIPH_BUS"
	case BranchPeriphSGPIO:
		return "PERIPH_SGPIO"
	}
	return "UNKNOWN"
}

// branchClockAddr returns the CCU1 control-register address for b, laid
// out the way the real CCU1 register block groups its branch-clock pairs
// into per-bus-bank regions (m4.*, periph.*): each entry is an 8-byte
// control/current register pair, addresses here following that banking
// shape rather than a verified offset table.
func branchClockAddr(b BranchClock) uint32 {
	switch b {
	case BranchM4Bus:
		return ccu1Base + 0x400
	case BranchM4Core:
		return ccu1Base + 0x448
	case BranchM4Timer0:
		return ccu1Base + 0x520
	case BranchM4Timer1:
		return ccu1Base + 0x528
	case BranchM4Timer2:
		return ccu1Base + 0x618
	case BranchM4Timer3:
		return ccu1Base + 0x620
	case BranchM4UART0:
		return ccu1Base + 0x508
	case BranchM4UART1:
		return ccu1Base + 0x510
	case BranchM4UART2:
		return ccu1Base + 0x608
	case BranchM4UART3:
		return ccu1Base + 0x610
	case BranchPeriphBus:
		return ccu1Base + 0x700
	case BranchPeriphSGPIO:
		return ccu1Base + 0x710
	}
	return 0
}

func branchControlAddr(b BranchClock) uint32 { return branchClockAddr(b) }
func branchCurrentAddr(b BranchClock) uint32 { return branchClockAddr(b) + 4 }

// CCU branch clock CONTROL/CURRENT register field positions, identical
// shape for every branch clock pair.
const (
	branchEnablePos      = 0
	branchAutoDisablePos = 1 // disable once outstanding bus transactions complete
	branchWakePos        = 2 // re-enable automatically after a power-down
	branchDivisorPos     = 5
	branchDivisorMask    = 0x7

	branchCurrentEnabledPos  = 0
	branchCurrentDisabledPos = 5
)

// branchBaseClockOf returns the BaseClock b's delivery ultimately depends
// on, for the branch clocks that are driven directly by a CGU base clock
// rather than purely by another branch clock.
func branchBaseClockOf(b BranchClock) (BaseClock, bool) {
	switch b {
	case BranchM4Bus, BranchM4Core, BranchM4Timer0, BranchM4Timer1, BranchM4Timer2, BranchM4Timer3:
		return BaseM4, true
	case BranchM4UART0:
		return BaseUART0, true
	case BranchM4UART1:
		return BaseUART1, true
	case BranchM4UART2:
		return BaseUART2, true
	case BranchM4UART3:
		return BaseUART3, true
	case BranchPeriphSGPIO:
		return BaseSGPIO, true
	}
	return 0, false
}

// branchBusClockOf returns the other branch clock b depends on being
// enabled first (the shared bus clock gating its CCU bank), for branch
// clocks that have one.
func branchBusClockOf(b BranchClock) (BranchClock, bool) {
	switch b {
	case BranchM4Core, BranchM4Timer0, BranchM4Timer1, BranchM4Timer2, BranchM4Timer3,
		BranchM4UART0, BranchM4UART1, BranchM4UART2, BranchM4UART3:
		return BranchM4Bus, true
	case BranchPeriphSGPIO:
		return BranchPeriphBus, true
	}
	return 0, false
}

// branchClockDivideable reports whether b has a working divide-by-two
// field; most branch clocks don't.
func branchClockDivideable(b BranchClock) bool {
	return false
}

// branchMustRemainOn lists the branch clocks the platform never permits a
// caller to disable outright: the M4 core's own bus and core clocks, since
// cutting either would stop the processor fetching the instruction that
// asked to cut it.
var branchMustRemainOn = map[BranchClock]bool{
	BranchM4Bus:  true,
	BranchM4Core: true,
}

type branchClockState struct {
	enabled  bool
	useCount int
}

var branchClocks [numBranchClocks]branchClockState

// EnableBranchClock brings up b's dependency chain — its CGU base clock if
// it has one, then its bus-clock parent if it has one, recursively — before
// gating b itself on. divideByTwo requests the branch's optional /2 divider
// where the branch supports one; it is ignored otherwise.
func EnableBranchClock(b BranchClock, divideByTwo bool) error {
	if b < 0 || b >= numBranchClocks {
		return fmt.Errorf("lpc43xx: unknown branch clock %d", b)
	}

	if base, ok := branchBaseClockOf(b); ok {
		if !baseClocks[base].enabled {
			if err := SetBaseClockSource(base, SourcePrimary, 0); err != nil {
				logWarning.Printf("failed to bring up base clock for branch %s: %v", b, err)
			}
		}
		if !branchClocks[b].enabled {
			baseClocks[base].useCount++
		}
	}

	if bus, ok := branchBusClockOf(b); ok {
		if err := EnableBranchClock(bus, false); err != nil {
			return err
		}
		branchClocks[bus].useCount++
	}

	addr := branchControlAddr(b)
	reg.Clear(addr, branchAutoDisablePos)
	reg.Clear(addr, branchWakePos)
	if branchClockDivideable(b) {
		if divideByTwo {
			reg.SetN(addr, branchDivisorPos, branchDivisorMask, 1)
		} else {
			reg.SetN(addr, branchDivisorPos, branchDivisorMask, 0)
		}
	}
	reg.Set(addr, branchEnablePos)

	branchClocks[b].enabled = true

	return nil
}

// DisableBranchClock gates b off, refusing if b is one of the platform's
// critical branch clocks. Per the CCU's own two-step shutdown requirement,
// this sets auto-disable-on-idle and wake-after-powerdown first, separated
// by a barrier from the enable-bit clear, rather than cutting the clock
// immediately out from under any transaction already in flight. If b was
// the last user of a bus-clock parent, that parent is released too.
func DisableBranchClock(b BranchClock) error {
	if b < 0 || b >= numBranchClocks {
		return fmt.Errorf("lpc43xx: unknown branch clock %d", b)
	}
	if branchMustRemainOn[b] {
		return ErrBranchClockCritical
	}

	addr := branchControlAddr(b)
	reg.Set(addr, branchAutoDisablePos)
	reg.Set(addr, branchWakePos)
	cm4.DataMemoryBarrier()
	reg.Clear(addr, branchEnablePos)

	branchClocks[b].enabled = false

	if base, ok := branchBaseClockOf(b); ok && baseClocks[base].useCount > 0 {
		baseClocks[base].useCount--
	}

	if bus, ok := branchBusClockOf(b); ok && branchClocks[bus].useCount > 0 {
		branchClocks[bus].useCount--
		if branchClocks[bus].useCount == 0 && !branchMustRemainOn[bus] {
			DisableBranchClock(bus)
		}
	}

	return nil
}

// BranchClockRunning reports the CCU's own live status for b: whether
// hardware currently reports the clock enabled and not disabled, as
// opposed to merely what this package last commanded.
func BranchClockRunning(b BranchClock) bool {
	if b < 0 || b >= numBranchClocks {
		return false
	}
	addr := branchCurrentAddr(b)
	return reg.Get(addr, branchCurrentEnabledPos, 0x1) != 0 && reg.Get(addr, branchCurrentDisabledPos, 0x1) == 0
}
