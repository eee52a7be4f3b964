// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package lpc43xx

import (
	"sync/atomic"
	"unsafe"
)

// ResetReason identifies why the system last came out of reset.
type ResetReason uint32

const (
	ResetReasonUnknown ResetReason = iota
	ResetReasonPowerCycle
	ResetReasonSoftReset
	ResetReasonUseExternalClock
	ResetReasonFault
	ResetReasonWatchdogTimeout
	ResetReasonNewFirmware
)

func (r ResetReason) String() string {
	switch r {
	case ResetReasonPowerCycle:
		return "power cycle"
	case ResetReasonSoftReset:
		return "software reset"
	case ResetReasonUseExternalClock:
		return "reset to switch to external clock"
	case ResetReasonFault:
		return "fault-induced reset"
	case ResetReasonWatchdogTimeout:
		return "watchdog timeout"
	case ResetReasonNewFirmware:
		return "firmware re-flash"
	default:
		return "unknown"
	}
}

// resetReasonValidMask is OR'd into every value written to the persistent
// reset-reason word. Its high byte makes an unintialized word (cold-boot
// SRAM garbage) overwhelmingly unlikely to look like a deliberately-set
// reason, the same trick the platform's own reset driver relies on.
const resetReasonValidMask = 0xaa550000

// resetReasonAddr is a fixed SRAM address excluded from zero-init by the
// linker script, preserved across a soft (non-power-cycle) reset.
const resetReasonAddr = 0x10000000

func resetReasonWord() *uint32 {
	return (*uint32)(unsafe.Pointer(uintptr(resetReasonAddr)))
}

var lastResetReason ResetReason

// InitResetDriver captures the reset reason left by the previous boot,
// determines whether persistent memory plausibly survived the reset, and
// resets the persistent word to unknown for the current run. It must run
// once, before anything else touches resetReasonAddr.
func InitResetDriver() {
	word := atomic.LoadUint32(resetReasonWord())

	lastResetReason = decodeResetReason(word)
	if !persistentMemoryLikelyIntact(word) {
		lastResetReason = ResetReasonPowerCycle
	}

	atomic.StoreUint32(resetReasonWord(), uint32(ResetReasonUnknown)|resetReasonValidMask)
}

func decodeResetReason(word uint32) ResetReason {
	return ResetReason(word &^ resetReasonValidMask)
}

func persistentMemoryLikelyIntact(word uint32) bool {
	return word&resetReasonValidMask == resetReasonValidMask
}

// LastResetReason returns the reason captured for the previous boot by
// InitResetDriver.
func LastResetReason() ResetReason {
	return lastResetReason
}

// Reset triggers a system reset, recording reason for the next boot to
// observe via LastResetReason. It never returns.
func Reset(reason ResetReason, includeAlwaysOnDomain bool) {
	atomic.StoreUint32(resetReasonWord(), uint32(reason)|resetReasonValidMask)
	platformSoftwareReset(includeAlwaysOnDomain)

	for {
	}
}

// platformSoftwareReset is the external collaborator that actually
// triggers the reset (SCB->AIRCR system reset request, plus the
// always-on-domain reset line this family exposes separately). Not
// redesigned by this package; declared here as the seam board code wires
// up, following this library's own pattern for hardware it treats as an
// external collaborator (the SCU pin mux, the NVIC).
var platformSoftwareReset = func(includeAlwaysOnDomain bool) {}
