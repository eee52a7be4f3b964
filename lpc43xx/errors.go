// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package lpc43xx

import "errors"

// Error taxonomy for clock, timer, and reset operations.
var (
	// ErrClockSourceUnknown is returned for an out-of-range clock source
	// identifier.
	ErrClockSourceUnknown = errors.New("lpc43xx: unknown clock source")

	// ErrClockSourceNotTicking is returned when a clock source fails to
	// produce a plausible tick during bring-up.
	ErrClockSourceNotTicking = errors.New("lpc43xx: clock source is not ticking")

	// ErrClockSourceTimeout is returned when a clock source exceeds its
	// bring-up attempt budget without becoming ready.
	ErrClockSourceTimeout = errors.New("lpc43xx: clock source bring-up timed out")

	// ErrFrequencyOutOfRange is returned when a requested frequency falls
	// outside what the addressed PLL or divider can produce.
	ErrFrequencyOutOfRange = errors.New("lpc43xx: requested frequency out of range")

	// ErrPLLLockTimeout is returned when a PLL fails to assert lock within
	// its allotted time.
	ErrPLLLockTimeout = errors.New("lpc43xx: PLL failed to lock")

	// ErrNoFreeDivider is returned when the frequency monitor needs an
	// integer divider for divider-assisted measurement and none is free.
	ErrNoFreeDivider = errors.New("lpc43xx: no free integer divider")

	// ErrBaseClockInUse is returned when disabling a base clock is refused
	// because a branch clock enabled through EnableBranchClock still depends
	// on it. PLLs and other base clocks are not tracked as dependents.
	ErrBaseClockInUse = errors.New("lpc43xx: base clock still in use")

	// ErrBranchClockCritical is returned when disabling a branch clock is
	// refused because the platform never permits it to be cut.
	ErrBranchClockCritical = errors.New("lpc43xx: branch clock is critical and cannot be disabled")

	// ErrNotImplemented is returned by operations the original platform
	// left unimplemented (audio PLL bring-up, and bring-up of the Ethernet
	// and general-purpose clock-input pins).
	ErrNotImplemented = errors.New("lpc43xx: not implemented")

	// ErrNoTimerAvailable is returned when every hardware timer channel is
	// already allocated.
	ErrNoTimerAvailable = errors.New("lpc43xx: no timer channel available")
)
