// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package lpc43xx provides register-level support for the NXP/Microsemi
// LPC43xx Cortex-M4 microcontroller family: its clock tree, system timers,
// reset-reason tracking, and pin mux, in the idiom of a monolithic per-SoC
// support package with feature subpackages for larger peripherals.
package lpc43xx

import (
	"errors"
	"fmt"
	"time"
)

// ClockSource identifies a node in the clock tree: a crystal, internal
// oscillator, PLL, integer divider, or one of the two virtual tokens that
// get resolved to a concrete source through a board-supplied hook.
type ClockSource int

const (
	SourceInternalOscillator ClockSource = iota // IRC, nominally 12 MHz
	SourceCrystal                               // external XTAL
	SourceEnetRX
	SourceEnetTX
	SourceGPClockIn
	SourcePLL0USB
	SourcePLL0Audio
	SourcePLL1
	SourceIDivA
	SourceIDivB
	SourceIDivC
	SourceIDivD
	SourceIDivE

	// SourcePrimary and SourcePrimaryInput are virtual tokens: they never
	// appear as a register field value. They are resolved, via
	// PrimaryClockSource/PrimaryClockInput, to whichever concrete PLL or
	// crystal a board has wired as its main system clock and that PLL's
	// reference input, respectively.
	SourcePrimary
	SourcePrimaryInput

	numClockSources
)

func (s ClockSource) String() string {
	switch s {
	case SourceInternalOscillator:
		return "IRC"
	case SourceCrystal:
		return "XTAL"
	case SourceEnetRX:
		return "ENET_RX"
	case SourceEnetTX:
		return "ENET_TX"
	case SourceGPClockIn:
		return "GP_CLKIN"
	case SourcePLL0USB:
		return "PLL0USB"
	case SourcePLL0Audio:
		return "PLL0AUDIO"
	case SourcePLL1:
		return "PLL1"
	case SourceIDivA:
		return "IDIVA"
	case SourceIDivB:
		return "IDIVB"
	case SourceIDivC:
		return "IDIVC"
	case SourceIDivD:
		return "IDIVD"
	case SourceIDivE:
		return "IDIVE"
	case SourcePrimary:
		return "PRIMARY"
	case SourcePrimaryInput:
		return "PRIMARY_INPUT"
	}
	return "UNKNOWN"
}

// clockSourceConfig tracks the live state of one clock tree node: whether
// it has been brought up, its nominal and last-measured frequency, its
// parent in the tree, and how many consecutive bring-up attempts have
// failed.
type clockSourceConfig struct {
	upAndOkay           bool
	configuredFrequency uint32
	measuredFrequency   uint32
	parent              ClockSource
	failureCount        int
}

// maxBringupAttempts bounds retries of a single clock source before bring-up
// gives up and reports a timeout; matches the platform's own cutoff.
const maxBringupAttempts = 5

var sources = [numClockSources]clockSourceConfig{
	SourceInternalOscillator: {upAndOkay: true, configuredFrequency: 12_000_000},
	SourceCrystal:            {configuredFrequency: 12_000_000},
	SourcePLL0USB:            {configuredFrequency: 480_000_000, parent: SourcePrimaryInput},
	SourcePLL1:               {configuredFrequency: 204_000_000, parent: SourcePrimaryInput},
}

// PrimaryClockSource resolves the SourcePrimary virtual token to the
// concrete PLL a board has wired as its main system clock. The default
// assumes PLL1 driving the M4 core directly, the platform's own default
// board configuration; a board with a different topology overrides this
// before calling Init.
var PrimaryClockSource = func() ClockSource { return SourcePLL1 }

// PrimaryClockInput resolves the SourcePrimaryInput virtual token to the
// oscillator feeding the primary PLL. The default assumes the external
// crystal is present and used, overridable for crystal-less boards that run
// from the internal oscillator.
var PrimaryClockInput = func() ClockSource { return SourceCrystal }

// resolve turns a (possibly virtual) clock source into a concrete one.
func resolve(source ClockSource) ClockSource {
	switch source {
	case SourcePrimary:
		return PrimaryClockSource()
	case SourcePrimaryInput:
		return PrimaryClockInput()
	default:
		return source
	}
}

// EnsureUp brings a clock source up if it is not already running, resolving
// and bringing up its dependencies first. It is the clock tree's dependency
// solver: every PLL, divider, and base clock enable goes through this
// before being trusted.
func EnsureUp(source ClockSource) error {
	source = resolve(source)

	if source < 0 || source >= numClockSources {
		return ErrClockSourceUnknown
	}

	cfg := &sources[source]
	if cfg.upAndOkay {
		return nil
	}

	if cfg.failureCount >= maxBringupAttempts {
		return fmt.Errorf("%w: %s", ErrClockSourceTimeout, source)
	}

	if err := bringUp(source); err != nil {
		cfg.failureCount++

		if errors.Is(err, ErrClockSourceNotTicking) && source != SourceInternalOscillator {
			logWarning.Printf("clock source %s failed to start (attempt %d/%d): %v, falling back to IRC",
				source, cfg.failureCount, maxBringupAttempts, err)
			return fallbackToInternalOscillator(source)
		}

		return err
	}

	cfg.failureCount = 0
	cfg.upAndOkay = true

	handleFrequencyChange(source)

	return nil
}

// fallbackToInternalOscillator is the bring-up path taken each time a clock
// source's hardware fails to start: it brings up the always-available
// internal oscillator, and EnsureUp reports success once that is up.
// SetBaseClockSource then selects the internal oscillator in place of the
// failed source. The failed source itself stays down; later EnsureUp calls
// retry it until its failure count reaches maxBringupAttempts, after which
// they return ErrClockSourceTimeout.
func fallbackToInternalOscillator(failed ClockSource) error {
	if failed == SourceInternalOscillator {
		return ErrClockSourceNotTicking
	}
	return EnsureUp(SourceInternalOscillator)
}

// bringUp dispatches to the hardware-specific bring-up sequence for a
// concrete clock source. This is the dependency-solver's per-node handler:
// it recursively ensures the node's own dependencies are up before touching
// hardware.
func bringUp(source ClockSource) error {
	switch source {
	case SourceInternalOscillator:
		return nil // always running, never needs bring-up

	case SourceCrystal:
		return bringUpCrystal()

	case SourcePLL0USB:
		if err := EnsureUp(SourcePrimaryInput); err != nil {
			return err
		}
		return bringUpUSBPLL()

	case SourcePLL1:
		if err := EnsureUp(SourcePrimaryInput); err != nil {
			return err
		}
		return bringUpMainPLL(&sources[SourcePLL1])

	case SourcePLL0Audio, SourceEnetRX, SourceEnetTX, SourceGPClockIn:
		return ErrNotImplemented

	case SourceIDivA, SourceIDivB, SourceIDivC, SourceIDivD, SourceIDivE:
		return bringUpDivider(source)

	default:
		return fmt.Errorf("%w: %s", ErrClockSourceUnknown, source)
	}
}

// verifySourceFrequency measures a clock source with the hardware frequency
// monitor and records the result as its measured frequency. It fails only if
// the measurement fails; the measured value is not compared against the
// configured frequency. It is the bring-up path's final step before a
// source is trusted as up_and_okay.
func verifySourceFrequency(source ClockSource, timeout time.Duration) error {
	measured, err := MeasureFrequency(source, timeout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrClockSourceNotTicking, err)
	}

	sources[source].measuredFrequency = measured
	return nil
}
