// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package lpc43xx

import (
	"time"

	"github.com/greatscottgadgets/libgreat/internal/reg"
)

// The CGU's built-in frequency monitor compares an unknown clock against a
// known-good reference: the reference clock drives a down-counting window
// (9 bits, so at most 0x1ff reference ticks), while the clock under test
// drives an up-counting, saturating observed-tick counter (14 bits, so at
// most 0x3fff ticks). If the observed counter saturates before the window
// completes, the measurement is approximate: the saturated count is used,
// plus one tick to compensate for stopping early.
const (
	freqMonReferenceMax = 0x1ff
	freqMonObservedMax  = 0x3fff

	// freqMonDividerAssistCutoffHz is the point above which the observed
	// counter would saturate even with the smallest usable window; above
	// it, measurement routes the clock under test through a free integer
	// divider first.
	freqMonDividerAssistCutoffHz = 240_000_000
	freqMonDividerAssistScale    = 4
)

// freqMonMuxValue returns the FREQ_MON clock-under-test select encoding for
// a concrete clock source. Only sources the monitor can directly observe
// are listed; everything else must go through divider-assisted measurement.
func freqMonMuxValue(source ClockSource) (uint32, bool) {
	switch source {
	case SourceInternalOscillator:
		return 0x1, true
	case SourceCrystal:
		return 0x6, true
	case SourcePLL0USB:
		return 0x7, true
	case SourcePLL0Audio:
		return 0x8, true
	case SourcePLL1:
		return 0x9, true
	case SourceIDivA:
		return 0xc + 0, true
	case SourceIDivB:
		return 0xc + 1, true
	case SourceIDivC:
		return 0xc + 2, true
	case SourceIDivD:
		return 0xc + 3, true
	case SourceIDivE:
		return 0xc + 4, true
	}
	return 0, false
}

// referenceFrequency returns the known-good reference clock used to time
// the measurement window: the internal oscillator's own last calibrated
// frequency, or its nominal 12 MHz before any calibration has happened.
func referenceFrequency() uint32 {
	if f := sources[SourceInternalOscillator].measuredFrequency; f != 0 {
		return f
	}
	return sources[SourceInternalOscillator].configuredFrequency
}

// runMeasurementWindow programs the monitor with a reference window of
// referenceTicks and preloads the observed counter so it saturates after
// exactly observedCap ticks rather than the counter's full 14-bit range,
// returning the observed tick count (relative to zero) together with
// whether the counter hit observedCap before the window completed. It
// reports false for ok if the window did not finish before deadline.
func runMeasurementWindow(muxValue uint32, referenceTicks uint32, observedCap uint32, deadline time.Time) (observed uint32, saturated bool, ok bool) {
	initial := freqMonObservedMax - observedCap

	reg.SetN(cguFreqMon, freqMonMuxPos, freqMonMuxMask, muxValue)
	reg.SetN(cguFreqMon, freqMonRCNTPos, freqMonReferenceMax, referenceTicks)
	reg.SetN(cguFreqMon, freqMonFCNTPos, freqMonObservedMax, initial)
	reg.Set(cguFreqMon, freqMonEnablePos)

	if !reg.WaitFor(time.Until(deadline), cguFreqMon, freqMonDonePos, 0x1, 1) {
		reg.Clear(cguFreqMon, freqMonEnablePos)
		return 0, false, false
	}

	raw := reg.Get(cguFreqMon, freqMonFCNTPos, freqMonObservedMax)
	saturated = raw >= freqMonObservedMax

	reg.Clear(cguFreqMon, freqMonEnablePos)

	return raw - initial, saturated, true
}

// detectClockSourceFrequencyDirectly measures a clock the monitor can
// observe directly. It first runs the widest possible window; if the
// window elapsed without the observed counter saturating, the window is
// narrowed one tick at a time, re-running the measurement capped to the
// same observed-tick count, until that count would no longer reproduce —
// eliminating the fractional-tick noise a too-wide window introduces,
// since the resulting window is the narrowest one that still contains the
// same integer number of observed-clock ticks. If the counter saturated
// instead, the observed count is nudged up by one to compensate for
// stopping before the window fully elapsed. Never runs past deadline.
func detectClockSourceFrequencyDirectly(muxValue uint32, deadline time.Time) uint32 {
	window := uint32(freqMonReferenceMax)

	observed, saturated, ok := runMeasurementWindow(muxValue, window, freqMonObservedMax, deadline)
	if !ok {
		return 0
	}
	if observed == 0 {
		// too slow to measure at all: not even one tick in the widest window
		return 0
	}

	if saturated {
		observed++
	} else {
		for window > 1 {
			if time.Now().After(deadline) {
				return 0
			}

			o, _, ok := runMeasurementWindow(muxValue, window-1, observed, deadline)
			if !ok {
				return 0
			}
			if o != observed {
				break
			}
			window--
		}
	}

	return uint32(uint64(observed) * uint64(referenceFrequency()) / uint64(window))
}

// detectClockSourceFrequencyViaDivider measures a clock too fast for direct
// measurement by first routing it through a free integer divider (divide by
// 4) and scaling the result back up.
func detectClockSourceFrequencyViaDivider(source ClockSource, deadline time.Time) (uint32, error) {
	divider, err := findFreeDivider()
	if err != nil {
		return 0, err
	}

	restore := routeDividerInput(divider, source, 4)
	defer restore()

	muxValue, ok := freqMonMuxValue(dividerClockSource(divider))
	if !ok {
		return 0, ErrClockSourceUnknown
	}

	measured := detectClockSourceFrequencyDirectly(muxValue, deadline)
	if measured == 0 {
		return 0, ErrClockSourceNotTicking
	}

	return measured * freqMonDividerAssistScale, nil
}

// detectUSBPLLFrequency is the USB PLL's special case: the USB PLL output is
// always measured through integer divider A (divide by 4), the divider it is
// routed to for this purpose, rather than by selecting PLL0USB on the monitor
// directly, regardless of its actual frequency.
func detectUSBPLLFrequency(deadline time.Time) (uint32, error) {
	restore := routeDividerInput(SourceIDivA, SourcePLL0USB, 4)
	defer restore()

	muxValue, _ := freqMonMuxValue(SourceIDivA)
	measured := detectClockSourceFrequencyDirectly(muxValue, deadline)
	if measured == 0 {
		return 0, ErrClockSourceNotTicking
	}

	return measured * freqMonDividerAssistScale, nil
}

// MeasureFrequency measures a concrete clock source's actual running
// frequency using the hardware frequency monitor, choosing direct,
// divider-assisted, or the USB-PLL special-case path as appropriate, and
// blocking no longer than timeout.
func MeasureFrequency(source ClockSource, timeout time.Duration) (uint32, error) {
	source = resolve(source)
	deadline := time.Now().Add(timeout)

	if source == SourcePLL0USB {
		return detectUSBPLLFrequency(deadline)
	}

	estimate := sources[source].configuredFrequency
	if estimate > freqMonDividerAssistCutoffHz {
		return detectClockSourceFrequencyViaDivider(source, deadline)
	}

	muxValue, ok := freqMonMuxValue(source)
	if !ok {
		return 0, ErrClockSourceUnknown
	}

	f := detectClockSourceFrequencyDirectly(muxValue, deadline)
	if f == 0 {
		return 0, ErrClockSourceNotTicking
	}

	return f, nil
}
