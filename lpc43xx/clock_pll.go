// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package lpc43xx

import (
	"time"

	"github.com/greatscottgadgets/libgreat/cm4"
	"github.com/greatscottgadgets/libgreat/internal/reg"
)

// bringUpCrystal enables the external crystal oscillator, clearing its
// bypass path first and holding a settling delay before the source is
// trusted. The barrier between clearing bypass and enabling the oscillator
// mirrors the platform's own requirement that the two writes never be
// reordered or combined.
func bringUpCrystal() error {
	reg.Clear(cguXtalOscCtrl, xtalOscBypassPos)
	cm4.DataMemoryBarrier()
	reg.Clear(cguXtalOscCtrl, xtalOscEnablePos)

	time.Sleep(250 * time.Microsecond)
	time.Sleep(2500 * time.Microsecond)

	return verifySourceFrequency(SourceCrystal, time.Second)
}

// Main PLL (PLL1) parameter search bounds, matching the platform's own.
const (
	mainPLLInputDivisorMax  = 3
	mainPLLInputHighBoundHz = 25_000_000
	mainPLLInputLowBoundHz  = 10_000_000
	mainPLLCCOLowBoundHz    = 156_000_000
	mainPLLCCOHighBoundHz   = 320_000_000
	mainPLLOutputLowBoundHz = 9_750_000
	mainPLLLockTimeout      = 1 * time.Second

	cpuSoftStartThresholdHz = 110_000_000
	cpuSoftStartHold        = 50 * time.Microsecond
)

// mainPLLParameters is the result of searching for M/N/P values that
// produce a target frequency from a given input.
type mainPLLParameters struct {
	inputDivisorN  uint32 // pre-divide the input above 25 MHz
	feedbackM      uint32
	outputDivisorP uint32
	directOutput   bool // CCO directly drives the output (P bypassed)
	useFeedbackDiv bool // non-integer feedback mode in use
}

// configureMainPLLParameters searches for M/N/P parameters that bring PLL1
// from inputHz to as close to targetHz as the CCO's valid range allows,
// pre-dividing the input when it exceeds the PLL's direct-feedback limit
// and compensating for the CCO's 156 MHz floor by doubling the target and
// engaging the output divider. It fails if targetHz is outside the PLL's
// reachable output range, or if the input is still too high to drive the
// PLL even after the maximum pre-divide.
func configureMainPLLParameters(inputHz, targetHz uint32) (mainPLLParameters, error) {
	var p mainPLLParameters

	if targetHz > mainPLLCCOHighBoundHz {
		return p, ErrFrequencyOutOfRange
	}
	if targetHz < mainPLLOutputLowBoundHz {
		return p, ErrFrequencyOutOfRange
	}

	effectiveInput := inputHz
	p.inputDivisorN = 1
	for effectiveInput > mainPLLInputHighBoundHz {
		p.inputDivisorN++
		effectiveInput = inputHz / p.inputDivisorN
	}
	if p.inputDivisorN > mainPLLInputDivisorMax {
		return p, ErrFrequencyOutOfRange
	}

	ccoTarget := targetHz
	p.outputDivisorP = 1
	p.directOutput = true

	for ccoTarget < mainPLLCCOLowBoundHz {
		ccoTarget *= 2
		p.outputDivisorP *= 2
		p.directOutput = false
	}

	p.feedbackM = (ccoTarget + effectiveInput/2) / effectiveInput
	if p.feedbackM == 0 {
		p.feedbackM = 1
	}

	p.useFeedbackDiv = false

	return p, nil
}

// bringUpMainPLL brings PLL1 up at its configured target frequency from
// whatever source PrimaryClockInput resolves to. It makes a single attempt;
// EnsureUp counts failed attempts against maxBringupAttempts.
func bringUpMainPLL(cfg *clockSourceConfig) error {
	input := resolve(SourcePrimaryInput)
	inputFreq := sources[input].measuredFrequency
	if inputFreq == 0 {
		inputFreq = sources[input].configuredFrequency
	}
	if inputFreq < mainPLLInputLowBoundHz {
		return ErrFrequencyOutOfRange
	}

	params, err := configureMainPLLParameters(inputFreq, cfg.configuredFrequency)
	if err != nil {
		return err
	}

	reg.Set(cguPLL1Ctrl, pll1CtrlBypassPos)
	reg.SetN(cguPLL1Ctrl, pll1CtrlNPos, pll1CtrlNMask, params.inputDivisorN-1)
	reg.SetN(cguPLL1Ctrl, pll1CtrlMPos, pll1CtrlMMask, params.feedbackM-1)

	if params.directOutput {
		reg.Set(cguPLL1Ctrl, pll1CtrlDirectPos)
	} else {
		reg.Clear(cguPLL1Ctrl, pll1CtrlDirectPos)
		reg.SetN(cguPLL1Ctrl, pll1CtrlPPos, pll1CtrlPMask, outputDivisorEncoding(params.outputDivisorP))
	}

	reg.Set(cguPLL1Ctrl, pll1CtrlEnablePos)

	if !reg.WaitFor(mainPLLLockTimeout, cguPLL1Stat, pll1StatLockPos, 0x1, 1) {
		return ErrPLLLockTimeout
	}

	reg.Clear(cguPLL1Ctrl, pll1CtrlBypassPos)

	return verifySourceFrequency(SourcePLL1, mainPLLLockTimeout)
}

// outputDivisorEncoding converts a /1,/2,/4,/8 output divisor into the
// 2-bit PSEL field encoding (0=1,1=2,2=4,3=8).
func outputDivisorEncoding(p uint32) uint32 {
	switch p {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	}
	return 0
}

// softStartCPUClock brings the M4 core base clock up to a target frequency
// above the soft-start threshold without ever glitching the core while
// PLL1 relocks: it switches the core to the always-available internal
// oscillator, reprograms PLL1 for the target, switches back, then engages
// and disengages an output divider to momentarily halve the clock while
// the switch settles. Only PLL1 is supported as the CPU base clock's
// parent; no board configuration in this family wires anything else there.
func softStartCPUClock(targetHz uint32) error {
	if targetHz <= cpuSoftStartThresholdHz {
		return SetBaseClockSource(BaseM4, SourcePLL1, targetHz)
	}

	if err := SetBaseClockSource(BaseM4, SourceInternalOscillator, 0); err != nil {
		return err
	}

	sources[SourcePLL1].configuredFrequency = targetHz
	sources[SourcePLL1].upAndOkay = false

	if err := EnsureUp(SourcePLL1); err != nil {
		return err
	}

	if err := SetBaseClockSource(BaseM4, SourcePLL1, targetHz); err != nil {
		return err
	}

	engageHalfDivider(BaseM4)
	time.Sleep(cpuSoftStartHold)
	disengageHalfDivider(BaseM4)

	return nil
}

// usbPLLMDividerConstants are the 25 USB-PLL feedback-divider constants for
// 0-24 MHz integer input frequencies, table-driven because the USB PLL
// only ever targets a single fixed 480 MHz output.
var usbPLLMDividerConstants = [25]uint32{
	0x06167FFA, 0x0006167F, 0x000102FE, 0x00030091,
	0x00040062, 0x0005003A, 0x0006003A, 0x0007003A,
	0x0008003A, 0x0009003A, 0x000A003A, 0x000B003A,
	0x000C003A, 0x000D003A, 0x000E003A, 0x000F003A,
	0x0010003A, 0x0011003A, 0x0012003A, 0x0013003A,
	0x0014003A, 0x0015003A, 0x0016003A, 0x0017003A,
	0x0018003A,
}

const usbPLLNPDivConstant = 0x00302062

// bringUpUSBPLL configures PLL0USB for its fixed 480 MHz output, using the
// table-driven M-divider constant for the resolved primary input's integer
// megahertz value. The input frequency is truncated to whole megahertz;
// inputs of 25 MHz and above are rejected.
func bringUpUSBPLL() error {
	input := resolve(SourcePrimaryInput)
	inputFreq := sources[input].measuredFrequency
	if inputFreq == 0 {
		inputFreq = sources[input].configuredFrequency
	}

	inputMHz := inputFreq / 1_000_000
	if inputMHz >= uint32(len(usbPLLMDividerConstants)) {
		return ErrFrequencyOutOfRange
	}

	reg.Set(cguPLL0USBCtrl, pll0CtrlBypassPos)
	reg.Write(cguPLL0USBMDiv, usbPLLMDividerConstants[inputMHz])
	reg.Write(cguPLL0USBNP, usbPLLNPDivConstant)
	reg.Set(cguPLL0USBCtrl, pll0CtrlClkEnPos)
	reg.Set(cguPLL0USBCtrl, pll0CtrlEnablePos)

	if !reg.WaitFor(mainPLLLockTimeout, cguPLL0USBStat, pll0StatLockPos, 0x1, 1) {
		return ErrPLLLockTimeout
	}

	reg.Clear(cguPLL0USBCtrl, pll0CtrlBypassPos)

	sources[SourcePLL0USB].configuredFrequency = 480_000_000

	return verifySourceFrequency(SourcePLL0USB, mainPLLLockTimeout)
}
