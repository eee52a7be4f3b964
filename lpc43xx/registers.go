// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package lpc43xx

// Clock Generation Unit and Clock Control Unit base addresses and register
// offsets. Field layouts below mirror the shape of the real LPC43xx CGU/CCU
// block (one clock-select mux field per base clock register, one
// enable/lock/bypass field set per PLL, a shared frequency monitor) closely
// enough to drive this package's algorithms; exact reserved-bit placement
// is not load-bearing off real silicon.
const (
	cguBase = 0x40050000
	ccu1Base = 0x40051000

	cguFreqMon     = cguBase + 0x00
	cguXtalOscCtrl = cguBase + 0x04

	cguPLL0USBStat = cguBase + 0x08
	cguPLL0USBCtrl = cguBase + 0x0c
	cguPLL0USBMDiv = cguBase + 0x10
	cguPLL0USBNP   = cguBase + 0x14

	cguPLL0AudioStat = cguBase + 0x18
	cguPLL0AudioCtrl = cguBase + 0x1c

	cguPLL1Stat = cguBase + 0x2c
	cguPLL1Ctrl = cguBase + 0x30

	cguIDivACtrl = cguBase + 0x34
	cguIDivBCtrl = cguBase + 0x38
	cguIDivCCtrl = cguBase + 0x3c
	cguIDivDCtrl = cguBase + 0x40
	cguIDivECtrl = cguBase + 0x44

	cguBaseM4Clk    = cguBase + 0x58
	cguBaseUART0Clk = cguBase + 0x88
	cguBaseUART1Clk = cguBase + 0x8c
	cguBaseUART2Clk = cguBase + 0x90
	cguBaseUART3Clk = cguBase + 0x94
	cguBaseSGPIOClk = cguBase + 0xe0
)

// FREQ_MON field positions.
const (
	freqMonMuxPos   = 24
	freqMonMuxMask  = 0x1f
	freqMonRCNTPos  = 0
	freqMonFCNTPos  = 9
	freqMonEnablePos = 31
	freqMonDonePos   = 30
)

// Base/branch clock register field positions, common to every BASE_xxx_CLK
// register.
const (
	baseClkSelPos    = 24
	baseClkSelMask   = 0x1f
	baseClkAutoblock = 11
	baseClkPDPos     = 0 // power-down: 1 = disabled
)

// Base clock select mux encodings shared across BASE_xxx_CLK registers.
const (
	muxIRC       = 0x1
	muxEnetRX    = 0x2
	muxEnetTX    = 0x3
	muxGPClkIn   = 0x4
	muxXtal      = 0x6
	muxPLL0USB   = 0x7
	muxPLL0Audio = 0x8
	muxPLL1      = 0x9
	muxIDivA     = 0xc
	muxIDivB     = 0xd
	muxIDivC     = 0xe
	muxIDivD     = 0xf
	muxIDivE     = 0x10
)

func muxForSource(source ClockSource) (uint32, bool) {
	switch source {
	case SourceInternalOscillator:
		return muxIRC, true
	case SourceCrystal:
		return muxXtal, true
	case SourceEnetRX:
		return muxEnetRX, true
	case SourceEnetTX:
		return muxEnetTX, true
	case SourceGPClockIn:
		return muxGPClkIn, true
	case SourcePLL0USB:
		return muxPLL0USB, true
	case SourcePLL0Audio:
		return muxPLL0Audio, true
	case SourcePLL1:
		return muxPLL1, true
	case SourceIDivA:
		return muxIDivA, true
	case SourceIDivB:
		return muxIDivB, true
	case SourceIDivC:
		return muxIDivC, true
	case SourceIDivD:
		return muxIDivD, true
	case SourceIDivE:
		return muxIDivE, true
	}
	return 0, false
}

// XTAL_OSC_CTRL field positions.
const (
	xtalOscBypassPos = 1
	xtalOscEnablePos = 0 // 0 = enabled (active low), matches the platform's own polarity
)

// PLL1 (main PLL) CTRL/STAT field positions.
const (
	pll1CtrlEnablePos  = 0
	pll1CtrlBypassPos  = 1
	pll1CtrlFBSelPos   = 6
	pll1CtrlMPos       = 16
	pll1CtrlMMask      = 0xff
	pll1CtrlNPos       = 12
	pll1CtrlNMask      = 0x3
	pll1CtrlPPos       = 8
	pll1CtrlPMask      = 0x3
	pll1CtrlDirectPos  = 7
	pll1StatLockPos    = 0
)

// PLL0USB CTRL/STAT/MDIV field positions.
const (
	pll0CtrlEnablePos = 0
	pll0CtrlBypassPos = 1
	pll0CtrlDirectIPos = 2
	pll0CtrlDirectOPos = 3
	pll0CtrlClkEnPos   = 4
	pll0StatLockPos    = 0
)

// Integer divider (IDIV) CTRL field positions, identical shape for A-E.
const (
	idivCtrlSelPos    = 24
	idivCtrlSelMask   = 0x1f
	idivCtrlRatioPos  = 2
	idivCtrlRatioMask = 0xf
	idivCtrlPDPos     = 0
)

func idivCtrlAddr(d ClockSource) uint32 {
	switch d {
	case SourceIDivA:
		return cguIDivACtrl
	case SourceIDivB:
		return cguIDivBCtrl
	case SourceIDivC:
		return cguIDivCCtrl
	case SourceIDivD:
		return cguIDivDCtrl
	case SourceIDivE:
		return cguIDivECtrl
	}
	return 0
}
