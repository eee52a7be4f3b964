package lpc43xx

import "testing"

func TestConfigureMainPLLParametersBelowCCOFloor(t *testing.T) {
	// a 48 MHz target is below the 156 MHz CCO floor, so the search must
	// double the CCO target and engage an output divisor to compensate.
	p, err := configureMainPLLParameters(12_000_000, 48_000_000)
	if err != nil {
		t.Fatalf("configureMainPLLParameters: %v", err)
	}

	if p.directOutput {
		t.Fatalf("expected output divisor engaged for a sub-CCO-floor target")
	}
	if p.outputDivisorP < 2 {
		t.Fatalf("outputDivisorP = %d, want >= 2", p.outputDivisorP)
	}

	effectiveCCO := 48_000_000 * p.outputDivisorP
	if effectiveCCO < mainPLLCCOLowBoundHz {
		t.Fatalf("effective CCO %d still below floor %d", effectiveCCO, mainPLLCCOLowBoundHz)
	}
}

func TestConfigureMainPLLParametersDirectOutput(t *testing.T) {
	// a 204 MHz target already clears the CCO floor directly.
	p, err := configureMainPLLParameters(12_000_000, 204_000_000)
	if err != nil {
		t.Fatalf("configureMainPLLParameters: %v", err)
	}

	if !p.directOutput {
		t.Fatalf("expected direct CCO output for a target above the CCO floor")
	}
	if p.inputDivisorN != 1 {
		t.Fatalf("inputDivisorN = %d, want 1 for a 12 MHz input", p.inputDivisorN)
	}
}

func TestConfigureMainPLLParametersPreDividesHighInput(t *testing.T) {
	p, err := configureMainPLLParameters(27_000_000, 204_000_000)
	if err != nil {
		t.Fatalf("configureMainPLLParameters: %v", err)
	}

	// 27 MHz / 2 = 13.5 MHz is the first pre-divided input at or under
	// the PLL's direct-input limit
	if p.inputDivisorN != 2 {
		t.Fatalf("inputDivisorN = %d, want 2 for a 27 MHz input above %d Hz",
			p.inputDivisorN, mainPLLInputHighBoundHz)
	}
}

func TestOutputDivisorEncoding(t *testing.T) {
	cases := map[uint32]uint32{1: 0, 2: 1, 4: 2, 8: 3}
	for div, want := range cases {
		if got := outputDivisorEncoding(div); got != want {
			t.Errorf("outputDivisorEncoding(%d) = %d, want %d", div, got, want)
		}
	}
}
