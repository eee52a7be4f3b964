package lpc43xx

import "testing"

func TestClockSourceString(t *testing.T) {
	cases := map[ClockSource]string{
		SourceInternalOscillator: "IRC",
		SourceCrystal:            "XTAL",
		SourcePLL1:               "PLL1",
		SourcePrimary:            "PRIMARY",
	}

	for source, want := range cases {
		if got := source.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(source), got, want)
		}
	}
}

func TestResolvePrimaryTokens(t *testing.T) {
	oldSource, oldInput := PrimaryClockSource, PrimaryClockInput
	defer func() { PrimaryClockSource, PrimaryClockInput = oldSource, oldInput }()

	PrimaryClockSource = func() ClockSource { return SourcePLL0USB }
	PrimaryClockInput = func() ClockSource { return SourceInternalOscillator }

	if got := resolve(SourcePrimary); got != SourcePLL0USB {
		t.Errorf("resolve(SourcePrimary) = %v, want %v", got, SourcePLL0USB)
	}
	if got := resolve(SourcePrimaryInput); got != SourceInternalOscillator {
		t.Errorf("resolve(SourcePrimaryInput) = %v, want %v", got, SourceInternalOscillator)
	}
	if got := resolve(SourceCrystal); got != SourceCrystal {
		t.Errorf("resolve(SourceCrystal) = %v, want %v (concrete sources pass through)", got, SourceCrystal)
	}
}
