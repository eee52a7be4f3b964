package uart

import "testing"

func TestDivideAndRound(t *testing.T) {
	cases := []struct{ num, den, want uint32 }{
		{10, 4, 3},  // 2.5 rounds up
		{9, 4, 2},   // 2.25 rounds down
		{100, 10, 10},
	}
	for _, c := range cases {
		if got := divideAndRound(c.num, c.den); got != c.want {
			t.Errorf("divideAndRound(%d, %d) = %d, want %d", c.num, c.den, got, c.want)
		}
	}
}

func TestSetBaudRateFindsExactDivisorForCommonRates(t *testing.T) {
	u := &UART{parentClockHz: 96_000_000}

	achieved := u.SetBaudRate(115200)
	if achieved == 0 {
		t.Fatalf("SetBaudRate(115200) could not find a divisor")
	}

	errPPM := int64(achieved) - 115200
	if errPPM < 0 {
		errPPM = -errPPM
	}
	if errPPM*100 > 115200 { // allow up to 1% error
		t.Errorf("SetBaudRate(115200) achieved %d, too far off target", achieved)
	}
}

func TestSetBaudRateZeroParentClockFails(t *testing.T) {
	u := &UART{parentClockHz: 0}
	if got := u.SetBaudRate(115200); got != 0 {
		t.Errorf("SetBaudRate with no parent clock should fail, got %d", got)
	}
}

func TestBaudRateErrorIsSymmetric(t *testing.T) {
	if got := baudRateError(100, 90); got != 10 {
		t.Errorf("baudRateError(100, 90) = %d, want 10", got)
	}
	if got := baudRateError(90, 100); got != 10 {
		t.Errorf("baudRateError(90, 100) = %d, want 10", got)
	}
}
