package lpc43xx

import "testing"

func TestPersistentMemoryLikelyIntact(t *testing.T) {
	cases := []struct {
		word uint32
		want bool
	}{
		{uint32(ResetReasonSoftReset) | resetReasonValidMask, true},
		{0x00000000, false},
		{0xdeadbeef, false},
		{uint32(ResetReasonUnknown) | resetReasonValidMask, true},
	}

	for _, c := range cases {
		if got := persistentMemoryLikelyIntact(c.word); got != c.want {
			t.Errorf("persistentMemoryLikelyIntact(%#x) = %v, want %v", c.word, got, c.want)
		}
	}
}

func TestDecodeResetReason(t *testing.T) {
	word := uint32(ResetReasonWatchdogTimeout) | resetReasonValidMask
	if got := decodeResetReason(word); got != ResetReasonWatchdogTimeout {
		t.Errorf("decodeResetReason(%#x) = %v, want %v", word, got, ResetReasonWatchdogTimeout)
	}
}

func TestResetReasonString(t *testing.T) {
	cases := map[ResetReason]string{
		ResetReasonPowerCycle:      "power cycle",
		ResetReasonWatchdogTimeout: "watchdog timeout",
		ResetReasonUnknown:         "unknown",
	}

	for reason, want := range cases {
		if got := reason.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", reason, got, want)
		}
	}
}
