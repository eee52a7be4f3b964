package dac

import "testing"

func TestCommandByteEncoding(t *testing.T) {
	readCmd := uint8(directionRead | widthByte | 0x05)
	if readCmd != 0x85 {
		t.Errorf("read command = %#x, want 0x85", readCmd)
	}

	writeCmd := uint8(directionWrite | widthByte | 0x05)
	if writeCmd != 0x05 {
		t.Errorf("write command = %#x, want 0x05", writeCmd)
	}
}
