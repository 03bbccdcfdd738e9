package ook

import "testing"

func TestFrameValue(t *testing.T) {
	f := Frame{Bits: bitsOf(0x5A3C1F, 24)}

	if s := f.String(); s != "010110100011110000011111" {
		t.Errorf("string: got %s", s)
	}
	if v := f.Value(); v != 0x5A3C1F {
		t.Errorf("value: got %#x, want 0x5a3c1f", v)
	}
	if v := (Frame{}).Value(); v != 0 {
		t.Errorf("empty frame value: got %d", v)
	}
}

func TestFrameTriState(t *testing.T) {
	tests := []struct {
		bits string
		code string
		ok   bool
	}{
		{"000000000000000000000000", "000000000000", true},
		{"001101110000000000010100", "01F100000FF0", true},
		{"0011010", "", false},
		{"10", "", false},
	}

	for _, tt := range tests {
		bits := make([]bool, len(tt.bits))
		for i, c := range tt.bits {
			bits[i] = c == '1'
		}

		code, ok := Frame{Bits: bits}.TriState()
		if ok != tt.ok || code != tt.code {
			t.Errorf("%s: got %q %v, want %q %v", tt.bits, code, ok, tt.code, tt.ok)
		}
	}
}
