package ook

import (
	"strings"
	"time"
)

// Frame is a complete frame, the bits are in the order received (MSB first).
type Frame struct {
	Start time.Duration
	Bits  []bool
}

// Discard is a frame terminated with an unexpected number of bits.
type Discard struct {
	Start time.Duration
	End   time.Duration
	Bits  []bool
	// OverLength is set if more bits than expected were received.
	OverLength bool
}

// String returns the bits as a string of 0 and 1.
func (f Frame) String() string {
	return bitString(f.Bits)
}

// Value returns the bits as an unsigned integer, the first bit received is the MSB.
// Only the last 64 bits are significant.
func (f Frame) Value() uint64 {
	var v uint64
	for _, b := range f.Bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

// TriState returns the rc-switch tri-state code of the frame.
// Every symbol is a bit pair: 00 is '0', 11 is '1' and 01 is 'F' (floating).
// ok is false for an odd bit count or a 10 pair.
func (f Frame) TriState() (code string, ok bool) {
	if len(f.Bits)%2 != 0 {
		return "", false
	}

	var sb strings.Builder
	for i := 0; i < len(f.Bits); i += 2 {
		switch {
		case !f.Bits[i] && !f.Bits[i+1]:
			sb.WriteByte('0')
		case f.Bits[i] && f.Bits[i+1]:
			sb.WriteByte('1')
		case !f.Bits[i] && f.Bits[i+1]:
			sb.WriteByte('F')
		default:
			return "", false
		}
	}
	return sb.String(), true
}

// String returns the bits as a string of 0 and 1.
func (d Discard) String() string {
	return bitString(d.Bits)
}

func bitString(bits []bool) string {
	b := make([]byte, len(bits))
	for i, bit := range bits {
		b[i] = '0'
		if bit {
			b[i] = '1'
		}
	}
	return string(b)
}
