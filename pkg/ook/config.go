package ook

import (
	"fmt"
	"math"
	"time"

	"ookscan/pkg/protocol"
)

const (
	// DefaultRelative is the default timing tolerance as a fraction of the pulse length.
	DefaultRelative = 0.04
	// DefaultAbsolute is the default fixed timing tolerance.
	DefaultAbsolute = 35 * time.Microsecond
	// DefaultMinGlitch is the shortest pulse which is not treated as noise.
	DefaultMinGlitch = 200 * time.Microsecond
	// DefaultBitCount is the number of data bits of a complete frame.
	DefaultBitCount = 24
)

// Config holds the tolerance parameters of a decode run.
type Config struct {
	// Relative is the tolerance applied to the pulse length, as a fraction of it (0.04 = 4%).
	Relative float64
	// Absolute is added to both sides of every timing window.
	Absolute time.Duration
	// Delay is the constant latency of the transmitter, it shifts every timing window.
	Delay time.Duration
	// MinGlitch is the shortest high or low pulse accepted, shorter pulses are removed as noise.
	MinGlitch time.Duration
	// BitCount is the expected number of data bits of a frame.
	BitCount int
}

// DefaultConfig returns the tolerances used by the rc-switch receivers.
func DefaultConfig() Config {
	return Config{
		Relative:  DefaultRelative,
		Absolute:  DefaultAbsolute,
		MinGlitch: DefaultMinGlitch,
		BitCount:  DefaultBitCount,
	}
}

func (c Config) String() string {
	return fmt.Sprintf("relative:%.1f%% absolute:%v delay:%v minglitch:%v bits:%d",
		c.Relative*100, c.Absolute, c.Delay, c.MinGlitch, c.BitCount)
}

// bounds is the inclusive timing window of one pulse.
type bounds struct {
	min, max time.Duration
}

func (b bounds) contains(d time.Duration) bool {
	return d >= b.min && d <= b.max
}

// shape holds the timing windows of the high and the low pulse of a symbol.
type shape struct {
	hi, lo bounds
}

// newShape calculates the timing windows of a waveform.
//
//	min = units * (pulse - rel) - abs + delay
//	max = units * (pulse + rel) + abs + delay
func newShape(w protocol.Waveform, pulse, rel, abs, delay time.Duration) shape {
	window := func(units int) bounds {
		u := time.Duration(units)
		return bounds{
			min: u*(pulse-rel) - abs + delay,
			max: u*(pulse+rel) + abs + delay,
		}
	}

	return shape{hi: window(w.High), lo: window(w.Low)}
}

// relativeTolerance converts the relative tolerance to a duration.
func relativeTolerance(pulse time.Duration, relative float64) time.Duration {
	return time.Duration(math.Round(float64(pulse) * relative))
}
