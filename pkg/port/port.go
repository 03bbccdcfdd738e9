// Package port holds the definition of a captured signal edge
package port

import (
	"fmt"
	"time"
)

// Level is the line level after a transition.
type Level int

const (
	// High indicates a logical 1 (carrier on).
	High Level = 1
	// Low indicates a logical 0 (carrier off).
	Low Level = 0
	// Invalid indicates an unknown or invalid state.
	Invalid Level = -1
)

func (l Level) String() string {
	switch l {
	case High:
		return "high"
	case Low:
		return "low"
	default:
		return "invalid"
	}
}

// Edge is a single transition of the monitored line.
type Edge struct {
	// Timestamp is the time of the transition, relative to the start of the capture.
	Timestamp time.Duration
	// Level is the line level after the transition.
	Level Level
}

func (e Edge) String() string {
	return fmt.Sprintf("%v@%v", e.Level, e.Timestamp)
}

// Seconds converts a capture time in seconds to a Timestamp, rounded to the nanosecond.
func Seconds(s float64) time.Duration {
	if s >= 0 {
		return time.Duration(s*float64(time.Second) + 0.5)
	}
	return time.Duration(s*float64(time.Second) - 0.5)
}
