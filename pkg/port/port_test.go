package port

import (
	"testing"
	"time"
)

func TestSeconds(t *testing.T) {
	tests := []struct {
		s    float64
		want time.Duration
	}{
		{0, 0},
		{0.00035, 350 * time.Microsecond},
		{0.0112, 11200 * time.Microsecond},
		{1.000000001, time.Second + time.Nanosecond},
		{-0.5, -500 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := Seconds(tt.s); got != tt.want {
			t.Errorf("Seconds(%v): got %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestEdgeString(t *testing.T) {
	e := Edge{Timestamp: 350 * time.Microsecond, Level: High}
	if got := e.String(); got != "high@350µs" {
		t.Errorf("got %q", got)
	}
	if got := Level(7).String(); got != "invalid" {
		t.Errorf("got %q", got)
	}
}
