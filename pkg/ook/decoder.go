// Package ook is a software decoder for OOK (on-off keying) remote switch frames.
//
// The decoder consumes the edges of a captured signal one at a time and
// classifies every high/low pulse pair as a start, zero or one symbol of a
// protocol template. A start symbol opens a frame, zero and one symbols
// append a bit, anything else terminates the frame.
package ook

import (
	"errors"
	"fmt"
	"time"

	"ookscan/pkg/port"
	"ookscan/pkg/protocol"

	"github.com/womat/debug"
)

// ErrOutOfOrder is returned by Feed for an edge older than the previous one.
var ErrOutOfOrder = errors.New("edge out of order")

const (
	// Idle is the decoder state while waiting for a start symbol.
	Idle State = iota
	// InFrame is the decoder state while receiving data bits.
	InFrame
)

// State represents the state of the decoding process.
type State int

func (s State) String() string {
	if s == InFrame {
		return "in-frame"
	}
	return "idle"
}

// Decoder represents the frame decoder of one protocol.
type Decoder struct {
	// template is the protocol to decode.
	template protocol.Template
	// config holds the tolerance parameters.
	config Config

	// start, zero and one are the precalculated timing windows of the symbols.
	start, zero, one shape

	// state contains the current decoding state (idle/in-frame).
	state State
	// window holds the edges of the pulse pair under test.
	window window

	// frameStart is the time of the start symbol of the current frame.
	frameStart time.Duration
	// bits accumulates the data bits of the current frame.
	bits []bool

	// last is the timestamp of the last fed edge.
	last time.Duration
	fed  bool

	results  []Frame
	discards []Discard
}

// New initials a new Decoder for the protocol template t.
// A BitCount less than 1 selects DefaultBitCount.
func New(t protocol.Template, c Config) *Decoder {
	if c.BitCount < 1 {
		c.BitCount = DefaultBitCount
	}

	rel := relativeTolerance(t.PulseLength, c.Relative)

	return &Decoder{
		template: t,
		config:   c,
		start:    newShape(t.Start, t.PulseLength, rel, c.Absolute, c.Delay),
		zero:     newShape(t.Zero, t.PulseLength, rel, c.Absolute, c.Delay),
		one:      newShape(t.One, t.PulseLength, rel, c.Absolute, c.Delay),
		state:    Idle,
	}
}

// Feed adds the next edge of the signal and decodes all complete pulse pairs.
// Edges must be fed in time order, an older edge is rejected with ErrOutOfOrder.
func (d *Decoder) Feed(e port.Edge) error {
	if d.fed && e.Timestamp < d.last {
		return fmt.Errorf("%w: %v after %v", ErrOutOfOrder, e.Timestamp, d.last)
	}
	d.last = e.Timestamp
	d.fed = true

	d.window.push(e)

	for d.window.len() >= windowSize {
		if d.filterGlitches() {
			continue
		}

		d.step()

		// remove one edge anyhow
		d.window.drop(1)
	}

	return nil
}

// Flush terminates a frame still in progress at the end of the input.
//
// The low pulse of the last bit is unbounded, so the bit is decided by its
// high pulse alone. The frame is finalized with the last fed edge as end time.
// Without Flush a frame in progress at the end of the input is dropped.
func (d *Decoder) Flush() {
	if d.state == InFrame {
		if d.window.len() == 2 && d.window.at(0).Level == port.High {
			hi := d.window.high()

			switch {
			case hi < d.config.MinGlitch:
			case d.zero.hi.contains(hi):
				d.bits = append(d.bits, false)
			case d.one.hi.contains(hi):
				d.bits = append(d.bits, true)
			}
		}

		d.finalize(d.last)
		d.reset()
	}

	d.window.reset()
}

// Results returns the complete frames in the order received.
func (d *Decoder) Results() []Frame {
	return d.results
}

// Discards returns the frames terminated with an unexpected bit count.
func (d *Decoder) Discards() []Discard {
	return d.discards
}

// State returns the current decoding state.
func (d *Decoder) State() State {
	return d.state
}

// Pending returns the number of buffered edges.
func (d *Decoder) Pending() int {
	return d.window.len()
}

// Template returns the protocol template of the decoder.
func (d *Decoder) Template() protocol.Template {
	return d.template
}

// step classifies the pulse pair at the front of the window and updates the state.
//
//	idle:     start -> in-frame
//	in-frame: zero -> bit 0, one -> bit 1, start -> new frame,
//	          otherwise a last bit with a long low pulse is accepted
//	          and the frame is terminated.
func (d *Decoder) step() {
	switch d.state {
	case Idle:
		if d.isA(d.start, false) {
			d.begin()
			// remove one extra entry if the start sequence is identified
			d.window.drop(1)
		}

	case InFrame:
		switch {
		case d.isA(d.zero, false):
			d.bits = append(d.bits, false)
			d.window.drop(1)
		case d.isA(d.one, false):
			d.bits = append(d.bits, true)
			d.window.drop(1)
		case d.isA(d.start, false):
			d.finalize(d.window.at(0).Timestamp)
			d.begin()
			d.window.drop(1)
		default:
			if d.isA(d.zero, true) {
				d.bits = append(d.bits, false)
			} else if d.isA(d.one, true) {
				d.bits = append(d.bits, true)
			}

			debug.TraceLog.Printf("%s: frame terminated at %v after %d bits", d.template.Name, d.window.at(0).Timestamp, len(d.bits))
			d.finalize(d.window.at(0).Timestamp)
			d.reset()
		}
	}
}

// begin opens a new frame at the front edge of the window.
func (d *Decoder) begin() {
	d.state = InFrame
	d.frameStart = d.window.at(0).Timestamp
	d.bits = make([]bool, 0, d.config.BitCount)
	debug.TraceLog.Printf("%s: start symbol at %v", d.template.Name, d.frameStart)
}

// reset returns to the idle state.
func (d *Decoder) reset() {
	d.state = Idle
	d.bits = nil
	d.frameStart = 0
}

// finalize saves the current frame as result or as discarded frame.
func (d *Decoder) finalize(end time.Duration) {
	if len(d.bits) == d.config.BitCount {
		d.results = append(d.results, Frame{Start: d.frameStart, Bits: d.bits})
		debug.DebugLog.Printf("%s: frame %s at %v", d.template.Name, bitString(d.bits), d.frameStart)
		return
	}

	over := len(d.bits) > d.config.BitCount
	d.discards = append(d.discards, Discard{Start: d.frameStart, End: end, Bits: d.bits, OverLength: over})

	if over {
		debug.WarningLog.Printf("%s: received %d bits, expected %d (frame at %v)",
			d.template.Name, len(d.bits), d.config.BitCount, d.frameStart)
	}
}

// filterGlitches removes a pulse shorter than MinGlitch from the window.
// It returns true if edges were removed.
func (d *Decoder) filterGlitches() bool {
	if d.window.high() < d.config.MinGlitch {
		d.window.drop(2)
		return true
	}

	if d.window.low() < d.config.MinGlitch {
		d.window.truncate(1)
		return true
	}

	return false
}

// isA checks whether the pulse pair at the front of the window matches the symbol s.
// With longLow set, a low pulse longer than the symbol's low pulse is accepted.
// This is the case for the last bit of a frame which isn't followed by a start symbol.
func (d *Decoder) isA(s shape, longLow bool) bool {
	if d.window.at(0).Level != port.High {
		return false
	}

	hi, lo := d.window.high(), d.window.low()

	if !s.hi.contains(hi) {
		return false
	}
	if lo < s.lo.min {
		return false
	}
	if lo > s.lo.max {
		return longLow
	}

	return true
}
