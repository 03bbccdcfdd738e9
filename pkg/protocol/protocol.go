// Package protocol holds the timing templates of OOK remote switch protocols.
//
// A template describes every symbol as a high pulse followed by a low pulse,
// both given in multiples of the protocol pulse length.
//
//	"start": [1, 31] means 1 high pulse and 31 low pulses:
//	 _
//	| |_______________________________
//
//	"zero": [1, 3], total length (1+3)*pulselength:
//	 _
//	| |___
//
//	"one": [3, 1]:
//	 ___
//	|   |_
//
// The built-in definitions are the ones of https://github.com/sui77/rc-switch/
package protocol

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidPulseLength = errors.New("invalid pulse length")
	ErrInvalidWaveform    = errors.New("invalid waveform")
)

// Kind identifies a symbol of a protocol.
type Kind int

const (
	Start Kind = iota
	Zero
	One
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case Zero:
		return "zero"
	case One:
		return "one"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Waveform is the shape of a symbol in pulse units.
type Waveform struct {
	High int
	Low  int
}

// UnmarshalYAML reads a waveform from a two element sequence [high, low].
func (w *Waveform) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var units []int
	if err := unmarshal(&units); err != nil {
		return err
	}
	if len(units) != 2 {
		return fmt.Errorf("%w: expected [high, low], got %v", ErrInvalidWaveform, units)
	}

	w.High, w.Low = units[0], units[1]
	return nil
}

// MarshalYAML writes a waveform as a two element sequence [high, low].
func (w Waveform) MarshalYAML() (interface{}, error) {
	return []int{w.High, w.Low}, nil
}

// Template is the timing definition of one protocol.
type Template struct {
	Name        string
	PulseLength time.Duration
	Start       Waveform
	Zero        Waveform
	One         Waveform
}

// yamlTemplate is the config file representation of a Template.
// The pulse length is given in microseconds.
type yamlTemplate struct {
	Name        string   `yaml:"name"`
	PulseLength int      `yaml:"pulselength"`
	Start       Waveform `yaml:"start"`
	Zero        Waveform `yaml:"zero"`
	One         Waveform `yaml:"one"`
}

// UnmarshalYAML reads a template from the config file representation.
func (t *Template) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var y yamlTemplate
	if err := unmarshal(&y); err != nil {
		return err
	}

	*t = Template{
		Name:        y.Name,
		PulseLength: time.Duration(y.PulseLength) * time.Microsecond,
		Start:       y.Start,
		Zero:        y.Zero,
		One:         y.One,
	}
	return nil
}

// MarshalYAML writes a template in the config file representation.
func (t Template) MarshalYAML() (interface{}, error) {
	return yamlTemplate{
		Name:        t.Name,
		PulseLength: int(t.PulseLength / time.Microsecond),
		Start:       t.Start,
		Zero:        t.Zero,
		One:         t.One,
	}, nil
}

// Waveform returns the waveform of the given symbol.
func (t Template) Waveform(k Kind) Waveform {
	switch k {
	case Zero:
		return t.Zero
	case One:
		return t.One
	default:
		return t.Start
	}
}

// Validate checks that the template describes a decodable protocol.
func (t Template) Validate() error {
	if t.PulseLength <= 0 {
		return fmt.Errorf("%s: %w: %v", t.Name, ErrInvalidPulseLength, t.PulseLength)
	}

	for _, k := range []Kind{Start, Zero, One} {
		if w := t.Waveform(k); w.High <= 0 || w.Low <= 0 {
			return fmt.Errorf("%s: %w: %v %v", t.Name, ErrInvalidWaveform, k, w)
		}
	}

	if t.Zero == t.One {
		return fmt.Errorf("%s: %w: zero and one are identical", t.Name, ErrInvalidWaveform)
	}
	return nil
}

func (t Template) String() string {
	return fmt.Sprintf("%s pulse:%v start:%v zero:%v one:%v", t.Name, t.PulseLength,
		[]int{t.Start.High, t.Start.Low}, []int{t.Zero.High, t.Zero.Low}, []int{t.One.High, t.One.Low})
}

// Defaults returns the rc-switch protocol definitions.
// The order is fixed, the index is used to identify a protocol in reports.
func Defaults() []Template {
	return []Template{
		{Name: "rcswitch-1", PulseLength: 350 * time.Microsecond, Start: Waveform{1, 31}, Zero: Waveform{1, 3}, One: Waveform{3, 1}},
		{Name: "rcswitch-2", PulseLength: 650 * time.Microsecond, Start: Waveform{1, 10}, Zero: Waveform{1, 2}, One: Waveform{2, 1}},
		{Name: "rcswitch-3", PulseLength: 100 * time.Microsecond, Start: Waveform{30, 71}, Zero: Waveform{4, 11}, One: Waveform{9, 6}},
		{Name: "rcswitch-4", PulseLength: 380 * time.Microsecond, Start: Waveform{1, 6}, Zero: Waveform{1, 3}, One: Waveform{3, 1}},
		{Name: "rcswitch-5", PulseLength: 500 * time.Microsecond, Start: Waveform{6, 14}, Zero: Waveform{1, 2}, One: Waveform{2, 1}},
	}
}
