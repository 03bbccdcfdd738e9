// Package report formats scan reports: plain text, csv or json.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ookscan/pkg/csv"
	"ookscan/pkg/ook"
	"ookscan/pkg/scan"
)

var ErrInvalidFormat = errors.New("invalid output format")

// Formats lists the supported output formats.
var Formats = []string{"plain", "csv", "json"}

// Frame is the external representation of a decoded frame.
type Frame struct {
	Time     float64 `json:"time"`
	Bits     string  `json:"bits"`
	Value    uint64  `json:"value"`
	TriState string  `json:"tristate,omitempty"`
}

// Discard is the external representation of a discarded frame.
type Discard struct {
	Time       float64 `json:"time"`
	End        float64 `json:"end"`
	Bits       string  `json:"bits"`
	OverLength bool    `json:"overlength,omitempty"`
}

// Report is the external representation of the scan result of one protocol.
type Report struct {
	Index      int       `json:"index"`
	Protocol   string    `json:"protocol"`
	Matches    int       `json:"matches"`
	Discarded  int       `json:"discarded"`
	OverLength int       `json:"overlength"`
	Frames     []Frame   `json:"frames"`
	Discards   []Discard `json:"discards"`
}

// NewFrame converts a decoded frame.
func NewFrame(f ook.Frame) Frame {
	tri, _ := f.TriState()
	return Frame{
		Time:     seconds(f.Start),
		Bits:     f.String(),
		Value:    f.Value(),
		TriState: tri,
	}
}

// New converts a scan report.
func New(r scan.Report) Report {
	rep := Report{
		Index:      r.Index,
		Protocol:   r.Protocol.Name,
		Matches:    len(r.Frames),
		Discarded:  len(r.Discards),
		OverLength: r.OverLength,
		Frames:     make([]Frame, 0, len(r.Frames)),
		Discards:   make([]Discard, 0, len(r.Discards)),
	}

	for _, f := range r.Frames {
		rep.Frames = append(rep.Frames, NewFrame(f))
	}
	for _, d := range r.Discards {
		rep.Discards = append(rep.Discards, Discard{
			Time:       seconds(d.Start),
			End:        seconds(d.End),
			Bits:       d.String(),
			OverLength: d.OverLength,
		})
	}
	return rep
}

// NewAll converts a list of scan reports.
func NewAll(reports []scan.Report) []Report {
	out := make([]Report, 0, len(reports))
	for _, r := range reports {
		out = append(out, New(r))
	}
	return out
}

// frameRecord is the csv record of a decoded frame.
type frameRecord struct {
	index    int
	protocol string
	frame    Frame
}

func (r frameRecord) Record() []string {
	return []string{
		strconv.Itoa(r.index),
		r.protocol,
		strconv.FormatFloat(r.frame.Time, 'f', -1, 64),
		r.frame.Bits,
		strconv.FormatUint(r.frame.Value, 10),
		r.frame.TriState,
	}
}

// Writer writes scan reports in one of the supported formats.
type Writer struct {
	format  string
	w       io.Writer
	options scan.Options

	csv  *csv.Encoder
	json *json.Encoder
}

// NewWriter returns a writer for the given format that writes to w.
// The options are printed in the plain text summary.
func NewWriter(format string, w io.Writer, opts scan.Options) (*Writer, error) {
	wr := &Writer{format: strings.ToLower(format), w: w, options: opts}

	switch wr.format {
	case "plain":
	case "csv":
		wr.csv = csv.NewEncoder(w)
	case "json":
		wr.json = json.NewEncoder(w)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}

	return wr, nil
}

// Write writes the report of one protocol.
func (wr *Writer) Write(r scan.Report) error {
	rep := New(r)

	switch wr.format {
	case "csv":
		for _, f := range rep.Frames {
			if err := wr.csv.Encode(frameRecord{index: rep.Index, protocol: rep.Protocol, frame: f}); err != nil {
				return err
			}
		}
		return nil
	case "json":
		return wr.json.Encode(rep)
	default:
		return wr.plain(rep)
	}
}

// plain writes a summary line followed by one line per frame.
func (wr *Writer) plain(rep Report) error {
	_, err := fmt.Fprintf(wr.w, "protocol: %d (%s), tolerance: %s%%, matches: %d, discarded: %d\n",
		rep.Index, rep.Protocol, strconv.FormatFloat(wr.options.Decoder.Relative*100, 'f', -1, 64),
		rep.Matches, rep.Discarded)
	if err != nil {
		return err
	}

	for _, f := range rep.Frames {
		if _, err = fmt.Fprintf(wr.w, "time: %s, value: %d\n", strconv.FormatFloat(f.Time, 'f', -1, 64), f.Value); err != nil {
			return err
		}
	}

	if rep.OverLength > 0 {
		_, err = fmt.Fprintf(wr.w, "warning: %d frames with more than %d bits\n", rep.OverLength, wr.options.Decoder.BitCount)
	}
	return err
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}
