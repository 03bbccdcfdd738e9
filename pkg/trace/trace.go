// Package trace reads captured edge traces.
//
// A trace is a two column csv file as exported by a logic analyzer (saleae):
//
//	Time[s], Channel 0
//	0.000000000000000, 0
//	0.000119600000000, 1
//	0.000453300000000, 0
//
// Rows which aren't a time and a level (header, comments, broken lines) are skipped.
package trace

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"ookscan/pkg/port"

	"github.com/womat/debug"
)

// Reader reads edges from a trace.
type Reader struct {
	r *csv.Reader
	// line is the number of the last read row.
	line int
	// skipped is the count of rows which aren't edges.
	skipped int
}

// NewReader returns a new Reader that reads from r.
func NewReader(r io.Reader) *Reader {
	c := csv.NewReader(r)
	c.FieldsPerRecord = -1
	c.TrimLeadingSpace = true
	c.Comment = '#'
	c.ReuseRecord = true

	return &Reader{r: c}
}

// Read returns the next edge of the trace. At the end of the trace it returns io.EOF.
func (r *Reader) Read() (port.Edge, error) {
	for {
		record, err := r.r.Read()
		r.line++

		var parseErr *csv.ParseError
		switch {
		case err == io.EOF:
			return port.Edge{}, io.EOF
		case errors.As(err, &parseErr):
			debug.TraceLog.Printf("trace line %d: %v", r.line, err)
			r.skipped++
			continue
		case err != nil:
			return port.Edge{}, err
		}

		e, ok := parseRecord(record)
		if !ok {
			debug.TraceLog.Printf("trace line %d: skip %q", r.line, record)
			r.skipped++
			continue
		}
		return e, nil
	}
}

// Skipped returns the number of rows skipped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

func parseRecord(record []string) (port.Edge, bool) {
	if len(record) != 2 {
		return port.Edge{}, false
	}

	t, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	if err != nil {
		return port.Edge{}, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return port.Edge{}, false
	}

	e := port.Edge{Timestamp: port.Seconds(t), Level: port.Low}
	if v != 0 {
		e.Level = port.High
	}
	return e, true
}

// ReadAll reads all edges of a trace.
func ReadAll(r io.Reader) ([]port.Edge, error) {
	tr := NewReader(r)

	var edges []port.Edge
	for {
		e, err := tr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return edges, err
		}
		edges = append(edges, e)
	}

	if tr.Skipped() > 0 {
		debug.DebugLog.Printf("trace: %d edges, %d rows skipped", len(edges), tr.Skipped())
	}
	return edges, nil
}

// Open opens a trace file, "-" is the standard input.
func Open(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}
