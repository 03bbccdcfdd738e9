// Package csv writes records of decoded frames as csv.
package csv

import (
	"encoding/csv"
	"io"

	"golang.org/x/xerrors"
)

// Recorder produces the list of fields making up a record.
type Recorder interface {
	Record() []string
}

// An Encoder writes csv records to an output stream.
type Encoder struct {
	w *csv.Writer
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: csv.NewWriter(w)}
}

// Encode writes the record of v followed by a newline.
// v must implement the Recorder interface.
func (enc *Encoder) Encode(v interface{}) (err error) {
	defer func() {
		if r, ok := recover().(error); ok {
			err = xerrors.Errorf("recovered: %w", r)
		}
	}()

	if err = enc.w.Write(v.(Recorder).Record()); err != nil {
		return err
	}
	enc.w.Flush()

	return enc.w.Error()
}
