package csv

import (
	"bytes"
	"runtime"
	"testing"

	"golang.org/x/xerrors"
)

type record []string

func (r record) Record() []string {
	return r
}

func TestEncode(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := NewEncoder(buf)

	if err := enc.Encode(record{"rcswitch-1", "0.001", "24"}); err != nil {
		t.Fatalf("%+v\n", err)
	}
	if got := buf.String(); got != "rcswitch-1,0.001,24\n" {
		t.Errorf("got %q", got)
	}
}

func TestEncodeNil(t *testing.T) {
	enc := NewEncoder(&bytes.Buffer{})

	if err := enc.Encode(nil); err == nil {
		t.Fatal("expected error for nil value")
	}
}

type nonRecorder struct{}

func TestEncodeNonRecorder(t *testing.T) {
	enc := NewEncoder(&bytes.Buffer{})

	err := enc.Encode(nonRecorder{})

	var runtimeErr runtime.Error
	if !xerrors.As(err, &runtimeErr) {
		t.Fatalf("got %+v, want runtime error", err)
	}
}
