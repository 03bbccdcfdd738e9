package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"ookscan/pkg/ook"
	"ookscan/pkg/protocol"
	"ookscan/pkg/scan"
)

func bits(s string) []bool {
	b := make([]bool, len(s))
	for i, c := range s {
		b[i] = c == '1'
	}
	return b
}

func testReport() scan.Report {
	return scan.Report{
		Index:    2,
		Protocol: protocol.Defaults()[2],
		Frames: []ook.Frame{
			{Start: 1500 * time.Millisecond, Bits: bits("000000000000000000000101")},
		},
		Discards: []ook.Discard{
			{Start: 2 * time.Second, End: 2100 * time.Millisecond, Bits: bits("101")},
		},
	}
}

func TestPlain(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter("plain", buf, scan.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(testReport()); err != nil {
		t.Fatal(err)
	}

	want := "protocol: 2 (rcswitch-3), tolerance: 4%, matches: 1, discarded: 1\n" +
		"time: 1.5, value: 5\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter("CSV", buf, scan.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(testReport()); err != nil {
		t.Fatal(err)
	}

	want := "2,rcswitch-3,1.5,000000000000000000000101,5,0000000000FF\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter("json", buf, scan.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(testReport()); err != nil {
		t.Fatal(err)
	}

	var rep Report
	if err := json.NewDecoder(buf).Decode(&rep); err != nil {
		t.Fatal(err)
	}
	if rep.Protocol != "rcswitch-3" || rep.Matches != 1 || rep.Discarded != 1 {
		t.Errorf("got %+v", rep)
	}
	if rep.Frames[0].Value != 5 || rep.Discards[0].Bits != "101" || rep.Discards[0].End != 2.1 {
		t.Errorf("got frames %+v discards %+v", rep.Frames, rep.Discards)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := NewWriter("xml", &bytes.Buffer{}, scan.DefaultOptions())
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("got %v, want ErrInvalidFormat", err)
	}
}

func TestPlainOverLength(t *testing.T) {
	r := testReport()
	r.OverLength = 1

	buf := &bytes.Buffer{}
	w, _ := NewWriter("plain", buf, scan.DefaultOptions())
	if err := w.Write(r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "warning: 1 frames with more than 24 bits") {
		t.Errorf("missing warning in %q", buf.String())
	}
}
