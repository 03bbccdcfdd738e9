package trace

import (
	"io"
	"strings"
	"testing"
	"time"

	"ookscan/pkg/port"
)

const saleae = `Time[s], Channel 0
0.000000000000000, 0
0.000119600000000, 1
0.000453300000000, 0
# comment
0.000705500000000, 1
garbage
0.001037800000000, 0, 3
0.001293100000000, x
1.5, 2
`

func TestReadAll(t *testing.T) {
	edges, err := ReadAll(strings.NewReader(saleae))
	if err != nil {
		t.Fatal(err)
	}

	want := []port.Edge{
		{Timestamp: 0, Level: port.Low},
		{Timestamp: 119600 * time.Nanosecond, Level: port.High},
		{Timestamp: 453300 * time.Nanosecond, Level: port.Low},
		{Timestamp: 705500 * time.Nanosecond, Level: port.High},
		{Timestamp: 1500 * time.Millisecond, Level: port.High},
	}

	if len(edges) != len(want) {
		t.Fatalf("got %d edges, want %d: %v", len(edges), len(want), edges)
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge %d: got %v, want %v", i, edges[i], want[i])
		}
	}
}

func TestReaderSkipped(t *testing.T) {
	r := NewReader(strings.NewReader(saleae))

	n := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		n++
	}

	if n != 5 {
		t.Errorf("edges: got %d, want 5", n)
	}
	// header, garbage, three columns, non-numeric level
	if r.Skipped() != 4 {
		t.Errorf("skipped: got %d, want 4", r.Skipped())
	}
}

func TestReadAllEmpty(t *testing.T) {
	edges, err := ReadAll(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 0 {
		t.Errorf("got %d edges, want 0", len(edges))
	}
}

func TestReadBrokenQuote(t *testing.T) {
	edges, err := ReadAll(strings.NewReader("0.1, 1\n\"0.2, 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 1 {
		t.Errorf("got %d edges, want 1", len(edges))
	}
}
