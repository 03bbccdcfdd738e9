package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"ookscan/pkg/ook"
	"ookscan/pkg/port"
	"ookscan/pkg/protocol"
)

// transmit returns the edges of a start symbol followed by the bits of v, MSB first.
func transmit(tpl protocol.Template, at time.Duration, v uint64, n int) []port.Edge {
	var edges []port.Edge
	t := at
	sym := func(w protocol.Waveform) {
		hi := time.Duration(w.High) * tpl.PulseLength
		lo := time.Duration(w.Low) * tpl.PulseLength
		edges = append(edges, port.Edge{Timestamp: t, Level: port.High}, port.Edge{Timestamp: t + hi, Level: port.Low})
		t += hi + lo
	}

	sym(tpl.Start)
	for i := n - 1; i >= 0; i-- {
		if v&(1<<uint(i)) != 0 {
			sym(tpl.One)
		} else {
			sym(tpl.Zero)
		}
	}
	return append(edges, port.Edge{Timestamp: t, Level: port.High})
}

func TestRun(t *testing.T) {
	templates := protocol.Defaults()
	edges := transmit(templates[1], 0, 0xA5A5A5, 24)

	reports, err := Run(context.Background(), edges, templates, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != len(templates) {
		t.Fatalf("got %d reports, want %d", len(reports), len(templates))
	}

	for i, r := range reports {
		if r.Index != i || r.Protocol.Name != templates[i].Name {
			t.Errorf("report %d: index %d protocol %s", i, r.Index, r.Protocol.Name)
		}
		if r.Edges != len(edges) {
			t.Errorf("report %d: edges %d, want %d", i, r.Edges, len(edges))
		}
	}

	if n := len(reports[1].Frames); n != 1 {
		t.Fatalf("protocol 1: got %d frames, want 1", n)
	}
	if v := reports[1].Frames[0].Value(); v != 0xA5A5A5 {
		t.Errorf("protocol 1: value %#x, want 0xa5a5a5", v)
	}
	if n := len(reports[0].Frames); n != 0 {
		t.Errorf("protocol 0: got %d frames, want 0", n)
	}
}

func TestRunWithoutFlush(t *testing.T) {
	templates := protocol.Defaults()[:1]
	edges := transmit(templates[0], 0, 0x1, 24)

	opts := DefaultOptions()
	opts.Flush = false
	reports, err := Run(context.Background(), edges, templates, opts)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(reports[0].Frames); n != 0 {
		t.Errorf("got %d frames, want 0", n)
	}
}

func TestRunOverLength(t *testing.T) {
	tpl := protocol.Defaults()[0]
	edges := transmit(tpl, 0, 0xFFF, 12)

	opts := DefaultOptions()
	opts.Decoder.BitCount = 8
	reports, err := Run(context.Background(), edges, []protocol.Template{tpl}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if reports[0].OverLength != 1 {
		t.Errorf("over-length: got %d, want 1", reports[0].OverLength)
	}
}

func TestRunOutOfOrder(t *testing.T) {
	edges := []port.Edge{
		{Timestamp: 2 * time.Millisecond, Level: port.High},
		{Timestamp: time.Millisecond, Level: port.Low},
	}

	_, err := Run(context.Background(), edges, protocol.Defaults(), DefaultOptions())
	if !errors.Is(err, ook.ErrOutOfOrder) {
		t.Errorf("got %v, want ErrOutOfOrder", err)
	}
}

func TestRunInvalidTemplate(t *testing.T) {
	_, err := Run(context.Background(), nil, []protocol.Template{{Name: "broken"}}, DefaultOptions())
	if !errors.Is(err, protocol.ErrInvalidPulseLength) {
		t.Errorf("got %v, want ErrInvalidPulseLength", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	edges := transmit(protocol.Defaults()[0], 0, 0, 24)
	if _, err := Run(ctx, edges, protocol.Defaults(), DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
