package metrics

import (
	"testing"

	"ookscan/pkg/ook"
	"ookscan/pkg/protocol"
	"ookscan/pkg/scan"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())

	tpl := protocol.Defaults()[0]
	m.Observe([]scan.Report{{
		Protocol:   tpl,
		Frames:     []ook.Frame{{}, {}},
		Discards:   []ook.Discard{{OverLength: true}},
		OverLength: 1,
		Edges:      120,
	}})

	if v := testutil.ToFloat64(m.Scans); v != 1 {
		t.Errorf("scans: got %v, want 1", v)
	}
	if v := testutil.ToFloat64(m.EdgesScanned); v != 120 {
		t.Errorf("edges: got %v, want 120", v)
	}
	if v := testutil.ToFloat64(m.FramesDecoded.WithLabelValues(tpl.Name)); v != 2 {
		t.Errorf("decoded: got %v, want 2", v)
	}
	if v := testutil.ToFloat64(m.FramesDiscarded.WithLabelValues(tpl.Name)); v != 1 {
		t.Errorf("discarded: got %v, want 1", v)
	}
	if v := testutil.ToFloat64(m.FramesOverLength.WithLabelValues(tpl.Name)); v != 1 {
		t.Errorf("over-length: got %v, want 1", v)
	}
}
