// Package metrics holds the prometheus metrics of the decode service.
package metrics

import (
	"ookscan/pkg/scan"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the prometheus metrics of the scans.
type Metrics struct {
	// Scan metrics
	Scans        prometheus.Counter
	ScanErrors   prometheus.Counter
	EdgesScanned prometheus.Counter

	// Decoder metrics, labeled by protocol
	FramesDecoded    *prometheus.CounterVec
	FramesDiscarded  *prometheus.CounterVec
	FramesOverLength *prometheus.CounterVec
	DecodeDuration   *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Scans: f.NewCounter(prometheus.CounterOpts{
			Name: "ookscan_scans_total",
			Help: "Total number of scanned traces",
		}),
		ScanErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "ookscan_scan_errors_total",
			Help: "Total number of traces which could not be scanned",
		}),
		EdgesScanned: f.NewCounter(prometheus.CounterOpts{
			Name: "ookscan_edges_total",
			Help: "Total number of edges of the scanned traces",
		}),
		FramesDecoded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ookscan_frames_decoded_total",
			Help: "Total number of complete frames",
		}, []string{"protocol"}),
		FramesDiscarded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ookscan_frames_discarded_total",
			Help: "Total number of frames discarded for an unexpected bit count",
		}, []string{"protocol"}),
		FramesOverLength: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ookscan_frames_overlength_total",
			Help: "Total number of discarded frames with more bits than expected",
		}, []string{"protocol"}),
		DecodeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ookscan_decode_duration_seconds",
			Help:    "Time to decode a trace with one protocol",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"protocol"}),
	}
}

// Observe records the reports of one scan.
func (m *Metrics) Observe(reports []scan.Report) {
	m.Scans.Inc()
	if len(reports) > 0 {
		m.EdgesScanned.Add(float64(reports[0].Edges))
	}

	for _, r := range reports {
		name := r.Protocol.Name
		m.FramesDecoded.WithLabelValues(name).Add(float64(len(r.Frames)))
		m.FramesDiscarded.WithLabelValues(name).Add(float64(len(r.Discards)))
		m.FramesOverLength.WithLabelValues(name).Add(float64(r.OverLength))
		m.DecodeDuration.WithLabelValues(name).Observe(r.Duration.Seconds())
	}
}
