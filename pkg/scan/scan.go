// Package scan runs the frame decoder of every candidate protocol over a trace.
package scan

import (
	"context"
	"fmt"
	"time"

	"ookscan/pkg/ook"
	"ookscan/pkg/port"
	"ookscan/pkg/protocol"

	"github.com/womat/debug"
	"golang.org/x/sync/errgroup"
)

// checkInterval is the number of edges fed between two context checks.
const checkInterval = 4096

// Options holds the parameters of a scan.
type Options struct {
	// Decoder holds the tolerances of every decoder.
	Decoder ook.Config
	// Flush finalizes frames still in progress at the end of the trace.
	Flush bool
}

// DefaultOptions returns the default decoder tolerances with flushing enabled.
func DefaultOptions() Options {
	return Options{Decoder: ook.DefaultConfig(), Flush: true}
}

// Report is the result of one protocol.
type Report struct {
	// Index is the position of the protocol in the candidate list.
	Index    int
	Protocol protocol.Template
	Frames   []ook.Frame
	Discards []ook.Discard
	// OverLength is the number of discarded frames with too many bits.
	OverLength int
	// Edges is the number of edges fed to the decoder.
	Edges int
	// Duration is the time spent decoding.
	Duration time.Duration
}

// Run decodes the edges once per protocol template.
// The decoders are independent and run concurrently, the reports are in template order.
func Run(ctx context.Context, edges []port.Edge, templates []protocol.Template, opts Options) ([]Report, error) {
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}

	reports := make([]Report, len(templates))
	g, ctx := errgroup.WithContext(ctx)

	for i, t := range templates {
		i, t := i, t
		g.Go(func() error {
			r, err := decode(ctx, edges, t, opts)
			if err != nil {
				return fmt.Errorf("protocol %d (%s): %w", i, t.Name, err)
			}

			r.Index = i
			reports[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// decode feeds all edges to a new decoder for template t.
func decode(ctx context.Context, edges []port.Edge, t protocol.Template, opts Options) (Report, error) {
	started := time.Now()
	d := ook.New(t, opts.Decoder)

	for i, e := range edges {
		if i%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}
		}

		if err := d.Feed(e); err != nil {
			return Report{}, fmt.Errorf("edge %d: %w", i, err)
		}
	}

	if opts.Flush {
		d.Flush()
	}

	r := Report{
		Protocol: t,
		Frames:   d.Results(),
		Discards: d.Discards(),
		Edges:    len(edges),
		Duration: time.Since(started),
	}
	for _, dis := range r.Discards {
		if dis.OverLength {
			r.OverLength++
		}
	}

	debug.DebugLog.Printf("%s: %d frames, %d discarded in %v", t.Name, len(r.Frames), len(r.Discards), r.Duration)
	return r, nil
}
