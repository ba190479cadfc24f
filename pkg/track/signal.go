package track

import (
	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/layout"
	"github.com/matzehuels/trackstack/pkg/render/svg"
	"github.com/matzehuels/trackstack/pkg/store/bedgraph"
)

// signalRows is the fixed height of a signal track.
const signalRows = 4

// SignalOptions configures a continuous-signal track.
type SignalOptions struct {
	Name string  // track caption; defaults to "signal"
	Bins int     // bin count across the region; defaults to 800
	Fill string  // fill color; defaults to "#377eb8"
	YMax float64 // fixed y axis maximum; 0 means autoscale to the binned data
}

// Signal renders binned coverage from a bedGraph file as a filled area plot.
type Signal struct {
	file *bedgraph.File
	opts SignalOptions
}

// NewSignal builds a signal track over f.
func NewSignal(f *bedgraph.File, opts SignalOptions) (*Signal, error) {
	if f == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "signal track needs a bedgraph file")
	}
	if opts.Name == "" {
		opts.Name = "signal"
	}
	if opts.Bins == 0 {
		opts.Bins = 800
	}
	if opts.Bins < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "signal bins must be positive, got %d", opts.Bins)
	}
	if opts.Fill == "" {
		opts.Fill = "#377eb8"
	}
	return &Signal{file: f, opts: opts}, nil
}

// Name implements Track.
func (t *Signal) Name() string { return t.opts.Name }

// Config implements Track. Signal tracks have a fixed height.
func (t *Signal) Config(genome.Region, layout.Context) (layout.Declaration, error) {
	return layout.Declaration{Rows: signalRows}, nil
}

// Render implements Track.
func (t *Signal) Render(region genome.Region, data, label *svg.Surface) (Result, error) {
	values, err := t.file.Coverage(region, t.opts.Bins)
	if err != nil {
		return Result{}, err
	}

	ymax := t.opts.YMax
	if ymax == 0 {
		for _, v := range values {
			if v > ymax {
				ymax = v
			}
		}
	}
	if ymax == 0 {
		ymax = 1
	}

	data.SetXLim(float64(region.Start), float64(region.Stop))
	data.SetYLim(0, ymax)

	binWidth := float64(region.Length()) / float64(len(values))
	xs := make([]float64, len(values))
	for i := range values {
		xs[i] = float64(region.Start) + (float64(i)+0.5)*binWidth
	}
	data.FillBetween(xs, values, t.opts.Fill)

	drawLabel(label, t.opts.Name)
	return Result{Name: t.opts.Name, Region: region}, nil
}
