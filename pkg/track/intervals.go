package track

import (
	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/layout"
	"github.com/matzehuels/trackstack/pkg/render/svg"
	"github.com/matzehuels/trackstack/pkg/store/bed"
)

// IntervalsOptions configures a discrete-feature track.
type IntervalsOptions struct {
	Name   string  // track caption; defaults to "intervals"
	Stroke string  // bar and label color; defaults to black
	Jitter float64 // alternate bars up and down by this fraction of the row
}

// Intervals renders discrete genomic features, such as a BED file of binding
// peaks, as thick horizontal bars on a single row. Genes get their own track
// with row packing; intervals stay deliberately flat.
type Intervals struct {
	file *bed.File
	opts IntervalsOptions
}

// NewIntervals builds an intervals track over f.
func NewIntervals(f *bed.File, opts IntervalsOptions) (*Intervals, error) {
	if f == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "intervals track needs a bed file")
	}
	if opts.Name == "" {
		opts.Name = "intervals"
	}
	if opts.Stroke == "" {
		opts.Stroke = "#000000"
	}
	if opts.Jitter < 0 || opts.Jitter > 0.2 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"intervals jitter %v out of range [0, 0.2]", opts.Jitter)
	}
	return &Intervals{file: f, opts: opts}, nil
}

// Name implements Track.
func (t *Intervals) Name() string { return t.opts.Name }

// Config implements Track. Intervals share one row; closely spaced features
// are separated by jitter, not by packing.
func (t *Intervals) Config(genome.Region, layout.Context) (layout.Declaration, error) {
	return layout.Declaration{Rows: 1}, nil
}

// Render implements Track.
func (t *Intervals) Render(region genome.Region, data, label *svg.Surface) (Result, error) {
	features, err := t.file.Query(region)
	if err != nil {
		return Result{}, err
	}

	data.SetXLim(float64(region.Start), float64(region.Stop))
	data.SetYLim(0, 1)

	for i, feat := range features {
		y := 0.8 + t.opts.Jitter
		if i%2 == 1 {
			y = 0.8 - t.opts.Jitter
		}
		x0 := clampCoord(float64(feat.Start), region)
		x1 := clampCoord(float64(feat.Stop), region)
		data.HLine(y, x0, x1, t.opts.Stroke, 4)
		// BED uses "." for unnamed features.
		if feat.Name != "" && feat.Name != "." {
			data.Text(x0, 0.2, feat.Name, svg.TextOptions{Size: geneFontSize, Fill: t.opts.Stroke})
		}
	}

	drawLabel(label, t.opts.Name)
	return Result{Name: t.opts.Name, Region: region}, nil
}
