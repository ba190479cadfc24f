package track

import (
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/layout"
	"github.com/matzehuels/trackstack/pkg/render/svg"
)

// ScaleBarOptions configures a scale bar track.
type ScaleBarOptions struct {
	Name   string // track caption; defaults to "scale"
	Stroke string // bar color; defaults to black
}

// ScaleBar renders a round-number distance bar under the other tracks.
type ScaleBar struct {
	opts ScaleBarOptions
}

// NewScaleBar builds a scale bar track.
func NewScaleBar(opts ScaleBarOptions) *ScaleBar {
	if opts.Name == "" {
		opts.Name = "scale"
	}
	if opts.Stroke == "" {
		opts.Stroke = "#000000"
	}
	return &ScaleBar{opts: opts}
}

// Name implements Track.
func (t *ScaleBar) Name() string { return t.opts.Name }

// Config implements Track.
func (t *ScaleBar) Config(genome.Region, layout.Context) (layout.Declaration, error) {
	return layout.Declaration{Rows: 1}, nil
}

// BarSize returns the largest round distance (1, 2 or 5 times a power of
// ten) that covers at most three quarters of the region.
func BarSize(length int64) int64 {
	limit := (length * 3) / 4
	best := int64(1)
	for pow := int64(1); pow <= limit; pow *= 10 {
		for _, c := range []int64{1, 2, 5} {
			if c*pow <= limit && c*pow > best {
				best = c * pow
			}
		}
	}
	return best
}

// Render implements Track.
func (t *ScaleBar) Render(region genome.Region, data, label *svg.Surface) (Result, error) {
	bar := BarSize(region.Length())

	data.SetXLim(float64(region.Start), float64(region.Stop))
	data.SetYLim(0, 1)

	mid := float64(region.Start) + float64(region.Length())/2
	x0 := mid - float64(bar)/2
	x1 := mid + float64(bar)/2
	data.HLine(0.35, x0, x1, t.opts.Stroke, 2)
	data.Line(x0, 0.2, x0, 0.5, t.opts.Stroke, 2)
	data.Line(x1, 0.2, x1, 0.5, t.opts.Stroke, 2)
	data.Text(mid, 0.65, genome.FormatDistance(bar, 0), svg.TextOptions{Anchor: "middle", Size: 11})

	drawLabel(label, t.opts.Name)
	return Result{Name: t.opts.Name, Region: region}, nil
}
