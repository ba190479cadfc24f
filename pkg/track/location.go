package track

import (
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/layout"
	"github.com/matzehuels/trackstack/pkg/render/svg"
)

// maxTickPrecision bounds the precision escalation when deduplicating tick
// labels.
const maxTickPrecision = 6

// LocationOptions configures a coordinate axis track.
type LocationOptions struct {
	Stroke string // axis color; defaults to black
}

// Location renders a coordinate axis with distance-formatted tick labels.
// The label column shows the chromosome name.
type Location struct {
	opts LocationOptions
}

// NewLocation builds a location track.
func NewLocation(opts LocationOptions) *Location {
	if opts.Stroke == "" {
		opts.Stroke = "#000000"
	}
	return &Location{opts: opts}
}

// Name implements Track.
func (t *Location) Name() string { return "location" }

// Config implements Track.
func (t *Location) Config(genome.Region, layout.Context) (layout.Declaration, error) {
	return layout.Declaration{Rows: 1}, nil
}

// tickStep returns the largest round step (1, 2 or 5 times a power of ten)
// that yields at least four ticks across the region.
func tickStep(length int64) int64 {
	best := int64(1)
	for pow := int64(1); pow <= length; pow *= 10 {
		for _, c := range []int64{1, 2, 5} {
			step := c * pow
			if length/step >= 4 && step > best {
				best = step
			}
		}
	}
	return best
}

// Ticks returns the tick positions for a region: multiples of the round step
// inside the half-open interval.
func Ticks(region genome.Region) []int64 {
	step := tickStep(region.Length())
	first := (region.Start + step - 1) / step * step
	var out []int64
	for pos := first; pos < region.Stop; pos += step {
		out = append(out, pos)
	}
	return out
}

// TickLabels formats positions with FormatDistance, raising the precision
// until every label is distinct. Ticks 200kb apart both print as "3Mb" at
// precision zero; one extra digit separates them.
func TickLabels(positions []int64) []string {
	for precision := 0; ; precision++ {
		labels := make([]string, len(positions))
		seen := make(map[string]bool, len(positions))
		unique := true
		for i, pos := range positions {
			labels[i] = genome.FormatDistance(pos, precision)
			if seen[labels[i]] {
				unique = false
			}
			seen[labels[i]] = true
		}
		if unique || precision >= maxTickPrecision {
			return labels
		}
	}
}

// Render implements Track.
func (t *Location) Render(region genome.Region, data, label *svg.Surface) (Result, error) {
	data.SetXLim(float64(region.Start), float64(region.Stop))
	data.SetYLim(0, 1)

	data.HLine(0.75, float64(region.Start), float64(region.Stop), t.opts.Stroke, 1)

	positions := Ticks(region)
	labels := TickLabels(positions)
	for i, pos := range positions {
		x := float64(pos)
		data.Line(x, 0.6, x, 0.9, t.opts.Stroke, 1)
		data.Text(x, 0.3, labels[i], svg.TextOptions{Anchor: "middle", Size: 11})
	}

	drawLabel(label, region.Chrom)
	return Result{Name: t.Name(), Region: region}, nil
}
