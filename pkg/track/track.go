// Package track defines the track contract and the built-in track types a
// browser figure is assembled from.
//
// A track participates in two phases. Config answers how many grid rows the
// track wants for a region, without touching its data store. Render draws the
// region into the data and label surfaces of the frame the browser allocated
// from that answer. Tracks hold no per-plot state between calls; the same
// track value can render any number of regions in sequence.
package track

import (
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/layout"
	"github.com/matzehuels/trackstack/pkg/render/svg"
)

// Result reports what a track actually drew.
type Result struct {
	Name   string        // track name, for logs and hooks
	Region genome.Region // region rendered, snapped outward for window-backed stores
}

// Track is one horizontal panel of a browser figure.
//
// Config is called once per plot before any rendering starts; Render is
// called once per plot with the frame surfaces sized from the declaration.
type Track interface {
	// Name identifies the track in logs, hooks and results.
	Name() string

	// Config declares the track's row requirement for the region.
	Config(region genome.Region, ctx layout.Context) (layout.Declaration, error)

	// Render draws the region onto the data surface and the track's caption
	// onto the label surface.
	Render(region genome.Region, data, label *svg.Surface) (Result, error)
}

// drawLabel writes the track caption at the right edge of the label column.
func drawLabel(label *svg.Surface, text string) {
	label.SetXLim(0, 1)
	label.SetYLim(0, 1)
	label.Text(0.95, 0.5, text, svg.TextOptions{Anchor: "end"})
}
