// Package browser composes tracks into a genome-browser figure.
//
// A Browser holds an ordered track list and the figure geometry. Plot runs
// the two-phase layout negotiation and renders every track for one region,
// synchronously and fail-fast: the first track error aborts the whole plot.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/layout"
	"github.com/matzehuels/trackstack/pkg/observability"
	"github.com/matzehuels/trackstack/pkg/track"
)

const (
	// DefaultWidth is the figure width in pixels.
	DefaultWidth = 800.0
	// DefaultRowHeight is the height of one layout grid row in pixels.
	DefaultRowHeight = 25.0
)

// Browser is an ordered stack of tracks plus figure geometry. Tracks render
// top to bottom in slice order.
type Browser struct {
	Tracks    []track.Track
	Width     float64
	RowHeight float64
}

// New builds a browser over tracks with the default geometry.
func New(tracks ...track.Track) *Browser {
	return &Browser{
		Tracks:    tracks,
		Width:     DefaultWidth,
		RowHeight: DefaultRowHeight,
	}
}

// Plot is the rendered figure for one region.
type Plot struct {
	ID      string         // unique plot identifier
	Region  genome.Region  // region requested
	Results []track.Result // per-track render results, in track order

	ctx    layout.Context
	frames []layout.Frame
	rows   int
}

// Plot renders region through every track and returns the finished figure.
func (b *Browser) Plot(region genome.Region) (*Plot, error) {
	ctx := context.Background()
	id := uuid.NewString()
	start := time.Now()
	observability.Plot().OnPlotStart(ctx, id, region.String(), len(b.Tracks))

	p, err := b.plot(ctx, id, region)
	observability.Plot().OnPlotComplete(ctx, id, region.String(), time.Since(start), err)
	return p, err
}

func (b *Browser) plot(ctx context.Context, id string, region genome.Region) (*Plot, error) {
	lctx := layout.Context{Width: b.Width, RowHeight: b.RowHeight}
	if lctx.Width == 0 {
		lctx.Width = DefaultWidth
	}
	if lctx.RowHeight == 0 {
		lctx.RowHeight = DefaultRowHeight
	}

	sizers := make([]layout.Sizer, len(b.Tracks))
	for i, tr := range b.Tracks {
		sizers[i] = tr
	}
	decls, err := layout.Declare(region, lctx, sizers)
	if err != nil {
		return nil, err
	}
	frames, err := layout.Allocate(lctx, decls)
	if err != nil {
		return nil, err
	}

	results := make([]track.Result, len(b.Tracks))
	for i, tr := range b.Tracks {
		trackStart := time.Now()
		observability.Plot().OnTrackRenderStart(ctx, id, tr.Name())
		res, err := tr.Render(region, frames[i].Data, frames[i].Label)
		observability.Plot().OnTrackRenderComplete(ctx, id, tr.Name(), time.Since(trackStart), err)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}

	return &Plot{
		ID:      id,
		Region:  region,
		Results: results,
		ctx:     lctx,
		frames:  frames,
		rows:    layout.TotalRows(decls),
	}, nil
}

// SVG assembles the per-track fragments into a standalone SVG document:
// a two-column grid with the label column on the left and one band of rows
// per track.
func (p *Plot) SVG() []byte {
	width := p.ctx.Width
	height := float64(p.rows) * p.ctx.RowHeight

	var out []byte
	out = fmt.Appendf(out,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.2f %.2f">`+"\n",
		width, height, width, height)
	out = fmt.Appendf(out, `<rect x="0" y="0" width="%.2f" height="%.2f" fill="white"/>`+"\n", width, height)

	for _, f := range p.frames {
		y := float64(f.RowOffset) * p.ctx.RowHeight
		out = fmt.Appendf(out, `<g transform="translate(0,%.2f)">`+"\n", y)
		out = append(out, f.Label.Fragment()...)
		out = append(out, []byte("</g>\n")...)
		out = fmt.Appendf(out, `<g transform="translate(%.2f,%.2f)">`+"\n", p.ctx.LabelWidth(), y)
		out = append(out, f.Data.Fragment()...)
		out = append(out, []byte("</g>\n")...)
	}

	out = append(out, []byte("</svg>\n")...)
	return out
}
