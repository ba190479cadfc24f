// Package layout implements the two-phase vertical space negotiation
// between a browser figure and its tracks.
//
// Rendering a region runs three phases, each completing fully before the
// next starts:
//
//  1. Size negotiation: every track is asked, in caller order, how many
//     grid rows it needs for the region ([Declare]).
//  2. Allocation: the declarations are summed into a frame per track,
//     stacked top to bottom with zero gap ([Allocate]).
//  3. Render dispatch: each track draws into its own frame (owned by the
//     browser package).
//
// Geometry is a pure function of the declared row counts: identical
// declarations always produce identical frames.
package layout

import (
	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/genome"
	"github.com/matzehuels/trackstack/pkg/render/svg"
)

// labelFraction is the share of the figure width given to the label
// column; the remainder is the data column.
const labelFraction = 0.1

// Context carries the figure dimensions a track needs to size itself
// proportionally: a triangular interaction track, for example, requests
// half as many rows as a square one for the same width.
type Context struct {
	Width     float64 // overall drawing width in pixels
	RowHeight float64 // height of one grid row in pixels
}

// RowsWide returns how many grid rows equal the figure width, i.e. the row
// count at which a track of full width would be square.
func (c Context) RowsWide() float64 { return c.Width / c.RowHeight }

// DataWidth returns the pixel width of the data column.
func (c Context) DataWidth() float64 { return c.Width * (1 - labelFraction) }

// LabelWidth returns the pixel width of the label column.
func (c Context) LabelWidth() float64 { return c.Width * labelFraction }

// Declaration is a track's advisory space requirement for one region,
// recomputed on every render call and never cached across regions.
type Declaration struct {
	Rows int
}

// Sizer is the size-negotiation half of the track contract.
type Sizer interface {
	Config(region genome.Region, ctx Context) (Declaration, error)
}

// Frame is one track's allocated slice of the figure grid, consumed exactly
// once by the owning track's render call.
type Frame struct {
	RowOffset int // index of the frame's first grid row
	RowSpan   int // number of grid rows

	Label *svg.Surface // label column surface
	Data  *svg.Surface // data column surface
}

// Declare runs phase 1: collect every track's declaration in order. No
// rendering happens here; interaction tracks derive their answer from the
// intended aspect ratio alone, not from their data store.
func Declare(region genome.Region, ctx Context, tracks []Sizer) ([]Declaration, error) {
	decls := make([]Declaration, len(tracks))
	for i, tr := range tracks {
		d, err := tr.Config(region, ctx)
		if err != nil {
			return nil, err
		}
		decls[i] = d
	}
	return decls, nil
}

// TotalRows sums the declared row counts, the total grid height.
func TotalRows(decls []Declaration) int {
	total := 0
	for _, d := range decls {
		total += d.Rows
	}
	return total
}

// Allocate runs phase 2: build one frame per declaration, stacked in
// declaration order with zero gap. Each frame's RowOffset is the cumulative
// sum of the preceding row counts; its surfaces span the label and data
// columns at the frame's grid position.
func Allocate(ctx Context, decls []Declaration) ([]Frame, error) {
	frames := make([]Frame, len(decls))
	offset := 0
	for i, d := range decls {
		if d.Rows < 1 {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"track %d declared %d rows, need at least 1", i, d.Rows)
		}
		height := float64(d.Rows) * ctx.RowHeight
		frames[i] = Frame{
			RowOffset: offset,
			RowSpan:   d.Rows,
			Label:     svg.NewSurface(ctx.LabelWidth(), height),
			Data:      svg.NewSurface(ctx.DataWidth(), height),
		}
		offset += d.Rows
	}
	return frames, nil
}
