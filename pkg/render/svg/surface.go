// Package svg implements the 2D drawing surface tracks render into.
//
// A [Surface] is a buffered SVG fragment with its own world coordinate
// system: a track sets x limits in genomic base pairs (and y limits in
// whatever its data calls for) and draws through those coordinates; the
// surface translates to pixels as it writes elements. The browser composes
// the fragments of all frames into one SVG document.
//
// Heatmap rasters are embedded as base64 PNG data URIs rather than one SVG
// rect per cell; a projected triangle has ~10^5 visible cells and inline
// rects would dwarf the document.
package svg

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/matzehuels/trackstack/pkg/matrix"
)

// Surface is a drawing region of fixed pixel size with world-coordinate
// axes. The zero y is at the bottom edge, matching plot conventions.
type Surface struct {
	width, height          float64
	xmin, xmax, ymin, ymax float64
	buf                    bytes.Buffer
}

// NewSurface creates a width×height pixel surface whose world coordinates
// default to the pixel grid (x right, y up).
func NewSurface(width, height float64) *Surface {
	return &Surface{
		width: width, height: height,
		xmin: 0, xmax: width,
		ymin: 0, ymax: height,
	}
}

// Width returns the surface width in pixels.
func (s *Surface) Width() float64 { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() float64 { return s.height }

// SetXLim sets the world x range mapped onto the surface width. Tracks
// typically set this to the region's start and stop so they can draw in
// base-pair coordinates.
func (s *Surface) SetXLim(min, max float64) {
	s.xmin, s.xmax = min, max
}

// SetYLim sets the world y range mapped onto the surface height, bottom up.
func (s *Surface) SetYLim(min, max float64) {
	s.ymin, s.ymax = min, max
}

func (s *Surface) tx(x float64) float64 {
	return (x - s.xmin) / (s.xmax - s.xmin) * s.width
}

func (s *Surface) ty(y float64) float64 {
	return s.height - (y-s.ymin)/(s.ymax-s.ymin)*s.height
}

// Line draws a straight line between two world points.
func (s *Surface) Line(x1, y1, x2, y2 float64, stroke string, strokeWidth float64) {
	fmt.Fprintf(&s.buf,
		`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`+"\n",
		s.tx(x1), s.ty(y1), s.tx(x2), s.ty(y2), stroke, strokeWidth)
}

// HLine draws a horizontal line at world y spanning [x1, x2].
func (s *Surface) HLine(y, x1, x2 float64, stroke string, strokeWidth float64) {
	s.Line(x1, y, x2, y, stroke, strokeWidth)
}

// Rect fills the axis-aligned world rectangle with the given corner, width
// and height.
func (s *Surface) Rect(x, y, w, h float64, fill string) {
	px := s.tx(x)
	py := s.ty(y + h)
	fmt.Fprintf(&s.buf,
		`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		px, py, math.Abs(s.tx(x+w)-px), math.Abs(s.ty(y)-py), fill)
}

// FillBetween fills the area between the piecewise-linear curve (xs, ys)
// and the y=0 baseline, the classic signal-track shape.
func (s *Surface) FillBetween(xs, ys []float64, fill string) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return
	}
	var path bytes.Buffer
	fmt.Fprintf(&path, "M %.2f %.2f", s.tx(xs[0]), s.ty(0))
	for i := range xs {
		fmt.Fprintf(&path, " L %.2f %.2f", s.tx(xs[i]), s.ty(ys[i]))
	}
	fmt.Fprintf(&path, " L %.2f %.2f Z", s.tx(xs[len(xs)-1]), s.ty(0))
	fmt.Fprintf(&s.buf, `<path d="%s" fill="%s" stroke="none"/>`+"\n", path.String(), fill)
}

// TextOptions controls text placement and styling.
type TextOptions struct {
	Size   float64 // font size in pixels; 0 means 12
	Anchor string  // "start", "middle" or "end"; empty means "start"
	Fill   string  // color; empty means black
	Rotate bool    // rotate 90° counterclockwise about the anchor point
}

// Text draws a string at a world point.
func (s *Surface) Text(x, y float64, text string, opts TextOptions) {
	size := opts.Size
	if size == 0 {
		size = 12
	}
	anchor := opts.Anchor
	if anchor == "" {
		anchor = "start"
	}
	fill := opts.Fill
	if fill == "" {
		fill = "#000000"
	}

	px, py := s.tx(x), s.ty(y)
	transform := ""
	if opts.Rotate {
		transform = fmt.Sprintf(` transform="rotate(-90 %.2f %.2f)"`, px, py)
	}

	var escaped bytes.Buffer
	xml.EscapeText(&escaped, []byte(text))

	fmt.Fprintf(&s.buf,
		`<text x="%.2f" y="%.2f" font-size="%.1f" font-family="sans-serif" text-anchor="%s" fill="%s"%s>%s</text>`+"\n",
		px, py, size, anchor, fill, transform, escaped.String())
}

// Raster draws a value grid stretched over the whole surface. Finite values
// are normalized to the grid's finite min/max and mapped through the
// colormap; NaN cells become fully transparent pixels.
func (s *Surface) Raster(g *matrix.Grid, cmap Colormap) error {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range g.Finite() {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, g.Cols(), g.Rows()))
	for i := 0; i < g.Rows(); i++ {
		for j := 0; j < g.Cols(); j++ {
			v := g.At(i, j)
			if math.IsNaN(v) {
				continue // zero value NRGBA is transparent
			}
			img.SetNRGBA(j, i, cmap.Map((v-lo)/span))
		}
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return err
	}

	fmt.Fprintf(&s.buf,
		`<image x="0" y="0" width="%.2f" height="%.2f" preserveAspectRatio="none" href="data:image/png;base64,%s"/>`+"\n",
		s.width, s.height, base64.StdEncoding.EncodeToString(pngBuf.Bytes()))
	return nil
}

// Fragment returns the accumulated SVG elements, without any outer <svg>
// wrapper. The browser nests fragments inside positioned <g> groups.
func (s *Surface) Fragment() []byte {
	return s.buf.Bytes()
}
