package matrix

import "math"

const (
	// resampleSize is the side of the square canvas every matrix is
	// resampled to before rotation. The projected output size depends only
	// on this constant, never on the input matrix size.
	resampleSize = 800

	// heatBias is added to every finite value before rotation so that zero
	// is never a valid data value: the empty background produced by the
	// rotation is exactly zero, and only exact zeros are restored to NaN
	// after cropping.
	heatBias = 100.0
)

// rotatedSide is the bounding-box side of the resampled square after a 45°
// rotation; ProjectedHeight is the row count of the cropped triangle.
var (
	rotatedSide     = int(math.Ceil(resampleSize * math.Sqrt2))
	ProjectedHeight = rotatedSide / 2
)

// RotateToTriangle projects a square matrix into a triangular heatmap: the
// matrix is treated as a raster image, resampled to a fixed square canvas,
// rotated 45° and cropped to the half above the diagonal. In the result the
// horizontal axis tracks genomic position and the vertical distance from the
// baseline (the bottom row) tracks genomic separation. With flip set, the
// triangle points downward and the baseline is the top row.
//
// NaN cells poison their interpolation neighborhood during resampling, so
// undefined values never blend into defined ones.
func RotateToTriangle(m *Matrix, flip bool) *Grid {
	biased := resampleBiased(m)
	rot := rotate45(biased)

	out := NewGrid(ProjectedHeight, rotatedSide)
	for i := 0; i < ProjectedHeight; i++ {
		srcRow := i
		if flip {
			srcRow = ProjectedHeight - 1 - i
		}
		for j := 0; j < rotatedSide; j++ {
			v := rot.At(srcRow, j)
			switch {
			case math.IsNaN(v) || v == 0:
				// rotation background, or an undefined cell
			default:
				out.Set(i, j, v-heatBias)
			}
		}
	}
	return out
}

// resampleBiased scales the matrix to resampleSize×resampleSize with
// bilinear interpolation, adding heatBias to every finite source value.
func resampleBiased(m *Matrix) *Grid {
	n := m.N()
	out := NewGrid(resampleSize, resampleSize)

	scale := float64(n) / float64(resampleSize)
	for i := 0; i < resampleSize; i++ {
		sy := (float64(i)+0.5)*scale - 0.5
		for j := 0; j < resampleSize; j++ {
			sx := (float64(j)+0.5)*scale - 0.5
			out.Set(i, j, sampleBilinear(m, sy, sx))
		}
	}
	return out
}

// sampleBilinear interpolates the biased value at fractional source
// coordinates (y, x), clamping at the matrix edges. Any NaN among the four
// contributing cells makes the sample NaN.
func sampleBilinear(m *Matrix, y, x float64) float64 {
	n := m.N()
	y0 := clampInt(int(math.Floor(y)), 0, n-1)
	x0 := clampInt(int(math.Floor(x)), 0, n-1)
	y1 := clampInt(y0+1, 0, n-1)
	x1 := clampInt(x0+1, 0, n-1)

	fy := clampFloat(y-float64(y0), 0, 1)
	fx := clampFloat(x-float64(x0), 0, 1)

	v00 := m.At(y0, x0) + heatBias
	v01 := m.At(y0, x1) + heatBias
	v10 := m.At(y1, x0) + heatBias
	v11 := m.At(y1, x1) + heatBias

	top := v00*(1-fx) + v01*fx
	bottom := v10*(1-fx) + v11*fx
	return top*(1-fy) + bottom*fy
}

// rotate45 rotates the square grid 45° about its center, expanding the
// canvas to the rotated bounding box. Pixels with no source fall to exactly
// zero, the background marker. Nearest-neighbor sampling keeps the
// background exact: data never blends with it.
func rotate45(g *Grid) *Grid {
	side := rotatedSide
	out := NewGrid(side, side)

	sin, cos := math.Sqrt2/2, math.Sqrt2/2
	srcC := float64(g.Rows()) / 2
	dstC := float64(side) / 2

	for i := 0; i < side; i++ {
		dy := float64(i) + 0.5 - dstC
		for j := 0; j < side; j++ {
			dx := float64(j) + 0.5 - dstC

			sx := cos*dx - sin*dy + srcC
			sy := sin*dx + cos*dy + srcC

			xi := int(math.Floor(sx))
			yi := int(math.Floor(sy))
			if xi < 0 || yi < 0 || xi >= g.Cols() || yi >= g.Rows() {
				out.Set(i, j, 0)
				continue
			}
			out.Set(i, j, g.At(yi, xi))
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
