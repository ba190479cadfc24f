// Package matrix holds the interaction-matrix type and the heatmap
// projection pipeline: diagonal suppression, percentile clipping, 45°
// triangular rotation and log transform.
//
// Cells with no measurement carry NaN, the undefined sentinel. NaN is
// distinguishable from a legitimate zero measurement and survives every
// projection step: color mapping later renders NaN cells as transparent
// background.
package matrix

import "math"

// Grid is a rectangular float64 raster. Cells default to NaN.
type Grid struct {
	rows, cols int
	data       []float64
}

// NewGrid creates a rows×cols grid with every cell set to NaN.
func NewGrid(rows, cols int) *Grid {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = math.NaN()
	}
	return &Grid{rows: rows, cols: cols, data: data}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// At returns the value at row i, column j.
func (g *Grid) At(i, j int) float64 { return g.data[i*g.cols+j] }

// Set stores v at row i, column j.
func (g *Grid) Set(i, j int, v float64) { g.data[i*g.cols+j] = v }

// Finite returns all finite (non-NaN, non-Inf) values in row-major order.
func (g *Grid) Finite() []float64 {
	out := make([]float64, 0, len(g.data))
	for _, v := range g.data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Matrix is a square, symmetric interaction matrix with one row and column
// per covered genomic window.
type Matrix struct {
	Grid
}

// NewMatrix creates an n×n matrix with every cell set to NaN.
func NewMatrix(n int) *Matrix {
	return &Matrix{Grid: *NewGrid(n, n)}
}

// N returns the side length of the matrix.
func (m *Matrix) N() int { return m.rows }

// Sub returns a copy of the symmetric sub-matrix [start:stop, start:stop).
func (m *Matrix) Sub(start, stop int) *Matrix {
	out := NewMatrix(stop - start)
	for i := start; i < stop; i++ {
		for j := start; j < stop; j++ {
			out.Set(i-start, j-start, m.At(i, j))
		}
	}
	return out
}

// RemoveDiagonal sets every cell (i, i) to NaN in place. Self-interaction
// values are never meaningful and must not reach the color-mapping stage.
func (m *Matrix) RemoveDiagonal() {
	for i := 0; i < m.rows; i++ {
		m.Set(i, i, math.NaN())
	}
}
