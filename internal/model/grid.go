// Package model assembles configured function objects into a synthetic
// model image that an optimizer can compare against pixel data.
package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Grid is a rectangular double-precision pixel array, row-major with the
// origin at the lower-left pixel (0,0).
type Grid struct {
	NCols int
	NRows int
	Pix   []float64
}

// NewGrid allocates a zeroed nCols x nRows grid.
func NewGrid(nCols, nRows int) *Grid {
	return &Grid{
		NCols: nCols,
		NRows: nRows,
		Pix:   make([]float64, nCols*nRows),
	}
}

// GridFrom wraps an existing row-major buffer without copying. The buffer
// length must equal nCols*nRows.
func GridFrom(nCols, nRows int, pix []float64) (*Grid, error) {
	if len(pix) != nCols*nRows {
		return nil, fmt.Errorf("model: buffer length %d does not match %dx%d grid",
			len(pix), nCols, nRows)
	}
	return &Grid{NCols: nCols, NRows: nRows, Pix: pix}, nil
}

// At returns the value at column x, row y.
func (g *Grid) At(x, y int) float64 {
	return g.Pix[y*g.NCols+x]
}

// Set stores v at column x, row y.
func (g *Grid) Set(x, y int, v float64) {
	g.Pix[y*g.NCols+x] = v
}

// Sum returns the total flux in the grid.
func (g *Grid) Sum() float64 {
	return floats.Sum(g.Pix)
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.NCols, g.NRows)
	copy(out.Pix, g.Pix)
	return out
}

// SameShape reports whether two grids have identical dimensions.
func (g *Grid) SameShape(other *Grid) bool {
	return other != nil && g.NCols == other.NCols && g.NRows == other.NRows
}

// Rect is an axis-aligned pixel rectangle with inclusive bounds, in the
// full-image coordinate space.
type Rect struct {
	X0, X1 int
	Y0, Y1 int
}

// Contains reports whether pixel (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// valid reports whether the rectangle is non-empty and lies within an
// nCols x nRows grid.
func (r Rect) valid(nCols, nRows int) bool {
	return r.X0 >= 0 && r.Y0 >= 0 && r.X0 <= r.X1 && r.Y0 <= r.Y1 &&
		r.X1 < nCols && r.Y1 < nRows
}

// OversampleRegion designates a sub-rectangle evaluated on a finer sub-pixel
// grid and box-averaged back to native resolution.
type OversampleRegion struct {
	Rect   Rect
	Factor int
}
