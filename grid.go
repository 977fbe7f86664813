package portrait

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
)

// Grid holds the tile values of a portrait plot as a rows × cols lattice of
// cells, each cell carrying one value per triangle. A grid is either scalar
// (values are mapped through a colormap) or RGBA (values are used as fill
// colors directly). The two modes are mutually exclusive.
type Grid struct {
	Rows int
	Cols int
	// Tris is the number of triangles per cell, either 2 or 4.
	Tris int

	values []float64
	rgba   []color.NRGBA
}

// NewGrid builds a scalar grid from a rows × cols × tris value array.
// The last dimension must be 2 or 4 and identical for every cell.
func NewGrid(values [][][]float64) (*Grid, error) {
	g, err := gridShape(len(values), func(i int) int { return len(values[i]) }, func(i, j int) int { return len(values[i][j]) })
	if err != nil {
		return nil, err
	}

	g.values = make([]float64, 0, g.Rows*g.Cols*g.Tris)
	for i := range values {
		for j := range values[i] {
			g.values = append(g.values, values[i][j]...)
		}
	}
	return g, nil
}

// NewRGBAGrid builds a color grid from a rows × cols × tris array of explicit
// triangle fill colors. Colormap mapping is bypassed for RGBA grids.
func NewRGBAGrid(values [][][]color.NRGBA) (*Grid, error) {
	g, err := gridShape(len(values), func(i int) int { return len(values[i]) }, func(i, j int) int { return len(values[i][j]) })
	if err != nil {
		return nil, err
	}

	g.rgba = make([]color.NRGBA, 0, g.Rows*g.Cols*g.Tris)
	for i := range values {
		for j := range values[i] {
			g.rgba = append(g.rgba, values[i][j]...)
		}
	}
	return g, nil
}

// gridShape validates the common shape invariants of both grid modes and
// returns a grid with the dimensions filled in.
func gridShape(rows int, colsAt func(int) int, trisAt func(int, int) int) (*Grid, error) {
	if rows == 0 {
		return nil, errors.New("the input array must not be empty")
	}
	cols := colsAt(0)
	if cols == 0 {
		return nil, errors.New("the input array must not be empty")
	}
	tris := trisAt(0, 0)

	for i := 0; i < rows; i++ {
		if colsAt(i) != cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, colsAt(i), cols)
		}
		for j := 0; j < cols; j++ {
			if trisAt(i, j) != tris {
				return nil, fmt.Errorf("cell (%d,%d) has %d triangles, expected %d", i, j, trisAt(i, j), tris)
			}
		}
	}
	if tris != 2 && tris != 4 {
		return nil, fmt.Errorf("only 2 or 4 triangles per cell are supported, got %d", tris)
	}
	return &Grid{Rows: rows, Cols: cols, Tris: tris}, nil
}

// IsRGBA reports whether the grid carries explicit fill colors.
func (g *Grid) IsRGBA() bool {
	return g.rgba != nil
}

// Len returns the total number of triangles in the grid.
func (g *Grid) Len() int {
	return g.Rows * g.Cols * g.Tris
}

// Value returns the scalar value of the given triangle. The triangle index
// follows the fixed per-cell slot order of the triangulation.
func (g *Grid) Value(row, col, tri int) float64 {
	return g.values[(row*g.Cols+col)*g.Tris+tri]
}

// Color returns the explicit fill color of the given triangle of an RGBA grid.
func (g *Grid) Color(row, col, tri int) color.NRGBA {
	return g.rgba[(row*g.Cols+col)*g.Tris+tri]
}

// Range returns the minimum and maximum of the scalar values. A degenerate
// range (all values equal) is widened by ±0.5 so that color normalization
// stays well defined.
func (g *Grid) Range() (vmin, vmax float64) {
	vmin, vmax = floats.Min(g.values), floats.Max(g.values)
	if vmin == vmax {
		vmin, vmax = vmin-0.5, vmax+0.5
	}
	return vmin, vmax
}
