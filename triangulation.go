package portrait

import (
	"fmt"

	"gonum.org/v1/plot/plotter"
)

// Triangle indexes three vertices of a mesh point set.
type Triangle [3]int

// Mesh is the shared triangulation of a portrait grid. Cell centers sit at
// integer coordinates starting at (0,0), so the corner lattice is offset by
// half a cell. The vertex layout is identical for every tile, which keeps the
// triangle orientation visually consistent across the whole grid.
type Mesh struct {
	Points    plotter.XYs
	Triangles []Triangle
}

// NewMesh builds the triangulation for a rows × cols grid with tris triangles
// per cell. Triangles are emitted row-major over the cells with a fixed slot
// order inside each cell, matching the layout of the grid values.
func NewMesh(rows, cols, tris int) (*Mesh, error) {
	if tris != 2 && tris != 4 {
		return nil, fmt.Errorf("only 2 or 4 triangles per cell are supported, got %d", tris)
	}
	pts := cornerPoints(rows, cols)
	if tris == 4 {
		t, p := fourTriangles(rows, cols, pts)
		return &Mesh{Points: p, Triangles: t}, nil
	}
	// The diagonal split reuses the corner lattice without adding points.
	return &Mesh{Points: pts, Triangles: twoTriangles(rows, cols)}, nil
}

// cornerPoints returns the (rows+1) × (cols+1) cell corner lattice.
func cornerPoints(rows, cols int) plotter.XYs {
	pts := make(plotter.XYs, 0, (rows+1)*(cols+1))
	for i := 0; i <= rows; i++ {
		for j := 0; j <= cols; j++ {
			pts = append(pts, plotter.XY{X: float64(j) - 0.5, Y: float64(i) - 0.5})
		}
	}
	return pts
}

// twoTriangles splits every cell along the TL-BR diagonal.
// Corner order per cell: p0 = top left, p1 = top right, p2 = bottom left,
// p3 = bottom right.
func twoTriangles(rows, cols int) []Triangle {
	tris := make([]Triangle, 0, 2*rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			p0 := i*(cols+1) + j
			p1 := p0 + 1
			p2 := p0 + cols + 1
			p3 := p2 + 1
			tris = append(tris, Triangle{p0, p1, p2}, Triangle{p2, p1, p3})
		}
	}
	return tris
}

// fourTriangles splits every cell into quadrants around an added center
// point. The slot order is top, right, bottom, left.
func fourTriangles(rows, cols int, pts plotter.XYs) ([]Triangle, plotter.XYs) {
	tris := make([]Triangle, 0, 4*rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			p0 := i*(cols+1) + j
			p1 := p0 + 1
			p2 := p0 + cols + 1
			p3 := p2 + 1

			pc := len(pts)
			pts = append(pts, plotter.XY{
				X: (pts[p0].X + pts[p3].X) / 2,
				Y: (pts[p0].Y + pts[p3].Y) / 2,
			})
			tris = append(tris,
				Triangle{p0, p1, pc},
				Triangle{p1, p3, pc},
				Triangle{p3, p2, pc},
				Triangle{p2, p0, pc},
			)
		}
	}
	return tris, pts
}

// centroid returns the center of gravity of a triangle, used to anchor the
// legend labels.
func (m *Mesh) centroid(t Triangle) plotter.XY {
	return plotter.XY{
		X: (m.Points[t[0]].X + m.Points[t[1]].X + m.Points[t[2]].X) / 3,
		Y: (m.Points[t[0]].Y + m.Points[t[1]].Y + m.Points[t[2]].Y) / 3,
	}
}
