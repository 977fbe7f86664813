package portrait

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default rendering options.
var (
	defaultEdgeColor = color.Black
	defaultLineWidth = vg.Points(0.3)
	defaultFigHeight = 6 * vg.Inch
	defaultFormat    = "png"
)

// Processor holds the rendering options of a portrait plot.
type Processor struct {
	// Cmap selects a registered colormap by name; empty means viridis.
	// It is ignored for RGBA grids.
	Cmap string
	// ColorMap overrides Cmap with a caller supplied colormap.
	ColorMap palette.ColorMap
	// Vmin and Vmax fix the normalization range of the colormap. When
	// Vmin >= Vmax (the zero value included) the range is derived from
	// the data instead.
	Vmin float64
	Vmax float64
	// EdgeColor and LineWidth style the triangle outlines.
	EdgeColor color.Color
	LineWidth vg.Length
	// AddColorbar attaches a vertical colorbar panel. Only valid for
	// scalar grids.
	AddColorbar bool
	CbarLabel   string
	// LegendTitle and LegendLabels configure the legend inset. The label
	// count must match the number of triangles per cell.
	LegendTitle  string
	LegendLabels []string
	// FigHeight is the figure height; the width follows from the grid
	// aspect ratio and the optional panels.
	FigHeight vg.Length
	// Format is the encoding used by Process (png, jpg, svg, pdf, eps, tif).
	Format string
}

// Render builds the full figure for a grid: the triangle mesh on its own
// axes plus the optional legend and colorbar panels. The returned Figure
// exposes every created primitive for further customization.
func (p *Processor) Render(g *Grid) (*Figure, error) {
	if err := p.validate(g); err != nil {
		return nil, err
	}

	polys, cm, err := p.buildMesh(g)
	if err != nil {
		return nil, err
	}

	fig := &Figure{
		Main:     plot.New(),
		Mesh:     polys,
		ColorMap: cm,
		rows:     g.Rows,
		cols:     g.Cols,
		height:   p.figHeight(),
	}
	for _, poly := range polys {
		fig.Main.Add(poly)
	}
	setupAxes(fig.Main, g.Rows, g.Cols)

	if p.hasLegend() {
		fig.Legend = p.legendPlot(g.Tris)
	}
	if p.AddColorbar {
		fig.Colorbar = p.colorbarPlot(cm)
	}
	return fig, nil
}

// RenderTo draws the triangle mesh into a caller supplied plot and configures
// its axes. The caller owns the drawing surface; legend and colorbar panels
// are not created on this path.
func (p *Processor) RenderTo(pl *plot.Plot, g *Grid) ([]*plotter.Polygon, error) {
	if err := p.validate(g); err != nil {
		return nil, err
	}
	polys, _, err := p.buildMesh(g)
	if err != nil {
		return nil, err
	}
	for _, poly := range polys {
		pl.Add(poly)
	}
	setupAxes(pl, g.Rows, g.Cols)
	return polys, nil
}

// Process decodes a JSON grid document from r, renders it and encodes the
// figure to w using the configured format.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	g, err := DecodeGrid(r)
	if err != nil {
		return err
	}
	fig, err := p.Render(g)
	if err != nil {
		return err
	}
	format := p.Format
	if format == "" {
		format = defaultFormat
	}
	return fig.WriteTo(w, format)
}

// validate checks the usage errors that do not depend on the mesh.
func (p *Processor) validate(g *Grid) error {
	if g == nil {
		return errors.New("no grid provided")
	}
	if g.Tris != 2 && g.Tris != 4 {
		return fmt.Errorf("only 2 or 4 triangles per cell are supported, got %d", g.Tris)
	}
	if n := len(p.LegendLabels); n != 0 && n != g.Tris {
		return fmt.Errorf("number of legend labels (%d) must match number of triangles (%d)", n, g.Tris)
	}
	if p.AddColorbar && g.IsRGBA() {
		return errors.New("a colorbar requires scalar values, not RGBA colors")
	}
	return nil
}

// buildMesh triangulates the grid and resolves one fill color per triangle.
func (p *Processor) buildMesh(g *Grid) ([]*plotter.Polygon, palette.ColorMap, error) {
	mesh, err := NewMesh(g.Rows, g.Cols, g.Tris)
	if err != nil {
		return nil, nil, err
	}

	var cm palette.ColorMap
	if !g.IsRGBA() {
		cm, err = p.colorMap()
		if err != nil {
			return nil, nil, err
		}
		vmin, vmax := p.normRange(g)
		cm.SetMin(vmin)
		cm.SetMax(vmax)
	}

	fills, err := resolveColors(g, cm)
	if err != nil {
		return nil, nil, err
	}

	polys := make([]*plotter.Polygon, 0, len(mesh.Triangles))
	for k, tri := range mesh.Triangles {
		poly, err := plotter.NewPolygon(plotter.XYs{
			mesh.Points[tri[0]],
			mesh.Points[tri[1]],
			mesh.Points[tri[2]],
		})
		if err != nil {
			return nil, nil, err
		}
		poly.Color = fills[k]
		poly.LineStyle.Color = p.edgeColor()
		poly.LineStyle.Width = p.lineWidth()
		polys = append(polys, poly)
	}
	return polys, cm, nil
}

// resolveColors returns one fill color per triangle, either the explicit RGBA
// values or the scalar values mapped through the colormap. Out of range
// scalars are clipped to the colormap bounds, matching the behavior of the
// usual normalization in plotting libraries.
func resolveColors(g *Grid, cm palette.ColorMap) ([]color.Color, error) {
	fills := make([]color.Color, 0, g.Len())
	if g.IsRGBA() {
		for _, c := range g.rgba {
			fills = append(fills, c)
		}
		return fills, nil
	}

	vmin, vmax := cm.Min(), cm.Max()
	for k, v := range g.values {
		if v < vmin {
			v = vmin
		} else if v > vmax {
			v = vmax
		}
		c, err := cm.At(v)
		if err != nil {
			return nil, fmt.Errorf("mapping value %v (triangle %d): %w", g.values[k], k, err)
		}
		fills = append(fills, c)
	}
	return fills, nil
}

// colorMap resolves the configured colormap.
func (p *Processor) colorMap() (palette.ColorMap, error) {
	if p.ColorMap != nil {
		return p.ColorMap, nil
	}
	return NamedColorMap(p.Cmap)
}

// normRange returns the normalization bounds: the configured ones when they
// span a valid interval, otherwise the range of the data.
func (p *Processor) normRange(g *Grid) (vmin, vmax float64) {
	if p.Vmin < p.Vmax {
		return p.Vmin, p.Vmax
	}
	return g.Range()
}

func (p *Processor) hasLegend() bool {
	return p.LegendTitle != "" || len(p.LegendLabels) > 0
}

func (p *Processor) edgeColor() color.Color {
	if p.EdgeColor != nil {
		return p.EdgeColor
	}
	return defaultEdgeColor
}

func (p *Processor) lineWidth() vg.Length {
	if p.LineWidth > 0 {
		return p.LineWidth
	}
	return defaultLineWidth
}

func (p *Processor) figHeight() vg.Length {
	if p.FigHeight > 0 {
		return p.FigHeight
	}
	return defaultFigHeight
}

// gridDocument is the JSON input format of the CLI: exactly one of the two
// fields must be present.
type gridDocument struct {
	Values [][][]float64 `json:"values"`
	RGBA   [][][]string  `json:"rgba"`
}

// DecodeGrid reads a JSON grid document, either scalar values or hex encoded
// RGBA colors:
//
//	{"values": [[[0.1, 0.2], [0.3, 0.4]]]}
//	{"rgba": [[["#ff0000", "#00ff00ff"]]]}
func DecodeGrid(r io.Reader) (*Grid, error) {
	var doc gridDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding grid document: %w", err)
	}

	switch {
	case doc.Values != nil && doc.RGBA != nil:
		return nil, errors.New(`the grid document must contain either "values" or "rgba", not both`)
	case doc.Values != nil:
		return NewGrid(doc.Values)
	case doc.RGBA != nil:
		values := make([][][]color.NRGBA, len(doc.RGBA))
		for i, row := range doc.RGBA {
			values[i] = make([][]color.NRGBA, len(row))
			for j, cell := range row {
				values[i][j] = make([]color.NRGBA, len(cell))
				for k, s := range cell {
					c, err := ParseHexColor(s)
					if err != nil {
						return nil, fmt.Errorf("cell (%d,%d) triangle %d: %w", i, j, k, err)
					}
					values[i][j][k] = c
				}
			}
		}
		return NewRGBAGrid(values)
	default:
		return nil, errors.New(`the grid document must contain a "values" or "rgba" field`)
	}
}

// ParseHexColor parses #rrggbb and #rrggbbaa color strings.
func ParseHexColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 0xff}
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 9:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = errors.New("expected #rrggbb or #rrggbbaa")
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}
