package portrait

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/ATMO-IUP-UHEI/portrait/utils"
)

// Figure bundles the drawing primitives created for a portrait plot so the
// caller can customize them further before encoding. Legend and Colorbar are
// nil unless the corresponding options were set.
type Figure struct {
	Main     *plot.Plot
	Legend   *plot.Plot
	Colorbar *plot.Plot
	// Mesh holds one polygon per triangle, in row-major cell order with the
	// fixed triangle slot order inside each cell.
	Mesh []*plotter.Polygon
	// ColorMap is the resolved colormap with the normalization bounds set.
	// It is nil for RGBA grids.
	ColorMap palette.ColorMap

	rows, cols int
	height     vg.Length
}

// setupAxes applies the portrait axis conventions: fixed limits with half a
// line width of slack, inverted y so row 0 sits on top, no ticks, no frame.
func setupAxes(pl *plot.Plot, rows, cols int) {
	pl.X.Min, pl.X.Max = -0.51, float64(cols)-0.49
	pl.Y.Min, pl.Y.Max = -0.51, float64(rows)-0.49
	pl.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	pl.HideAxes()
}

// legendPlot draws a single 1×1 cell subdivided like the grid tiles, with one
// label per triangle slot and an optional title.
func (p *Processor) legendPlot(tris int) *plot.Plot {
	mesh, _ := NewMesh(1, 1, tris)

	pl := plot.New()
	pl.Title.Text = p.LegendTitle

	for _, tri := range mesh.Triangles {
		poly, _ := plotter.NewPolygon(plotter.XYs{
			mesh.Points[tri[0]],
			mesh.Points[tri[1]],
			mesh.Points[tri[2]],
		})
		poly.LineStyle.Color = p.edgeColor()
		poly.LineStyle.Width = p.lineWidth()
		pl.Add(poly)
	}

	if len(p.LegendLabels) > 0 {
		xyl := plotter.XYLabels{Labels: p.LegendLabels}
		for _, tri := range mesh.Triangles {
			xyl.XYs = append(xyl.XYs, mesh.centroid(tri))
		}
		labels, err := plotter.NewLabels(xyl)
		if err == nil {
			for i := range labels.TextStyle {
				labels.TextStyle[i].XAlign = text.XCenter
				labels.TextStyle[i].YAlign = text.YCenter
			}
			pl.Add(labels)
		}
	}

	setupAxes(pl, 1, 1)
	return pl
}

// colorbarPlot builds the vertical colorbar panel for the resolved colormap.
func (p *Processor) colorbarPlot(cm palette.ColorMap) *plot.Plot {
	pl := plot.New()
	pl.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	pl.HideX()
	pl.Y.Label.Text = p.CbarLabel
	return pl
}

// panels returns the panel widths and padding for a figure of height h.
// The main panel keeps the grid aspect ratio, the legend panel is one cell
// wide and the colorbar panel a fixed fraction of the height.
func (f *Figure) panels(h vg.Length) (mainW, legendW, cbarW, pad vg.Length) {
	mainW = h * vg.Length(f.cols) / vg.Length(f.rows)
	pad = h * 0.02
	if f.Legend != nil {
		legendW = utils.Max(h/vg.Length(f.rows), h*0.1)
	}
	if f.Colorbar != nil {
		cbarW = h * 0.12
	}
	return mainW, legendW, cbarW, pad
}

// Size returns the canvas dimensions of the figure.
func (f *Figure) Size() (w, h vg.Length) {
	h = f.height
	if h <= 0 {
		h = defaultFigHeight
	}
	mainW, legendW, cbarW, pad := f.panels(h)
	w = mainW
	if legendW > 0 {
		w += pad + legendW
	}
	if cbarW > 0 {
		w += pad + cbarW
	}
	return w, h
}

// Draw renders all panels side by side onto the canvas: main mesh, then the
// top-aligned legend inset, then the colorbar.
func (f *Figure) Draw(dc draw.Canvas) {
	h := dc.Max.Y - dc.Min.Y
	mainW, legendW, cbarW, pad := f.panels(h)

	x := vg.Length(0)
	f.Main.Draw(draw.Crop(dc, x, x+mainW-(dc.Max.X-dc.Min.X), 0, 0))
	x += mainW

	if f.Legend != nil {
		x += pad
		// The legend cell matches the size of one grid cell and sits at
		// the top edge, with headroom for the title.
		legendH := utils.Min(legendW*1.5, h)
		f.Legend.Draw(draw.Crop(dc, x, x+legendW-(dc.Max.X-dc.Min.X), h-legendH, 0))
		x += legendW
	}

	if f.Colorbar != nil {
		x += pad
		f.Colorbar.Draw(draw.Crop(dc, x, x+cbarW-(dc.Max.X-dc.Min.X), 0, 0))
	}
}

// WriteTo encodes the figure to w in the given format. Supported formats are
// the formatted canvases of gonum/plot: eps, jpg, pdf, png, svg, tex and tif.
func (f *Figure) WriteTo(w io.Writer, format string) error {
	cw, ch := f.Size()
	c, err := draw.NewFormattedCanvas(cw, ch, format)
	if err != nil {
		return fmt.Errorf("unsupported output format %q: %w", format, err)
	}
	f.Draw(draw.New(c))
	_, err = c.WriteTo(w)
	return err
}

// Save encodes the figure into a file, deriving the format from the file
// extension.
func (f *Figure) Save(path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return errors.New("no output format could be derived from the file name")
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.WriteTo(file, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Image rasterizes the figure at the default resolution.
func (f *Figure) Image() image.Image {
	w, h := f.Size()
	c := vgimg.New(w, h)
	f.Draw(draw.New(c))
	return c.Image()
}
