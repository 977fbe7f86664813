package portrait

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/plot"
)

// scalarGrid builds a rows × cols grid with tris triangles per cell and
// deterministic increasing values.
func scalarGrid(t *testing.T, rows, cols, tris int) *Grid {
	t.Helper()

	values := make([][][]float64, rows)
	v := 0.0
	for i := range values {
		values[i] = make([][]float64, cols)
		for j := range values[i] {
			cell := make([]float64, tris)
			for k := range cell {
				cell[k] = v
				v++
			}
			values[i][j] = cell
		}
	}
	g, err := NewGrid(values)
	assert.NoError(t, err)
	return g
}

func TestRender_TriangleCount(t *testing.T) {
	for _, tris := range []int{2, 4} {
		g := scalarGrid(t, 3, 4, tris)

		p := &Processor{}
		fig, err := p.Render(g)
		assert.NoError(t, err)
		assert.Len(t, fig.Mesh, 3*4*tris)
		assert.NotNil(t, fig.Main)
	}
}

func TestRender_RGBAPassthrough(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	gray := color.NRGBA{R: 128, G: 128, B: 128, A: 200}

	g, err := NewRGBAGrid([][][]color.NRGBA{
		{{red, green, blue, gray}},
	})
	assert.NoError(t, err)

	p := &Processor{}
	fig, err := p.Render(g)
	assert.NoError(t, err)
	assert.Len(t, fig.Mesh, 4)

	// The colormap must be bypassed entirely: the emitted fill colors are
	// the input colors, bit for bit.
	assert.Equal(t, red, fig.Mesh[0].Color)
	assert.Equal(t, green, fig.Mesh[1].Color)
	assert.Equal(t, blue, fig.Mesh[2].Color)
	assert.Equal(t, gray, fig.Mesh[3].Color)
	assert.Nil(t, fig.ColorMap)
}

func TestRender_ScalarMatchesColormap(t *testing.T) {
	g := scalarGrid(t, 2, 3, 2)

	p := &Processor{Cmap: "viridis", Vmin: 0, Vmax: 11}
	fig, err := p.Render(g)
	assert.NoError(t, err)

	// Rendering with explicit bounds must match composing the same
	// colormap and normalization directly.
	cm, err := NamedColorMap("viridis")
	assert.NoError(t, err)
	cm.SetMin(0)
	cm.SetMax(11)

	for i := range g.values {
		want, err := cm.At(g.values[i])
		assert.NoError(t, err)
		assert.Equal(t, want, fig.Mesh[i].Color, "triangle %d", i)
	}
}

func TestRender_ClipsOutOfRange(t *testing.T) {
	g, err := NewGrid([][][]float64{{{-5, 20}}})
	assert.NoError(t, err)

	p := &Processor{Vmin: 0, Vmax: 10}
	fig, err := p.Render(g)
	assert.NoError(t, err)

	cm, _ := NamedColorMap("viridis")
	cm.SetMin(0)
	cm.SetMax(10)
	low, _ := cm.At(0)
	high, _ := cm.At(10)

	assert.Equal(t, low, fig.Mesh[0].Color)
	assert.Equal(t, high, fig.Mesh[1].Color)
}

func TestRender_ConstantGrid(t *testing.T) {
	g, err := NewGrid([][][]float64{{{5, 5}, {5, 5}}})
	assert.NoError(t, err)

	p := &Processor{}
	fig, err := p.Render(g)
	assert.NoError(t, err)

	// With the widened degenerate range every triangle maps to the
	// midpoint color.
	cm, _ := NamedColorMap("viridis")
	cm.SetMin(4.5)
	cm.SetMax(5.5)
	want, _ := cm.At(5)
	for _, poly := range fig.Mesh {
		assert.Equal(t, want, poly.Color)
	}
}

func TestRender_LegendLabelMismatch(t *testing.T) {
	g := scalarGrid(t, 1, 1, 4)

	p := &Processor{LegendLabels: []string{"DJF", "MAM"}}
	_, err := p.Render(g)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "legend labels")
}

func TestRender_ColorbarOnRGBA(t *testing.T) {
	c := color.NRGBA{A: 255}
	g, err := NewRGBAGrid([][][]color.NRGBA{{{c, c}}})
	assert.NoError(t, err)

	p := &Processor{AddColorbar: true}
	_, err = p.Render(g)
	assert.Error(t, err)
}

func TestRender_UnknownColormap(t *testing.T) {
	g := scalarGrid(t, 1, 1, 2)

	p := &Processor{Cmap: "nope"}
	_, err := p.Render(g)
	assert.Error(t, err)
}

func TestRender_NilGrid(t *testing.T) {
	p := &Processor{}
	_, err := p.Render(nil)
	assert.Error(t, err)
}

func TestRender_Panels(t *testing.T) {
	g := scalarGrid(t, 2, 2, 2)

	fig, err := (&Processor{}).Render(g)
	assert.NoError(t, err)
	assert.Nil(t, fig.Legend)
	assert.Nil(t, fig.Colorbar)

	fig, err = (&Processor{
		LegendLabels: []string{"obs", "model"},
		LegendTitle:  "Season",
		AddColorbar:  true,
	}).Render(g)
	assert.NoError(t, err)
	assert.NotNil(t, fig.Legend)
	assert.NotNil(t, fig.Colorbar)
	assert.Equal(t, "Season", fig.Legend.Title.Text)
}

func TestRender_EdgeStyle(t *testing.T) {
	g := scalarGrid(t, 1, 1, 2)

	red := color.NRGBA{R: 255, A: 255}
	p := &Processor{EdgeColor: red}
	fig, err := p.Render(g)
	assert.NoError(t, err)
	for _, poly := range fig.Mesh {
		assert.Equal(t, red, poly.LineStyle.Color)
	}
}

func TestRenderTo(t *testing.T) {
	g := scalarGrid(t, 2, 3, 4)

	pl := plot.New()
	polys, err := (&Processor{}).RenderTo(pl, g)
	assert.NoError(t, err)
	assert.Len(t, polys, 2*3*4)
	assert.Equal(t, -0.51, pl.X.Min)
	assert.InDelta(t, 2.51, pl.X.Max, 1e-9)
}

func TestProcess_PNG(t *testing.T) {
	in := strings.NewReader(`{"values": [[[0.1, 0.2], [0.3, 0.4]], [[0.5, 0.6], [0.7, 0.8]]]}`)
	var out bytes.Buffer

	p := &Processor{AddColorbar: true, LegendLabels: []string{"a", "b"}}
	err := p.Process(in, &out)
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("\x89PNG")), "expected a PNG stream")
}

func TestProcess_SVG(t *testing.T) {
	in := strings.NewReader(`{"values": [[[1, 2, 3, 4]]]}`)
	var out bytes.Buffer

	p := &Processor{Format: "svg"}
	err := p.Process(in, &out)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "<svg")
}

func TestProcess_InvalidDocument(t *testing.T) {
	p := &Processor{}
	err := p.Process(strings.NewReader(`{"values": [[[1, 2, 3]]]}`), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestDecodeGrid_RGBA(t *testing.T) {
	g, err := DecodeGrid(strings.NewReader(`{"rgba": [[["#ff0000", "#00ff0080"]]]}`))
	assert.NoError(t, err)
	assert.True(t, g.IsRGBA())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, g.Color(0, 0, 0))
	assert.Equal(t, color.NRGBA{G: 255, A: 128}, g.Color(0, 0, 1))
}

func TestDecodeGrid_Errors(t *testing.T) {
	cases := map[string]string{
		"both":    `{"values": [[[1, 2]]], "rgba": [[["#ff0000", "#00ff00"]]]}`,
		"neither": `{}`,
		"badhex":  `{"rgba": [[["#xyz", "#00ff00"]]]}`,
		"badjson": `{"values": `,
	}
	for name, doc := range cases {
		_, err := DecodeGrid(strings.NewReader(doc))
		assert.Error(t, err, name)
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#1a2b3c")
	assert.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff}, c)

	c, err = ParseHexColor("#1a2b3c40")
	assert.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0x40}, c)

	_, err = ParseHexColor("red")
	assert.Error(t, err)
}
