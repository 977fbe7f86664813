package portrait

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/plot/vg"
)

func TestFigure_Size(t *testing.T) {
	g := scalarGrid(t, 2, 4, 2)

	fig, err := (&Processor{FigHeight: 4 * vg.Inch}).Render(g)
	assert.NoError(t, err)

	w, h := fig.Size()
	assert.Equal(t, 4*vg.Inch, h)
	// Without extra panels the width follows the grid aspect ratio.
	assert.Equal(t, 8*vg.Inch, w)

	fig, err = (&Processor{FigHeight: 4 * vg.Inch, AddColorbar: true}).Render(g)
	assert.NoError(t, err)
	cw, _ := fig.Size()
	assert.Greater(t, cw, w)
}

func TestFigure_WriteToFormats(t *testing.T) {
	g := scalarGrid(t, 2, 2, 4)
	fig, err := (&Processor{}).Render(g)
	assert.NoError(t, err)

	for _, format := range []string{"png", "svg", "pdf"} {
		var buf bytes.Buffer
		err := fig.WriteTo(&buf, format)
		assert.NoError(t, err, format)
		assert.NotZero(t, buf.Len(), format)
	}
}

func TestFigure_WriteToUnsupported(t *testing.T) {
	g := scalarGrid(t, 1, 1, 2)
	fig, err := (&Processor{}).Render(g)
	assert.NoError(t, err)

	err = fig.WriteTo(&bytes.Buffer{}, "bmp")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestFigure_Save(t *testing.T) {
	g := scalarGrid(t, 2, 3, 2)
	fig, err := (&Processor{
		AddColorbar:  true,
		CbarLabel:    "RMSE",
		LegendTitle:  "Season",
		LegendLabels: []string{"DJF", "JJA"},
	}).Render(g)
	assert.NoError(t, err)

	path := filepath.Join(t.TempDir(), "portrait.png")
	assert.NoError(t, fig.Save(path))
	assert.FileExists(t, path)

	// No extension means no format to derive.
	assert.Error(t, fig.Save(filepath.Join(t.TempDir(), "portrait")))
}

func TestFigure_Image(t *testing.T) {
	g := scalarGrid(t, 2, 2, 2)
	fig, err := (&Processor{FigHeight: 2 * vg.Inch}).Render(g)
	assert.NoError(t, err)

	img := fig.Image()
	assert.NotNil(t, img)
	b := img.Bounds()
	assert.Greater(t, b.Dx(), 0)
	assert.Greater(t, b.Dy(), 0)
	// Square grid without panels renders to a square canvas.
	assert.Equal(t, b.Dx(), b.Dy())
}

func TestLegendPlot_TriangleSlots(t *testing.T) {
	p := &Processor{LegendLabels: []string{"a", "b", "c", "d"}, LegendTitle: "models"}
	pl := p.legendPlot(4)
	assert.Equal(t, "models", pl.Title.Text)
}

func TestColorbarPlot_Label(t *testing.T) {
	cm, err := NamedColorMap("viridis")
	assert.NoError(t, err)
	cm.SetMin(0)
	cm.SetMax(1)

	p := &Processor{CbarLabel: "skill score"}
	pl := p.colorbarPlot(cm)
	assert.Equal(t, "skill score", pl.Y.Label.Text)
}
