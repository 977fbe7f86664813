package portrait

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGrid_Shape(t *testing.T) {
	g, err := NewGrid([][][]float64{
		{{1, 2}, {3, 4}, {5, 6}},
		{{7, 8}, {9, 10}, {11, 12}},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, g.Rows)
	assert.Equal(t, 3, g.Cols)
	assert.Equal(t, 2, g.Tris)
	assert.Equal(t, 12, g.Len())
	assert.False(t, g.IsRGBA())

	// Row-major, triangle-fastest ordering.
	assert.Equal(t, 1.0, g.Value(0, 0, 0))
	assert.Equal(t, 6.0, g.Value(0, 2, 1))
	assert.Equal(t, 9.0, g.Value(1, 1, 0))
}

func TestNewGrid_InvalidTriangleCount(t *testing.T) {
	for _, tris := range []int{1, 3, 5} {
		cell := make([]float64, tris)
		_, err := NewGrid([][][]float64{{cell}})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "2 or 4 triangles")
	}
}

func TestNewGrid_Empty(t *testing.T) {
	_, err := NewGrid(nil)
	assert.Error(t, err)

	_, err = NewGrid([][][]float64{})
	assert.Error(t, err)

	_, err = NewGrid([][][]float64{{}})
	assert.Error(t, err)
}

func TestNewGrid_Ragged(t *testing.T) {
	// Second row has a different column count.
	_, err := NewGrid([][][]float64{
		{{1, 2}, {3, 4}},
		{{5, 6}},
	})
	assert.Error(t, err)

	// Second cell has a different triangle count.
	_, err = NewGrid([][][]float64{
		{{1, 2}, {3, 4, 5, 6}},
	})
	assert.Error(t, err)
}

func TestGrid_Range(t *testing.T) {
	g, err := NewGrid([][][]float64{{{-1, 4}, {2, 7}}})
	assert.NoError(t, err)

	vmin, vmax := g.Range()
	assert.Equal(t, -1.0, vmin)
	assert.Equal(t, 7.0, vmax)
}

func TestGrid_RangeDegenerate(t *testing.T) {
	g, err := NewGrid([][][]float64{{{3, 3}, {3, 3}}})
	assert.NoError(t, err)

	vmin, vmax := g.Range()
	assert.Equal(t, 2.5, vmin)
	assert.Equal(t, 3.5, vmax)
}

func TestNewRGBAGrid(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	g, err := NewRGBAGrid([][][]color.NRGBA{
		{{red, blue}, {blue, red}},
	})
	assert.NoError(t, err)
	assert.True(t, g.IsRGBA())
	assert.Equal(t, 1, g.Rows)
	assert.Equal(t, 2, g.Cols)
	assert.Equal(t, 2, g.Tris)
	assert.Equal(t, red, g.Color(0, 0, 0))
	assert.Equal(t, blue, g.Color(0, 1, 0))
}

func TestNewRGBAGrid_InvalidTriangleCount(t *testing.T) {
	c := color.NRGBA{A: 255}
	_, err := NewRGBAGrid([][][]color.NRGBA{{{c, c, c}}})
	assert.Error(t, err)
}
