package portrait

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
)

// gradient is a palette.ColorMap interpolating between a fixed set of color
// stops. Blending happens in the Lab color space to keep the perceived
// lightness progression smooth.
type gradient struct {
	stops    []colorful.Color
	min, max float64
	alpha    float64
	hasMin   bool
	hasMax   bool
}

// newGradient builds a colormap from at least two opaque color stops.
func newGradient(stops []color.Color) *gradient {
	g := &gradient{alpha: 1}
	for _, c := range stops {
		cc, _ := colorful.MakeColor(c)
		g.stops = append(g.stops, cc)
	}
	return g
}

func (g *gradient) Min() float64 { return g.min }
func (g *gradient) Max() float64 { return g.max }

func (g *gradient) SetMin(v float64) {
	g.min = v
	g.hasMin = true
}

func (g *gradient) SetMax(v float64) {
	g.max = v
	g.hasMax = true
}

func (g *gradient) Alpha() float64 { return g.alpha }

func (g *gradient) SetAlpha(a float64) {
	if a < 0 || a > 1 {
		panic("portrait: alpha out of range [0,1]")
	}
	g.alpha = a
}

// At maps a value within [Min, Max] to a color.
func (g *gradient) At(v float64) (color.Color, error) {
	switch {
	case !g.hasMin || !g.hasMax:
		return nil, fmt.Errorf("portrait: colormap Min and Max values must be set")
	case g.min >= g.max:
		return nil, fmt.Errorf("portrait: colormap Min must be less than Max")
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < g.min:
		return nil, palette.ErrUnderflow
	case v > g.max:
		return nil, palette.ErrOverflow
	}

	pos := (v - g.min) / (g.max - g.min) * float64(len(g.stops)-1)
	i := int(pos)
	if i == len(g.stops)-1 {
		return g.nrgba(g.stops[i]), nil
	}
	return g.nrgba(g.stops[i].BlendLab(g.stops[i+1], pos-float64(i)).Clamped()), nil
}

func (g *gradient) nrgba(c colorful.Color) color.NRGBA {
	r, gg, b := c.RGB255()
	return color.NRGBA{R: r, G: gg, B: b, A: uint8(g.alpha*255 + 0.5)}
}

// Palette discretizes the gradient into n evenly spaced colors.
func (g *gradient) Palette(n int) palette.Palette {
	cp := *g
	cp.SetMin(0)
	cp.SetMax(1)
	colors := make([]color.Color, n)
	for i := range colors {
		var t float64
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		colors[i], _ = cp.At(t)
	}
	return paletteColors(colors)
}

// paletteColors is a plain color slice satisfying palette.Palette.
type paletteColors []color.Color

func (p paletteColors) Colors() []color.Color { return p }

// Colormap tables with the control points of the matplotlib colormaps.
var (
	viridisStops = []color.Color{
		color.NRGBA{68, 1, 84, 255},
		color.NRGBA{72, 35, 116, 255},
		color.NRGBA{64, 67, 135, 255},
		color.NRGBA{52, 94, 141, 255},
		color.NRGBA{41, 120, 142, 255},
		color.NRGBA{32, 144, 140, 255},
		color.NRGBA{34, 167, 132, 255},
		color.NRGBA{68, 190, 112, 255},
		color.NRGBA{121, 209, 81, 255},
		color.NRGBA{189, 222, 38, 255},
		color.NRGBA{253, 231, 37, 255},
	}
	plasmaStops = []color.Color{
		color.NRGBA{13, 8, 135, 255},
		color.NRGBA{75, 3, 161, 255},
		color.NRGBA{125, 3, 168, 255},
		color.NRGBA{168, 34, 150, 255},
		color.NRGBA{203, 70, 121, 255},
		color.NRGBA{229, 107, 93, 255},
		color.NRGBA{248, 148, 65, 255},
		color.NRGBA{253, 195, 40, 255},
		color.NRGBA{240, 249, 33, 255},
	}
	infernoStops = []color.Color{
		color.NRGBA{0, 0, 4, 255},
		color.NRGBA{40, 11, 84, 255},
		color.NRGBA{101, 21, 110, 255},
		color.NRGBA{159, 42, 99, 255},
		color.NRGBA{212, 72, 66, 255},
		color.NRGBA{245, 125, 21, 255},
		color.NRGBA{250, 193, 39, 255},
		color.NRGBA{252, 255, 164, 255},
	}
	magmaStops = []color.Color{
		color.NRGBA{0, 0, 4, 255},
		color.NRGBA{28, 16, 68, 255},
		color.NRGBA{79, 18, 123, 255},
		color.NRGBA{129, 37, 129, 255},
		color.NRGBA{181, 54, 122, 255},
		color.NRGBA{229, 80, 100, 255},
		color.NRGBA{251, 135, 97, 255},
		color.NRGBA{254, 194, 135, 255},
		color.NRGBA{252, 253, 191, 255},
	}
)

// colorMaps registers the named colormap constructors. The matplotlib entries
// use the gradient tables above, the rest delegate to the colormaps shipped
// with gonum/plot.
var colorMaps = map[string]func() (palette.ColorMap, error){
	"viridis": func() (palette.ColorMap, error) { return newGradient(viridisStops), nil },
	"plasma":  func() (palette.ColorMap, error) { return newGradient(plasmaStops), nil },
	"inferno": func() (palette.ColorMap, error) { return newGradient(infernoStops), nil },
	"magma":   func() (palette.ColorMap, error) { return newGradient(magmaStops), nil },

	"smoothbluered":     func() (palette.ColorMap, error) { return moreland.SmoothBlueRed(), nil },
	"kindlmann":         func() (palette.ColorMap, error) { return moreland.Kindlmann(), nil },
	"extendedkindlmann": func() (palette.ColorMap, error) { return moreland.ExtendedKindlmann(), nil },
	"blackbody":         func() (palette.ColorMap, error) { return moreland.BlackBody(), nil },
	"extendedblackbody": func() (palette.ColorMap, error) { return moreland.ExtendedBlackBody(), nil },

	"rdbu":     func() (palette.ColorMap, error) { return brewerGradient("RdBu") },
	"rdylbu":   func() (palette.ColorMap, error) { return brewerGradient("RdYlBu") },
	"spectral": func() (palette.ColorMap, error) { return brewerGradient("Spectral") },
}

// brewerGradient turns a diverging ColorBrewer palette into a smooth colormap.
func brewerGradient(name string) (palette.ColorMap, error) {
	p, err := brewer.GetPalette(brewer.TypeDiverging, name, 11)
	if err != nil {
		return nil, fmt.Errorf("loading brewer palette %q: %w", name, err)
	}
	return newGradient(p.Colors()), nil
}

// NamedColorMap resolves a colormap by name. The empty name selects viridis.
// Names are case insensitive. Unknown names are a usage error listing the
// available maps.
func NamedColorMap(name string) (palette.ColorMap, error) {
	if name == "" {
		name = "viridis"
	}
	build, ok := colorMaps[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q, available: %s", name, strings.Join(ColorMapNames(), ", "))
	}
	return build()
}

// ColorMapNames returns the registered colormap names in sorted order.
func ColorMapNames() []string {
	names := make([]string, 0, len(colorMaps))
	for name := range colorMaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
