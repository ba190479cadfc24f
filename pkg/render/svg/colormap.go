package svg

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/trackstack/pkg/errors"
)

// Colormap maps a normalized value in [0, 1] to a color by blending between
// anchor colors in Lab space, which keeps perceived lightness changing
// evenly across the ramp.
type Colormap struct {
	name  string
	stops []colorful.Color
}

// Name returns the colormap's registry name.
func (c Colormap) Name() string { return c.name }

// Map returns the color for a normalized value; values outside [0, 1] are
// clamped to the ramp ends.
func (c Colormap) Map(v float64) color.NRGBA {
	if v <= 0 {
		return toNRGBA(c.stops[0])
	}
	if v >= 1 {
		return toNRGBA(c.stops[len(c.stops)-1])
	}

	segments := len(c.stops) - 1
	pos := v * float64(segments)
	i := int(pos)
	if i >= segments {
		i = segments - 1
	}
	blended := c.stops[i].BlendLab(c.stops[i+1], pos-float64(i)).Clamped()
	return toNRGBA(blended)
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

func mustHex(stops ...string) []colorful.Color {
	out := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

// Built-in colormaps. "viridis" is the default for interaction heatmaps.
var colormaps = map[string][]colorful.Color{
	"viridis": mustHex("#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"),
	"hot":     mustHex("#000000", "#e50000", "#ffa800", "#ffffff"),
	"blues":   mustHex("#f7fbff", "#6baed6", "#08306b"),
}

// ColormapByName looks up a built-in colormap.
func ColormapByName(name string) (Colormap, error) {
	stops, ok := colormaps[name]
	if !ok {
		return Colormap{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown colormap %q", name)
	}
	return Colormap{name: name, stops: stops}, nil
}
