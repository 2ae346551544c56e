package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"

	"github.com/lmfdb/latticeview/pkg/errors"
)

// Palette holds CSS color strings for every drawn element. Any syntax that
// CSS accepts works: names, #rgb, rgb(), hsl().
type Palette struct {
	Background string `toml:"background" json:"background"`
	Text       string `toml:"text" json:"text"`
	Edge       string `toml:"edge" json:"edge"`
	Selected   string `toml:"selected" json:"selected"`
	Highlit    string `toml:"highlit" json:"highlit"`

	// Placeholder colors the ring drawn for pending icons. When empty it is
	// derived by blending Edge halfway toward Background.
	Placeholder string `toml:"placeholder" json:"placeholder,omitempty"`
}

// DefaultPalette returns the colors of the LMFDB diagrams.
func DefaultPalette() Palette {
	return Palette{
		Background: "white",
		Text:       "black",
		Edge:       "grey",
		Selected:   "deepskyblue",
		Highlit:    "yellowgreen",
	}
}

func (p *Palette) setDefaults() {
	d := DefaultPalette()
	if p.Background == "" {
		p.Background = d.Background
	}
	if p.Text == "" {
		p.Text = d.Text
	}
	if p.Edge == "" {
		p.Edge = d.Edge
	}
	if p.Selected == "" {
		p.Selected = d.Selected
	}
	if p.Highlit == "" {
		p.Highlit = d.Highlit
	}
}

type colors struct {
	background  color.Color
	text        color.Color
	edge        color.Color
	selected    color.Color
	highlit     color.Color
	placeholder color.Color
}

func (p Palette) resolve() (colors, error) {
	var c colors
	fields := []struct {
		name  string
		value string
		dst   *color.Color
	}{
		{"background", p.Background, &c.background},
		{"text", p.Text, &c.text},
		{"edge", p.Edge, &c.edge},
		{"selected", p.Selected, &c.selected},
		{"highlit", p.Highlit, &c.highlit},
	}
	for _, f := range fields {
		col, err := ParseColor(f.value)
		if err != nil {
			return colors{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette %s", f.name)
		}
		*f.dst = col
	}

	if p.Placeholder != "" {
		col, err := ParseColor(p.Placeholder)
		if err != nil {
			return colors{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette placeholder")
		}
		c.placeholder = col
	} else {
		c.placeholder = blend(c.edge, c.background, 0.5)
	}
	return c, nil
}

// ParseColor parses a CSS color string.
func ParseColor(s string) (color.NRGBA, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(c.A),
	}, nil
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// blend mixes a toward b in RGB space. A transparent b counts as white.
func blend(a, b color.Color, t float64) color.Color {
	ca, _ := colorful.MakeColor(a)
	cb, ok := colorful.MakeColor(b)
	if !ok {
		cb = colorful.Color{R: 1, G: 1, B: 1}
	}
	return ca.BlendRgb(cb, t).Clamped()
}
