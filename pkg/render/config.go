package render

import (
	"github.com/lmfdb/latticeview/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the surface width when none is configured.
	DefaultWidth = 600

	// DefaultHeight is the surface height when none is configured.
	DefaultHeight = 400

	// DefaultRadius is the hit radius and margin around the drawing area.
	DefaultRadius = 20.0

	// DefaultFontSize is the pixel size of the size label.
	DefaultFontSize = 10.0

	// DefaultOrderFontSize is the pixel size of the order-list overlay.
	DefaultOrderFontSize = 16.0

	// MaxDimension bounds either side of the surface.
	MaxDimension = 20000
)

// Config enumerates every renderer option.
type Config struct {
	Width         int     `toml:"width" json:"width"`
	Height        int     `toml:"height" json:"height"`
	Radius        float64 `toml:"radius" json:"radius"`
	OrderBorderX  float64 `toml:"order_border_x" json:"order_border_x"`
	OrderBorderY  float64 `toml:"order_border_y" json:"order_border_y"`
	FontSize      float64 `toml:"font_size" json:"font_size"`
	OrderFontSize float64 `toml:"order_font_size" json:"order_font_size"`
	Palette       Palette `toml:"palette" json:"palette"`
}

// DefaultConfig returns the defaults used by the LMFDB subgroup diagrams.
func DefaultConfig() Config {
	return Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Radius:        DefaultRadius,
		FontSize:      DefaultFontSize,
		OrderFontSize: DefaultOrderFontSize,
		Palette:       DefaultPalette(),
	}
}

// SetDefaults fills zero-valued fields with their defaults.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
	if c.Radius == 0 {
		c.Radius = d.Radius
	}
	if c.FontSize == 0 {
		c.FontSize = d.FontSize
	}
	if c.OrderFontSize == 0 {
		c.OrderFontSize = d.OrderFontSize
	}
	c.Palette.setDefaults()
}

// Validate reports the first invalid option.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Width > MaxDimension:
		return errors.New(errors.ErrCodeInvalidConfig, "width must be in (0, %d], got %d", MaxDimension, c.Width)
	case c.Height <= 0 || c.Height > MaxDimension:
		return errors.New(errors.ErrCodeInvalidConfig, "height must be in (0, %d], got %d", MaxDimension, c.Height)
	case c.Radius <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "radius must be positive, got %g", c.Radius)
	case c.OrderBorderX < 0 || c.OrderBorderY < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "order borders must not be negative")
	case c.FontSize <= 0 || c.OrderFontSize <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "font sizes must be positive")
	}
	if _, err := c.Palette.resolve(); err != nil {
		return err
	}
	return nil
}
