package session

import (
	"github.com/lmfdb/latticeview/pkg/errors"
	"github.com/lmfdb/latticeview/pkg/icon"
	"github.com/lmfdb/latticeview/pkg/interact"
	"github.com/lmfdb/latticeview/pkg/layout"
	"github.com/lmfdb/latticeview/pkg/render"
)

const (
	// DefaultRowHeight is the pixel height per row used by NewHeight.
	DefaultRowHeight = 50
	// DefaultRowThreshold is the row count above which NewHeight grows the
	// surface.
	DefaultRowThreshold = 6
	// DefaultOrderBorder is the left border reserved for the order list.
	DefaultOrderBorder = 40.0

	// Default canvas sizing when neither the caller nor the document gives
	// one.
	pixelsPerNode  = 100
	pixelsPerLayer = 160
	minDimension   = 200
)

// DefaultVariants names the two diagram variants served for abstract groups.
var DefaultVariants = []string{"C", "A"}

// Config enumerates the session options.
type Config struct {
	Variants       []string `toml:"variants" json:"variants"`
	InitialVariant int      `toml:"initial_variant" json:"initial_variant"`
	InitialByOrder bool     `toml:"initial_by_order" json:"initial_by_order"`
	ShowOrders     bool     `toml:"show_orders" json:"show_orders"`
	RowHeight      int      `toml:"row_height" json:"row_height"`
	RowThreshold   int      `toml:"row_threshold" json:"row_threshold"`

	// IconBase resolves relative icon references, as a directory or URL.
	IconBase        string  `toml:"icon_base" json:"icon_base"`
	IconScale       float64 `toml:"icon_scale" json:"icon_scale"`
	IconConcurrency int     `toml:"icon_concurrency" json:"icon_concurrency"`

	Layout   layout.Config   `toml:"layout" json:"layout"`
	Render   render.Config   `toml:"render" json:"render"`
	Interact interact.Config `toml:"interact" json:"interact"`
}

// DefaultConfig returns the defaults for every component. Render width and
// height stay zero so the session derives them from the document.
func DefaultConfig() Config {
	rc := render.DefaultConfig()
	rc.Width, rc.Height = 0, 0
	return Config{
		Variants:        append([]string(nil), DefaultVariants...),
		RowHeight:       DefaultRowHeight,
		RowThreshold:    DefaultRowThreshold,
		IconConcurrency: icon.DefaultConcurrency,
		Layout:          layout.DefaultConfig(),
		Render:          rc,
		Interact:        interact.DefaultConfig(),
	}
}

// SetDefaults fills zero fields, leaving render width and height alone.
func (c *Config) SetDefaults() {
	if len(c.Variants) == 0 {
		c.Variants = append([]string(nil), DefaultVariants...)
	}
	if c.RowHeight == 0 {
		c.RowHeight = DefaultRowHeight
	}
	if c.RowThreshold == 0 {
		c.RowThreshold = DefaultRowThreshold
	}
	if c.IconConcurrency == 0 {
		c.IconConcurrency = icon.DefaultConcurrency
	}
	if c.ShowOrders && c.Render.OrderBorderX == 0 {
		c.Render.OrderBorderX = DefaultOrderBorder
	}
	c.Layout.SetDefaults()
	c.Interact.SetDefaults()
}

// Validate reports the first invalid option. Component configs are checked
// by their constructors.
func (c Config) Validate() error {
	switch {
	case c.InitialVariant < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "initial variant must not be negative")
	case c.RowHeight <= 0 || c.RowThreshold < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "row height must be positive and threshold not negative")
	case c.IconScale < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "icon scale must not be negative")
	case c.Render.Width < 0 || c.Render.Height < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "canvas size must not be negative")
	}
	seen := make(map[string]bool, len(c.Variants))
	for _, v := range c.Variants {
		if v == "" || seen[v] {
			return errors.New(errors.ErrCodeInvalidConfig, "variant names must be unique and non-empty")
		}
		seen[v] = true
	}
	return nil
}
