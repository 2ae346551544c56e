package render

import (
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/lmfdb/latticeview/pkg/fonts"
	"github.com/lmfdb/latticeview/pkg/graph"
)

// InfoPanel is the external collaborator that shows details about the
// selected node.
type InfoPanel interface {
	// Show requests the details of key within the ambient object.
	Show(ambient, key string)
	// Clear resets the panel to its "nothing selected" text.
	Clear()
}

// OrderLabel is one entry of the order-list overlay: a label drawn in the
// left border at layout-space height Y.
type OrderLabel struct {
	Text string
	Y    float64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithInfoPanel sets the panel notified by NewGraph, and the ambient
// identifier passed along with selected keys.
func WithInfoPanel(p InfoPanel, ambient string) Option {
	return func(r *Renderer) {
		r.info = p
		r.ambient = ambient
	}
}

// Renderer draws one graph at a time onto a raster surface. It is not safe
// for concurrent use.
type Renderer struct {
	cfg    Config
	colors colors

	dc    *gg.Context
	graph *graph.Graph

	factorX, factorY float64

	labelFace font.Face
	orderFace font.Face
	orders    []OrderLabel

	info    InfoPanel
	ambient string
}

// New validates cfg and creates a renderer for g. The transform is computed
// immediately, so g should already be laid out.
func New(g *graph.Graph, cfg Config, opts ...Option) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cols, err := cfg.Palette.resolve()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		cfg:       cfg,
		colors:    cols,
		dc:        gg.NewContext(cfg.Width, cfg.Height),
		graph:     g,
		labelFace: fonts.NewFace(cfg.FontSize),
		orderFace: fonts.NewFace(cfg.OrderFontSize),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.SetSize()
	return r, nil
}

// Graph returns the graph on display.
func (r *Renderer) Graph() *graph.Graph { return r.graph }

// Config returns the renderer configuration, including the current size.
func (r *Renderer) Config() Config { return r.cfg }

// Size returns the surface dimensions in pixels.
func (r *Renderer) Size() (w, h int) { return r.dc.Width(), r.dc.Height() }

// Radius returns the hit radius.
func (r *Renderer) Radius() float64 { return r.cfg.Radius }

// Image returns the surface. The image is reused by later draws.
func (r *Renderer) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the surface as PNG.
func (r *Renderer) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

// SavePNG writes the surface to a PNG file.
func (r *Renderer) SavePNG(path string) error { return r.dc.SavePNG(path) }

// SetOrderLabels sets the order-list overlay; nil disables it.
func (r *Renderer) SetOrderLabels(labels []OrderLabel) { r.orders = labels }

// Resize replaces the surface with one of the given size and recomputes the
// transform. Sizes are clamped to [1, MaxDimension].
func (r *Renderer) Resize(w, h int) {
	w = max(1, min(w, MaxDimension))
	h = max(1, min(h, MaxDimension))
	r.cfg.Width, r.cfg.Height = w, h
	r.dc = gg.NewContext(w, h)
	r.SetSize()
}

// SetSize recomputes the layout-to-pixel factors from the surface size and
// the graph bounds, then repositions every node.
func (r *Renderer) SetSize() {
	b := r.graph.Bounds
	rad := r.cfg.Radius
	r.factorX = (float64(r.dc.Width()) - 2*rad - r.cfg.OrderBorderX) / (b.MaxX - b.MinX + 1)
	r.factorY = (float64(r.dc.Height()) - 2*rad - r.cfg.OrderBorderY) / (b.MaxY - b.MinY + 1)
	r.Reposition()
}

// Factors returns the current layout-to-pixel scale factors.
func (r *Renderer) Factors() (fx, fy float64) { return r.factorX, r.factorY }

// Translate maps a layout-space point to pixel space.
func (r *Renderer) Translate(p graph.Point) graph.Point {
	b := r.graph.Bounds
	return graph.Point{
		X: (p.X-b.MinX)*r.factorX + r.cfg.Radius + r.cfg.OrderBorderX,
		Y: (p.Y-b.MinY)*r.factorY + r.cfg.Radius + r.cfg.OrderBorderY,
	}
}

// Untranslate maps a pixel-space point back to layout space.
func (r *Renderer) Untranslate(p graph.Point) graph.Point {
	b := r.graph.Bounds
	return graph.Point{
		X: (p.X-r.cfg.Radius-r.cfg.OrderBorderX)/r.factorX + b.MinX,
		Y: (p.Y-r.cfg.Radius-r.cfg.OrderBorderY)/r.factorY + b.MinY,
	}
}

// Reposition sets every node's pixel center from its layout position.
func (r *Renderer) Reposition() {
	for _, n := range r.graph.Nodes() {
		n.Center = r.Translate(n.Pos)
	}
}

// NodeAt returns the node whose translated layout position is nearest to p,
// provided it lies within the hit radius, or nil. Of several equally near
// nodes the first in insertion order wins.
func (r *Renderer) NodeAt(p graph.Point) *graph.Node {
	var hit *graph.Node
	limit := r.cfg.Radius * r.cfg.Radius
	best := math.Inf(1)
	for _, n := range r.graph.Nodes() {
		c := r.Translate(n.Pos)
		dx, dy := p.X-c.X, p.Y-c.Y
		if d := dx*dx + dy*dy; d < best && d <= limit {
			best = d
			hit = n
		}
	}
	return hit
}

// Highlight marks the node with key as highlit and redraws.
func (r *Renderer) Highlight(key string) {
	n, ok := r.graph.Node(key)
	if !ok {
		return
	}
	r.graph.SetHighlit(n)
	r.Draw()
}

// Unhighlight clears the highlight of the node with key and redraws.
func (r *Renderer) Unhighlight(key string) {
	n, ok := r.graph.Node(key)
	if !ok {
		return
	}
	if r.graph.Highlit() == n {
		r.graph.SetHighlit(nil)
	}
	n.Highlit = false
	r.Draw()
}

// NewGraph puts g on display, recomputes the transform, redraws, and tells
// the info panel about the selected node of g (or clears it).
func (r *Renderer) NewGraph(g *graph.Graph) {
	r.graph = g
	r.SetSize()
	r.Draw()

	if r.info == nil {
		return
	}
	if n := g.Selected(); n != nil {
		r.info.Show(r.ambient, n.Key)
	} else {
		r.info.Clear()
	}
}
