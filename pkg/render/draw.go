package render

import (
	"image"
	"math"
	"strconv"
	"time"

	"github.com/lmfdb/latticeview/pkg/graph"
	"github.com/lmfdb/latticeview/pkg/observability"
)

const (
	// Icons are drawn with their top edge this far above the center.
	iconRise = 4.0
	// Size labels sit this far below the center.
	labelDrop = 12.0
	// Edges near horizontal end further out, near vertical closer in.
	edgeTan   = 0.7
	edgeExtra = 4.0
)

// Draw clears the surface and draws all nodes, then all edges, then the
// order-list overlay if one is set.
func (r *Renderer) Draw() {
	start := time.Now()

	r.dc.SetColor(r.colors.background)
	r.dc.Clear()
	r.paint()

	observability.Diagram().OnDraw(r.graph.NodeCount(), r.graph.EdgeCount(), time.Since(start))
}

func (r *Renderer) paint() {
	for _, n := range r.graph.Nodes() {
		r.DrawNode(n)
	}
	for _, e := range r.graph.Edges() {
		r.DrawEdge(e)
	}
	r.drawOrders()
}

// DrawNode draws one node at its pixel center. Pending and failed icons draw
// a placeholder ring; nodes without an icon draw their label text.
func (r *Renderer) DrawNode(n *graph.Node) {
	switch n.Icon.State {
	case graph.IconReady:
		r.drawIcon(n)
	case graph.IconNone:
		r.drawText(n)
	default:
		r.drawPlaceholder(n)
	}
}

// RedrawNode repaints the area node n covers after its icon has resolved,
// without touching the rest of the surface. The area is cleared and
// everything overlapping it is painted again under a clip, so edges crossing
// it come out as they would from a full Draw.
func (r *Renderer) RedrawNode(n *graph.Node) {
	box := r.footprint(n)
	x, y := float64(box.Min.X), float64(box.Min.Y)
	w, h := float64(box.Dx()), float64(box.Dy())

	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Clip()
	defer r.dc.ResetClip()

	r.dc.SetColor(r.colors.background)
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Fill()
	r.paint()
}

// footprint returns the pixel box covering whatever DrawNode paints for n,
// both as a placeholder and in its current state, size label included.
func (r *Renderer) footprint(n *graph.Node) image.Rectangle {
	c := n.Center
	rad := r.cfg.Radius / 2
	x0, x1 := c.X-rad, c.X+rad
	y0, y1 := c.Y-rad, c.Y+rad

	lft := c.X - rad
	switch n.Icon.State {
	case graph.IconReady:
		w, h := n.Icon.Size()
		lft = c.X - w/2
		x0, x1 = min(x0, lft-2), max(x1, lft+w)
		y0, y1 = min(y0, c.Y-iconRise-2), max(y1, c.Y-iconRise+h+1)
	case graph.IconNone:
		if n.Label != "" {
			r.dc.SetFontFace(r.labelFace)
			w, h := r.dc.MeasureString(n.Label)
			lft = c.X - w/2
			x0, x1 = min(x0, lft-2), max(x1, lft+w)
			y0, y1 = min(y0, c.Y-iconRise-2), max(y1, c.Y-iconRise+h+1)
		}
	}

	if n.Size > 1 {
		r.dc.SetFontFace(r.labelFace)
		tw, _ := r.dc.MeasureString(strconv.Itoa(n.Size))
		x0 = min(x0, min(lft, c.X-rad)-tw)
		y0 = min(y0, c.Y+labelDrop-r.cfg.FontSize-2)
		y1 = max(y1, c.Y+labelDrop+r.cfg.FontSize/2)
	}

	return image.Rect(
		int(math.Floor(x0))-2, int(math.Floor(y0))-2,
		int(math.Ceil(x1))+2, int(math.Ceil(y1))+2,
	)
}

func (r *Renderer) backdrop(n *graph.Node, lft, w, h float64) {
	switch {
	case n.Selected:
		r.dc.SetColor(r.colors.selected)
	case n.Highlit:
		r.dc.SetColor(r.colors.highlit)
	default:
		return
	}
	r.dc.DrawRectangle(lft-2, n.Center.Y-iconRise-2, w+2, h+3)
	r.dc.Fill()
}

func (r *Renderer) drawIcon(n *graph.Node) {
	w, h := n.Icon.Size()
	lft := n.Center.X - w/2

	r.backdrop(n, lft, w, h)
	r.dc.DrawImage(n.Icon.Image, int(math.Round(lft)), int(math.Round(n.Center.Y-iconRise)))
	r.drawSize(n, lft)
}

func (r *Renderer) drawText(n *graph.Node) {
	if n.Label == "" {
		return
	}
	r.dc.SetFontFace(r.labelFace)
	w, h := r.dc.MeasureString(n.Label)
	lft := n.Center.X - w/2

	r.backdrop(n, lft, w, h)
	r.dc.SetColor(r.colors.text)
	r.dc.DrawString(n.Label, lft, n.Center.Y-iconRise+h)
	r.drawSize(n, lft)
}

func (r *Renderer) drawPlaceholder(n *graph.Node) {
	rad := r.cfg.Radius / 2
	switch {
	case n.Selected:
		r.dc.SetColor(r.colors.selected)
	case n.Highlit:
		r.dc.SetColor(r.colors.highlit)
	default:
		r.dc.SetColor(r.colors.placeholder)
	}
	r.dc.SetLineWidth(1.5)
	r.dc.DrawCircle(n.Center.X, n.Center.Y, rad-1)
	r.dc.Stroke()
	r.drawSize(n, n.Center.X-rad)
}

// drawSize writes the multiplicity left of the box starting at lft.
func (r *Renderer) drawSize(n *graph.Node, lft float64) {
	if n.Size <= 1 {
		return
	}
	s := strconv.Itoa(n.Size)
	r.dc.SetFontFace(r.labelFace)
	tw, _ := r.dc.MeasureString(s)
	r.dc.SetColor(r.colors.text)
	r.dc.DrawString(s, lft-tw, n.Center.Y+labelDrop)
}

// EdgeEndpoints returns the stroked segment for e: both centers pushed
// outward along the edge by radius±4.
func (r *Renderer) EdgeEndpoints(e *graph.Edge) (from, to graph.Point, ok bool) {
	s, t := e.Source.Center, e.Target.Center
	dx, dy := t.X-s.X, t.Y-s.Y
	if dx == 0 && dy == 0 {
		return from, to, false
	}

	tan := dy / dx
	extra := -edgeExtra
	if math.Abs(tan) < edgeTan {
		extra = edgeExtra
	}
	theta := math.Atan(tan)
	if s.X <= t.X {
		theta += math.Pi
	}
	from = rotate(s, -r.cfg.Radius-extra, theta)
	to = rotate(t, r.cfg.Radius+extra, theta)
	return from, to, true
}

// DrawEdge strokes one edge. Zero-length edges are skipped.
func (r *Renderer) DrawEdge(e *graph.Edge) {
	from, to, ok := r.EdgeEndpoints(e)
	if !ok {
		return
	}
	r.dc.SetColor(r.colors.edge)
	r.dc.SetLineWidth(1)
	r.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	r.dc.Stroke()
}

func (r *Renderer) drawOrders() {
	if len(r.orders) == 0 {
		return
	}
	r.dc.SetFontFace(r.orderFace)
	r.dc.SetColor(r.colors.text)
	right := r.cfg.OrderBorderX + r.cfg.Radius/2
	for _, o := range r.orders {
		y := r.Translate(graph.Point{Y: o.Y}).Y
		r.dc.DrawStringAnchored(o.Text, right, y, 1, 0.5)
	}
}

func rotate(p graph.Point, length, angle float64) graph.Point {
	return graph.Point{
		X: p.X + length*math.Cos(angle),
		Y: p.Y + length*math.Sin(angle),
	}
}
