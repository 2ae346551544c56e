package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/lmfdb/latticeview/pkg/graph"
)

// Default scale factors from layout units to DOT points.
const (
	DefaultScaleX = 60.0
	DefaultScaleY = 6.0
)

// Options configures DOT export.
type Options struct {
	// ScaleX and ScaleY convert layout units to points. Zero means default.
	ScaleX float64
	ScaleY float64

	// Ambient, when set, becomes the graph label.
	Ambient string

	// SelectedColor fills the selected node. Empty means "deepskyblue".
	SelectedColor string
}

func (o *Options) setDefaults() {
	if o.ScaleX == 0 {
		o.ScaleX = DefaultScaleX
	}
	if o.ScaleY == 0 {
		o.ScaleY = DefaultScaleY
	}
	if o.SelectedColor == "" {
		o.SelectedColor = "deepskyblue"
	}
}

// ToDOT converts a laid out graph to Graphviz DOT with every node pinned at
// its layout position. Layout y grows downward on screen, so it is negated
// for DOT's upward y axis.
func ToDOT(g *graph.Graph, opts Options) string {
	opts.setDefaults()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	if opts.Ambient != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Ambient)
	}
	buf.WriteString("  node [shape=plaintext, fontsize=12, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [color=grey, penwidth=1];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.SourceKey(), e.TargetKey())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *graph.Node, opts Options) []string {
	label := n.Label
	if label == "" {
		label = n.Key
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.Pos.X*opts.ScaleX), fmtFloat(-n.Pos.Y*opts.ScaleY)),
	}
	if n.Size > 1 {
		attrs = append(attrs, fmt.Sprintf("xlabel=\"%d\"", n.Size))
	}
	if n.Selected {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", opts.SelectedColor))
	}
	return attrs
}

func fmtFloat(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderSVG renders DOT source to SVG with Graphviz. The neato engine keeps
// the pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root element so the SVG scales to its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
