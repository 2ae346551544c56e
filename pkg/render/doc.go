// Package render draws laid out diagrams onto a raster surface.
//
// # Overview
//
// A [Renderer] owns a fogleman/gg drawing context and the graph currently on
// display. It maps layout space to pixel space with a per-axis affine
// transform:
//
//	factorX = (width  - 2·radius - orderBorderX) / (maxX - minX + 1)
//	pixelX  = (x - minX)·factorX + radius + orderBorderX
//
// and the same for y. [Renderer.SetSize] recomputes the factors and must be
// called whenever the surface or the graph bounds change; [Renderer.Resize]
// and [Renderer.NewGraph] do so automatically.
//
// # Drawing
//
// [Renderer.Draw] clears the surface, draws every node and then every edge.
// A node with a ready icon is drawn with its top at center.y-4, behind it a
// background rectangle in the selected color (or, with lower priority, the
// highlight color), and left of it the size label when size > 1. Nodes whose
// icon is still pending draw a small placeholder ring; once the icon arrives
// [Renderer.RedrawNode] repaints just that node.
//
// Edges run between points pushed out from each center by radius±4
// depending on whether the edge is closer to horizontal or vertical, so they
// stop short of the icons.
//
// # Node-Link Export
//
// The [nodelink] subpackage exports the same positions as Graphviz DOT and
// renders SVG through go-graphviz.
//
// [nodelink]: github.com/lmfdb/latticeview/pkg/render/nodelink
package render
