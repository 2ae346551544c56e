// Package nodelink exports laid out diagrams as Graphviz node-link drawings.
//
// [ToDOT] writes an undirected DOT graph in which every node is pinned at its
// layout position (pos="x,y!"), so Graphviz only draws and never re-lays out
// the diagram. [RenderSVG] runs the embedded Graphviz with the neato engine.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Ambient: "8.3"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Selected nodes are filled with the selection color and sizes greater than
// one appear as external labels, mirroring the raster renderer.
package nodelink
