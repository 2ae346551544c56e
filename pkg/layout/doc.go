// Package layout assigns layout-space positions to the nodes of a diagram.
//
// The engine picks one of two strategies per graph:
//
//   - Linear: used when NodeCount == EdgeCount+1 (a simple chain). Every node
//     is stacked in one column at x = 0 and the horizontal bounds are forced
//     to a symmetric window so the column sits in the middle of the canvas.
//   - Leveled: x comes from the node's HintX and y from its level. An
//     optional spring relaxation then moves nodes along x only.
//
// In both modes y = -LevelSpacing*major - minor, so higher levels sit higher
// on the canvas (pixel y grows downward after translation). FlipVertical
// reverses the sign.
//
// # Spring Relaxation
//
// Relaxation runs one iteration, spreads x so that max|x| equals
// SpreadWidth, then runs Iterations more. Each iteration accumulates an
// all-pairs repulsive force k²·dx/d² and, for every edge, removes that
// repulsion again and adds an attraction 8(d-k²)/k·dx/10. Every node except
// the first and the last moves by C times its force, clamped to
// MaxVertexMovement. The y coordinate is never touched, which keeps nodes in
// their level rows.
//
// Coincident nodes get a small seeded jitter so the forces stay finite.
//
// # Usage
//
//	eng, err := layout.New(layout.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	mode := eng.Layout(g)
//	fmt.Println(mode, g.Bounds)
package layout
