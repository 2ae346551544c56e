package layout

import (
	"math"

	"github.com/lmfdb/latticeview/pkg/graph"
)

// relax runs one iteration, spreads, then runs the configured iterations.
func (e *Engine) relax(g *graph.Graph) {
	force := make([]float64, g.NodeCount())
	e.iterate(g, force)
	e.spread(g)
	for i := 0; i < e.cfg.Iterations; i++ {
		e.iterate(g, force)
	}
}

func (e *Engine) iterate(g *graph.Graph, force []float64) {
	nodes := g.Nodes()
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			e.repulse(nodes[i], nodes[j], 1, force)
		}
	}
	for _, edge := range g.Edges() {
		e.attract(edge.Source, edge.Target, force)
	}

	limit := e.cfg.MaxVertexMovement
	for i := 1; i < len(nodes)-1; i++ {
		move := math.Max(-limit, math.Min(limit, e.cfg.C*force[i]))
		nodes[i].Pos.X += move
	}
	clear(force)
}

// separation returns the x and y offsets from a to b, jittered when the two
// nodes coincide.
func (e *Engine) separation(a, b *graph.Node) (dx, dy, d2 float64) {
	dx = b.Pos.X - a.Pos.X
	dy = b.Pos.Y - a.Pos.Y
	d2 = dx*dx + dy*dy
	if d2 < 0.01 {
		dx = 0.1*e.rng.Float64() + 0.1
		dy = 0.1*e.rng.Float64() + 0.1
		d2 = dx*dx + dy*dy
	}
	return dx, dy, d2
}

func (e *Engine) repulse(a, b *graph.Node, factor float64, force []float64) {
	dx, _, d2 := e.separation(a, b)
	if math.Sqrt(d2) >= e.cfg.MaxRepulsiveForceDistance {
		return
	}
	if math.Abs(dx) < 0.5 {
		dx = 1
	}
	f := factor * e.cfg.K * e.cfg.K * dx / d2
	force[b.Index] += f
	force[a.Index] -= f
}

func (e *Engine) attract(a, b *graph.Node, force []float64) {
	if a == b {
		return
	}
	e.repulse(a, b, -1, force)

	dx, _, d2 := e.separation(a, b)
	d := math.Min(math.Sqrt(d2), e.cfg.MaxRepulsiveForceDistance)
	k := e.cfg.K
	f := 8 * (d - k*k) / k * dx / 10
	force[b.Index] -= f
	force[a.Index] += f
}

// spread rescales x so that max|x| equals SpreadWidth.
func (e *Engine) spread(g *graph.Graph) {
	maxAbs := 0.0
	for _, n := range g.Nodes() {
		maxAbs = math.Max(maxAbs, math.Abs(n.Pos.X))
	}
	if maxAbs == 0 {
		return
	}
	scale := e.cfg.SpreadWidth / maxAbs
	for _, n := range g.Nodes() {
		n.Pos.X *= scale
	}
}
