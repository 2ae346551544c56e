package layout

import (
	"math/rand/v2"
	"time"

	"github.com/lmfdb/latticeview/pkg/graph"
	"github.com/lmfdb/latticeview/pkg/observability"
)

// Mode names the strategy chosen for a graph.
type Mode string

const (
	ModeLinear  Mode = "linear"
	ModeLeveled Mode = "leveled"
)

// Engine positions graphs. It keeps no state between calls other than its
// configuration and jitter source, and is not safe for concurrent use.
type Engine struct {
	cfg Config
	rng *rand.Rand
}

// New validates cfg and returns an engine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// ChooseMode returns ModeLinear for simple chains and ModeLeveled otherwise.
func ChooseMode(g *graph.Graph) Mode {
	if g.NodeCount() == g.EdgeCount()+1 {
		return ModeLinear
	}
	return ModeLeveled
}

// Height returns the layout-space y for a level. The bottom level (0, 0)
// maps to +0 in both orientations so exports never print -0.
func (e *Engine) Height(l graph.Level) float64 {
	y := 0 - e.cfg.LevelSpacing*l.Major - l.Minor
	if e.cfg.FlipVertical {
		return 0 - y
	}
	return y
}

// Layout assigns Pos to every node of g, sets g.Bounds and returns the mode
// used.
func (e *Engine) Layout(g *graph.Graph) Mode {
	start := time.Now()
	mode := ChooseMode(g)

	switch mode {
	case ModeLinear:
		e.linear(g)
	default:
		e.leveled(g)
	}

	observability.Diagram().OnLayout(string(mode), g.NodeCount(), g.EdgeCount(), time.Since(start))
	return mode
}

func (e *Engine) linear(g *graph.Graph) {
	for _, n := range g.Nodes() {
		n.Pos = graph.Point{X: 0, Y: e.Height(n.Level)}
	}
	g.ComputeBounds()
	g.Bounds.MinX = -e.cfg.LinearHalfWidth
	g.Bounds.MaxX = e.cfg.LinearHalfWidth
}

func (e *Engine) leveled(g *graph.Graph) {
	for _, n := range g.Nodes() {
		n.Pos = graph.Point{X: n.HintX, Y: e.Height(n.Level)}
	}
	if e.cfg.Relax && g.NodeCount() > 1 {
		e.relax(g)
	}
	g.ComputeBounds()
}
