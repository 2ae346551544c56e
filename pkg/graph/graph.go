package graph

import "math"

// Point is a position in either layout space or pixel space.
type Point struct {
	X, Y float64
}

// Bounds is the axis-aligned bounding box of a laid out graph.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Edge connects two nodes. Parallel edges and self loops are allowed.
type Edge struct {
	Source *Node
	Target *Node
}

// SourceKey returns the key of the source node.
func (e *Edge) SourceKey() string { return e.Source.Key }

// TargetKey returns the key of the target node.
func (e *Edge) TargetKey() string { return e.Target.Key }

// Option configures a Graph at construction.
type Option func(*Graph)

// WithIconRequester installs fn to be called for each new node that has an
// icon URL. The node's icon is already marked pending when fn runs.
func WithIconRequester(fn func(*Node)) Option {
	return func(g *Graph) { g.requestIcon = fn }
}

// Graph owns the nodes (by key) and edges of one diagram.
//
// The zero value is not usable; create graphs with New. A Graph is not safe
// for concurrent use: all mutation happens on the goroutine that owns the
// diagram session.
type Graph struct {
	nodes   []*Node
	byKey   map[string]*Node
	edges   []*Edge
	highlit *Node

	// Bounds is set by the layout engine after positions are assigned.
	Bounds Bounds

	requestIcon func(*Node)
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{byKey: make(map[string]*Node)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode adds the node described by t, placing it horizontally at hintX and
// resolving its level through lookup. If a node with t.Key already exists it
// is returned unchanged.
//
// A nil lookup, or a lookup without an entry for t.RawOrder, yields the zero
// level.
func (g *Graph) AddNode(t NodeTuple, hintX float64, lookup OrderLookup, opts ...NodeOption) *Node {
	if n, ok := g.byKey[t.Key]; ok {
		return n
	}

	n := &Node{
		Key:      t.Key,
		Label:    t.Label,
		Raw:      t.Raw,
		Size:     t.Size,
		RawOrder: t.RawOrder,
		HintX:    hintX,
		Index:    len(g.nodes),
	}
	if lookup != nil {
		if lvl, ok := lookup.Level(t.RawOrder); ok {
			n.Level = lvl
		}
	}
	for _, opt := range opts {
		opt(n)
	}

	g.nodes = append(g.nodes, n)
	g.byKey[n.Key] = n

	if t.IconURL != "" {
		n.Icon = Icon{URL: t.IconURL, State: IconPending}
		if g.requestIcon != nil {
			g.requestIcon(n)
		}
	}
	return n
}

// AddNodes adds every tuple in order. The horizontal hint for the i-th tuple
// is max(i, tuple.Hint(hintIndex)), which spaces out nodes whose hint is
// missing or zero while honoring larger explicit hints.
func (g *Graph) AddNodes(tuples []NodeTuple, lookup OrderLookup, hintIndex int) {
	for i, t := range tuples {
		g.AddNode(t, math.Max(float64(i), t.Hint(hintIndex)), lookup)
	}
}

// AddEdge connects source to target, creating bare placeholder nodes for keys
// that have not been added yet.
func (g *Graph) AddEdge(sourceKey, targetKey string) *Edge {
	e := &Edge{
		Source: g.AddNode(NodeTuple{Key: sourceKey}, 0, nil),
		Target: g.AddNode(NodeTuple{Key: targetKey}, 0, nil),
	}
	g.edges = append(g.edges, e)
	return e
}

// Node returns the node with the given key.
func (g *Graph) Node(key string) (*Node, bool) {
	n, ok := g.byKey[key]
	return n, ok
}

// Nodes returns the nodes in insertion order. The slice must not be modified.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the edges in insertion order. The slice must not be modified.
func (g *Graph) Edges() []*Edge { return g.edges }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// IncidentEdges returns the edges that touch n.
func (g *Graph) IncidentEdges(n *Node) []*Edge {
	var out []*Edge
	for _, e := range g.edges {
		if e.Source == n || e.Target == n {
			out = append(out, e)
		}
	}
	return out
}

// ComputeBounds sets Bounds to the true extent of all node positions. An
// empty graph gets the zero box.
func (g *Graph) ComputeBounds() Bounds {
	if len(g.nodes) == 0 {
		g.Bounds = Bounds{}
		return g.Bounds
	}
	b := Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	for _, n := range g.nodes {
		b.MinX = math.Min(b.MinX, n.Pos.X)
		b.MaxX = math.Max(b.MaxX, n.Pos.X)
		b.MinY = math.Min(b.MinY, n.Pos.Y)
		b.MaxY = math.Max(b.MaxY, n.Pos.Y)
	}
	g.Bounds = b
	return b
}

// =============================================================================
// Selection and highlight state
// =============================================================================

// Select marks the node with key as the only selected node. It reports
// whether the key exists; an unknown key leaves the selection cleared.
func (g *Graph) Select(key string) bool {
	g.ClearSelection()
	n, ok := g.byKey[key]
	if ok {
		n.Selected = true
	}
	return ok
}

// ClearSelection unselects every node.
func (g *Graph) ClearSelection() {
	for _, n := range g.nodes {
		n.Selected = false
	}
}

// Selected returns the selected node, or nil.
func (g *Graph) Selected() *Node {
	for _, n := range g.nodes {
		if n.Selected {
			return n
		}
	}
	return nil
}

// Highlit returns the node currently under the pointer, or nil.
func (g *Graph) Highlit() *Node { return g.highlit }

// SetHighlit moves the highlight to n, clearing the flag on the previous
// node. A nil n removes the highlight.
func (g *Graph) SetHighlit(n *Node) {
	if g.highlit != nil {
		g.highlit.Highlit = false
	}
	g.highlit = n
	if n != nil {
		n.Highlit = true
	}
}

// CopySelection copies the selected flags of src onto g by insertion index.
// Graphs built from the same tuples share their node order, so this carries a
// selection across alternate layouts of one diagram.
func (g *Graph) CopySelection(src *Graph) {
	for i, n := range g.nodes {
		n.Selected = i < len(src.nodes) && src.nodes[i].Selected
	}
}
