package layout

import (
	"testing"

	"github.com/lmfdb/latticeview/pkg/graph"
)

// placed builds a graph whose nodes sit on the given levels at the given x.
func placed(nodes map[string][2]float64, edges [][2]string) *graph.Graph {
	var rows []graph.OrderRow
	var tuples []graph.NodeTuple
	for key, p := range nodes {
		rows = append(rows, graph.OrderRow{Raw: key, Major: p[0]})
		tuples = append(tuples, graph.NodeTuple{Key: key, RawOrder: key})
	}
	g := graph.New()
	g.AddNodes(tuples, graph.NewOrderTable(rows), 6)
	for _, n := range g.Nodes() {
		n.Pos = graph.Point{X: nodes[n.Key][1], Y: -10 * nodes[n.Key][0]}
	}
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	return g
}

func TestCrossings(t *testing.T) {
	tests := []struct {
		name  string
		nodes map[string][2]float64
		edges [][2]string
		want  int
	}{
		{
			name:  "parallel",
			nodes: map[string][2]float64{"a": {0, 0}, "b": {0, 1}, "c": {1, 0}, "d": {1, 1}},
			edges: [][2]string{{"a", "c"}, {"b", "d"}},
			want:  0,
		},
		{
			name:  "crossed",
			nodes: map[string][2]float64{"a": {0, 0}, "b": {0, 1}, "c": {1, 0}, "d": {1, 1}},
			edges: [][2]string{{"a", "d"}, {"b", "c"}},
			want:  1,
		},
		{
			name:  "complete bipartite",
			nodes: map[string][2]float64{"a": {0, 0}, "b": {0, 1}, "c": {1, 0}, "d": {1, 1}},
			edges: [][2]string{{"a", "c"}, {"a", "d"}, {"b", "c"}, {"b", "d"}},
			want:  1,
		},
		{
			name:  "tied x",
			nodes: map[string][2]float64{"a": {0, 0}, "b": {0, 1}, "c": {1, 0.5}, "d": {1, 0.5}},
			edges: [][2]string{{"a", "d"}, {"b", "c"}},
			want:  0,
		},
		{
			name:  "edge direction ignored",
			nodes: map[string][2]float64{"a": {0, 0}, "b": {0, 1}, "c": {1, 0}, "d": {1, 1}},
			edges: [][2]string{{"d", "a"}, {"b", "c"}},
			want:  1,
		},
		{
			name:  "different spans not compared",
			nodes: map[string][2]float64{"a": {0, 0}, "b": {0, 1}, "c": {1, 0}, "d": {2, 0}},
			edges: [][2]string{{"a", "d"}, {"b", "c"}},
			want:  0,
		},
		{
			name: "two level pairs",
			nodes: map[string][2]float64{
				"a": {0, 0}, "b": {0, 1},
				"c": {1, 0}, "d": {1, 1},
				"e": {2, 0}, "f": {2, 1},
			},
			edges: [][2]string{{"a", "d"}, {"b", "c"}, {"c", "f"}, {"d", "e"}},
			want:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Crossings(placed(tt.nodes, tt.edges)); got != tt.want {
				t.Errorf("Crossings = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCrossingsEmpty(t *testing.T) {
	if got := Crossings(nil); got != 0 {
		t.Errorf("nil graph = %d", got)
	}
	if got := Crossings(graph.New()); got != 0 {
		t.Errorf("empty graph = %d", got)
	}
}
