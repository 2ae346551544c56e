package layout

import (
	"slices"

	"github.com/lmfdb/latticeview/pkg/graph"
)

// Crossings returns the number of edge crossings in the current layout of g.
//
// Two edges cross when they span the same pair of levels and their endpoints
// are ordered one way by x on the lower level and the other way on the upper
// level. Edges that share an endpoint or whose endpoints tie on x never count.
// Edges spanning different level pairs are not compared, since in a lattice
// diagram their intersection depends on slopes rather than order alone.
//
// The count is an inversion count per level pair, computed with a Fenwick
// tree in O(E log V).
func Crossings(g *graph.Graph) int {
	if g == nil || g.EdgeCount() < 2 {
		return 0
	}

	rank, width := levelRanks(g)

	type span struct{ lo, hi graph.Level }
	groups := make(map[span][]rankedEdge)
	for _, e := range g.Edges() {
		lo, hi := e.Source, e.Target
		if hi.Level.Less(lo.Level) {
			lo, hi = hi, lo
		}
		if lo.Level == hi.Level {
			continue
		}
		s := span{lo.Level, hi.Level}
		groups[s] = append(groups[s], rankedEdge{rank[lo], rank[hi]})
	}

	ft := make(fenwick, width+1)
	total := 0
	for _, edges := range groups {
		total += inversions(edges, ft)
	}
	return total
}

// rankedEdge holds the x ranks of an edge's endpoints within their levels.
type rankedEdge struct{ lo, hi int }

// levelRanks assigns each node its dense x rank within its level. Nodes with
// equal x share a rank. It also returns the widest level's rank count.
func levelRanks(g *graph.Graph) (map[*graph.Node]int, int) {
	byLevel := make(map[graph.Level][]*graph.Node)
	for _, n := range g.Nodes() {
		byLevel[n.Level] = append(byLevel[n.Level], n)
	}

	rank := make(map[*graph.Node]int, g.NodeCount())
	width := 0
	for _, nodes := range byLevel {
		slices.SortFunc(nodes, func(a, b *graph.Node) int {
			switch {
			case a.Pos.X < b.Pos.X:
				return -1
			case a.Pos.X > b.Pos.X:
				return 1
			}
			return 0
		})
		r := 0
		for i, n := range nodes {
			if i > 0 && n.Pos.X != nodes[i-1].Pos.X {
				r++
			}
			rank[n] = r
		}
		width = max(width, r+1)
	}
	return rank, width
}

// inversions counts pairs ordered by lo but reversed by hi. ft is cleared
// before use so it can be shared across groups.
func inversions(edges []rankedEdge, ft fenwick) int {
	if len(edges) < 2 {
		return 0
	}
	slices.SortFunc(edges, func(a, b rankedEdge) int {
		if a.lo != b.lo {
			return a.lo - b.lo
		}
		return a.hi - b.hi
	})

	clear(ft)
	crossings := 0
	for seen, e := range edges {
		// earlier edges with a strictly larger upper rank
		crossings += seen - ft.sum(e.hi)
		ft.add(e.hi)
	}
	return crossings
}

// fenwick is a binary indexed tree over 0-based ranks.
type fenwick []int

// add increments the count at rank i.
func (f fenwick) add(i int) {
	for q := i + 1; q < len(f); q += q & -q {
		f[q]++
	}
}

// sum returns the count of ranks <= i.
func (f fenwick) sum(i int) int {
	s := 0
	for q := i + 1; q > 0; q -= q & -q {
		s += f[q]
	}
	return s
}
