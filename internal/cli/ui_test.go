package cli

import (
	"strings"
	"testing"

	"github.com/lmfdb/latticeview/pkg/layout"
)

func TestDiagramStatsLine(t *testing.T) {
	tests := []struct {
		name    string
		stats   diagramStats
		want    []string
		notWant []string
	}{
		{
			name:    "leveled by level",
			stats:   diagramStats{nodes: 4, edges: 4, variant: "C", layout: layout.ModeLeveled},
			want:    []string{"4 nodes", "4 edges", "variant C", "leveled", modeByLevel},
			notWant: []string{"crossing"},
		},
		{
			name:  "single crossing by order",
			stats: diagramStats{nodes: 1, edges: 1, crossings: 1, variant: "A", byOrder: true, layout: layout.ModeLinear},
			want:  []string{"1 node", "1 edge", "1 crossing", "linear", modeByOrder},
		},
		{
			name:  "several crossings",
			stats: diagramStats{nodes: 6, edges: 7, crossings: 3, variant: "C"},
			want:  []string{"3 crossings"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := tt.stats.line()
			for _, w := range tt.want {
				if !strings.Contains(line, w) {
					t.Errorf("line %q missing %q", line, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(line, w) {
					t.Errorf("line %q should not contain %q", line, w)
				}
			}
		})
	}
}

func TestStatsOf(t *testing.T) {
	input := isolate(t)
	c := New(&strings.Builder{}, LogInfo)
	c.noCache = true
	sess, _, err := c.openSession(t.Context(), input, &viewOpts{variant: "A"})
	if err != nil {
		t.Fatal(err)
	}

	got := statsOf(sess)
	if got.nodes != 3 || got.edges != 2 || got.variant != "A" || got.layout != layout.ModeLinear {
		t.Errorf("statsOf = %+v", got)
	}
	if got.crossings != 0 {
		t.Errorf("a chain has no crossings, got %d", got.crossings)
	}
}
