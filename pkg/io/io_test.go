package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lmfdb/latticeview/pkg/errors"
	"github.com/lmfdb/latticeview/pkg/graph"
)

const sampleDoc = `{
  "ambient": "8.3",
  "diagrams": [
    {"nodes": [["e", 1, "", 1, 1, "icon0.png", 0, [2, 5]],
               ["C2", "2", {"gens": 1}, 3, 2, "icon1.png", 1, 1],
               ["D4", 8.0, null, 1, "8"]],
     "edges": [[1, 2], ["2", 8]]},
    [[["e", 1]], []]
  ],
  "orders": [[1, 0, 0], [2, 1, 0], [8, 3]],
  "num_layers": 3,
  "width": 640
}`

func TestReadDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	if doc.Ambient != "8.3" || doc.NumLayers != 3 || doc.Width != 640 || doc.Height != 0 {
		t.Errorf("header = %+v", doc)
	}
	if len(doc.Diagrams) != 2 {
		t.Fatalf("len(Diagrams) = %d, want 2", len(doc.Diagrams))
	}

	d := doc.Diagrams[0]
	if len(d.Nodes) != 3 || len(d.Edges) != 2 {
		t.Fatalf("diagram 0 has %d nodes, %d edges", len(d.Nodes), len(d.Edges))
	}
	first := d.Nodes[0]
	if first.Key != "1" || first.Label != "e" || first.RawOrder != "1" || first.IconURL != "icon0.png" {
		t.Errorf("first tuple = %+v", first)
	}
	if first.Hint(7) != 2 {
		t.Errorf("array hint = %v, want 2", first.Hint(7))
	}
	if d.Nodes[1].Size != 3 || d.Nodes[1].Hint(6) != 1 {
		t.Errorf("second tuple = %+v", d.Nodes[1])
	}
	if d.Nodes[2].Key != "8" || d.Nodes[2].IconURL != "" || d.Nodes[2].Hint(6) != 0 {
		t.Errorf("short tuple = %+v", d.Nodes[2])
	}
	if d.Edges[1] != [2]string{"2", "8"} {
		t.Errorf("edge = %v", d.Edges[1])
	}

	if len(doc.Diagrams[1].Nodes) != 1 || len(doc.Diagrams[1].Edges) != 0 {
		t.Errorf("array-form diagram = %+v", doc.Diagrams[1])
	}

	wantOrders := []graph.OrderRow{{Raw: "1"}, {Raw: "2", Major: 1}, {Raw: "8", Major: 3}}
	for i, o := range doc.Orders {
		if o != wantOrders[i] {
			t.Errorf("order %d = %+v, want %+v", i, o, wantOrders[i])
		}
	}
	if got := strings.Join(doc.OrderLabels(), ","); got != "1,2,8" {
		t.Errorf("OrderLabels() = %s", got)
	}
}

func TestReadDocumentErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"not json", `{`, errors.ErrCodeInvalidFormat},
		{"no diagrams", `{"ambient": "1.1", "diagrams": []}`, errors.ErrCodeInvalidInput},
		{"node not array", `{"diagrams": [{"nodes": [{"k": 1}], "edges": []}]}`, errors.ErrCodeInvalidInput},
		{"short edge", `{"diagrams": [{"nodes": [], "edges": [[1]]}]}`, errors.ErrCodeInvalidInput},
		{"bad pair", `{"diagrams": [[[]]]}`, errors.ErrCodeInvalidInput},
		{"empty order row", `{"diagrams": [[[], []]], "orders": [[]]}`, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestReadDocumentFileNotFound(t *testing.T) {
	_, err := ReadDocumentFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"8.3", "8.3"},
		{float64(12), "12"},
		{float64(-3), "-3"},
		{1.5, "1.5"},
		{true, "true"},
		{[]any{float64(1), "a"}, `[1,"a"]`},
	}

	for _, tt := range tests {
		if got := Key(tt.in); got != tt.want {
			t.Errorf("Key(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{float64(3), 3},
		{"2.5", 2.5},
		{"x", 0},
		{[]any{float64(4), float64(9)}, 4},
		{[]any{}, 0},
		{nil, 0},
		{json.Number("7"), 7},
	}

	for _, tt := range tests {
		if got := Number(tt.in); got != tt.want {
			t.Errorf("Number(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPositions(t *testing.T) {
	g := graph.New()
	a := g.AddNode(graph.NodeTuple{Key: "1"}, 0, nil)
	b := g.AddNode(graph.NodeTuple{Key: "2.a"}, 0, nil)
	a.Pos.X = 0
	b.Pos.X = 12.5

	want := `["8.3",[["1",0],["2.a",12.5]]]`
	if got := Positions("8.3", g); got != want {
		t.Errorf("Positions() = %s, want %s", got, want)
	}
	if got := Positions("1.1", graph.New()); got != `["1.1",[]]` {
		t.Errorf("empty Positions() = %s", got)
	}

	var parsed []any
	if err := json.Unmarshal([]byte(Positions(`we"ird`, g)), &parsed); err != nil {
		t.Errorf("Positions output should be valid JSON: %v", err)
	}
}

func TestWriteLayoutFile(t *testing.T) {
	g := graph.New()
	g.AddEdge("1", "2")
	n, _ := g.Node("2")
	n.Pos = graph.Point{X: 3, Y: -10}
	g.ComputeBounds()

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(NewLayout("4.1", g), path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got Layout
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Ambient != "4.1" || len(got.Nodes) != 2 || len(got.Edges) != 1 {
		t.Errorf("layout = %+v", got)
	}
	if got.Bounds.MinY != -10 || got.Bounds.MaxX != 3 {
		t.Errorf("bounds = %+v", got.Bounds)
	}
	if got.Crossings != 0 {
		t.Errorf("crossings = %d, want 0", got.Crossings)
	}
}
