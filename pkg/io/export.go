package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lmfdb/latticeview/pkg/graph"
	"github.com/lmfdb/latticeview/pkg/layout"
)

// Positions returns the snapshot string of node keys and committed x
// positions, in node insertion order:
//
//	["<ambient>",[["<key1>",x1],["<key2>",x2],...]]
func Positions(ambient string, g *graph.Graph) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(quote(ambient))
	b.WriteString(",[")
	for i, n := range g.Nodes() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('[')
		b.WriteString(quote(n.Key))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(n.Pos.X, 'f', -1, 64))
		b.WriteByte(']')
	}
	b.WriteString("]]")
	return b.String()
}

func quote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

// Layout is the JSON form of a laid out graph.
type Layout struct {
	Ambient string       `json:"ambient"`
	Variant string       `json:"variant,omitempty"`
	ByOrder bool         `json:"by_order"`
	Mode    string       `json:"mode,omitempty"`
	Bounds  LayoutBounds `json:"bounds"`
	Nodes   []LayoutNode `json:"nodes"`
	Edges   [][2]string  `json:"edges"`

	// Crossings is the number of edge crossings between level pairs.
	Crossings int `json:"crossings"`
}

// LayoutBounds mirrors graph.Bounds.
type LayoutBounds struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// LayoutNode is one positioned node.
type LayoutNode struct {
	Key      string     `json:"key"`
	Label    string     `json:"label,omitempty"`
	Size     int        `json:"size,omitempty"`
	Level    [2]float64 `json:"level"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Icon     string     `json:"icon,omitempty"`
	Selected bool       `json:"selected,omitempty"`
}

// NewLayout captures the current positions of g.
func NewLayout(ambient string, g *graph.Graph) Layout {
	b := g.Bounds
	l := Layout{
		Ambient: ambient,
		Bounds:  LayoutBounds{MinX: b.MinX, MaxX: b.MaxX, MinY: b.MinY, MaxY: b.MaxY},
		Nodes:   make([]LayoutNode, 0, g.NodeCount()),
		Edges:   make([][2]string, 0, g.EdgeCount()),

		Crossings: layout.Crossings(g),
	}
	for _, n := range g.Nodes() {
		l.Nodes = append(l.Nodes, LayoutNode{
			Key:      n.Key,
			Label:    n.Label,
			Size:     n.Size,
			Level:    [2]float64{n.Level.Major, n.Level.Minor},
			X:        n.Pos.X,
			Y:        n.Pos.Y,
			Icon:     n.Icon.URL,
			Selected: n.Selected,
		})
	}
	for _, e := range g.Edges() {
		l.Edges = append(l.Edges, [2]string{e.SourceKey(), e.TargetKey()})
	}
	return l
}

// WriteLayout writes l as indented JSON.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}

// WriteLayoutFile writes l to path, replacing any existing file.
func WriteLayoutFile(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLayout(l, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
